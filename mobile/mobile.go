//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。手动构建：
//
//	# Android
//	cp -r data mobile/data && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.cyberrebel -o build/android/cyberrebel.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/data && ebitenmobile bind -target ios -tags mobile -o build/ios/CyberRebel.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/cyberrebel/pkg/app"
	"github.com/decker502/cyberrebel/pkg/embedded"
)

var gameApp *app.App

func init() {
	embedded.Init(dataFS)

	var err error
	gameApp, err = app.NewApp(app.Config{Verbose: true})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Suspend 应用进入后台时由宿主调用，暂停并保存最后检查点
func Suspend() {
	if gameApp == nil {
		return
	}
	sm := gameApp.GetSceneManager()
	sm.PauseCurrent(true)
	if !sm.SaveCurrent() {
		log.Printf("[Mobile] Warning: checkpoint was not saved on suspend")
	}
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
