package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/cyberrebel/pkg/app"
	"github.com/decker502/cyberrebel/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "输出详细日志")
	level := flag.String("level", "", "关卡文件路径（默认使用 CR_LEVEL_PATH）")
	flag.Parse()

	// 初始化内嵌内容数据，磁盘上没有 data/ 时使用
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Level:   *level,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Cyber Rebel")
	ebiten.SetTPS(app.TicksPerSecond)
	// 关闭窗口时先保存检查点
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
	gameApp.Shutdown()
}
