package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可切换的游戏场景（如游戏关卡、菜单）
type Scene interface {
	// Update 推进场景逻辑
	// deltaTime 是距上一帧的时间（秒）
	Update(deltaTime float64)

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 切换到其他关卡之前
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}

// Pausable 是一个可选接口，用于在应用失去焦点或进入后台时暂停场景
type Pausable interface {
	SetPaused(paused bool)
}
