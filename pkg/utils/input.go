// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 存储当前帧的键盘输入状态
// 调试键：F1 捕获检查点，F2 恢复，F5 写入存档，F9 删除存档，F6/F7 导出/导入
type InputState struct {
	// 水平移动方向（已归一化），X 为左右，Z 为前后
	MoveX, MoveZ float64

	Interact bool // E：拾取附近物品
	Pause    bool // Esc：暂停/继续

	Capture bool // F1
	Restore bool // F2
	Persist bool // F5
	Erase   bool // F9
	Export  bool // F6
	Import  bool // F7
}

// GetInputState 获取当前帧的输入状态
func GetInputState() InputState {
	x, z := MoveVector(
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)

	return InputState{
		MoveX:    x,
		MoveZ:    z,
		Interact: inpututil.IsKeyJustPressed(ebiten.KeyE),
		Pause:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Capture:  inpututil.IsKeyJustPressed(ebiten.KeyF1),
		Restore:  inpututil.IsKeyJustPressed(ebiten.KeyF2),
		Persist:  inpututil.IsKeyJustPressed(ebiten.KeyF5),
		Erase:    inpututil.IsKeyJustPressed(ebiten.KeyF9),
		Export:   inpututil.IsKeyJustPressed(ebiten.KeyF6),
		Import:   inpututil.IsKeyJustPressed(ebiten.KeyF7),
	}
}

// MoveVector 把方向键状态转换为归一化的移动向量
// 相反方向同时按下时互相抵消
func MoveVector(up, down, left, right bool) (x, z float64) {
	if up {
		z++
	}
	if down {
		z--
	}
	if right {
		x++
	}
	if left {
		x--
	}
	if x != 0 && z != 0 {
		x /= math.Sqrt2
		z /= math.Sqrt2
	}
	return x, z
}
