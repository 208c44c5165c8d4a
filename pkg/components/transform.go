package components

import "github.com/decker502/cyberrebel/pkg/types"

// TransformComponent 存储实体在世界中的位置和朝向
type TransformComponent struct {
	Position types.Vec3 // 世界坐标
	Rotation types.Quat // 旋转
}

// TagComponent 实体标签（如 "Player"），触发器用于过滤进入者
type TagComponent struct {
	Tag string
}

// ActiveComponent 控制实体在世界中是否可见/可交互
// 对应引擎里 SetActive(false) 的语义：实体仍存在，只是被隐藏
type ActiveComponent struct {
	Active bool
}
