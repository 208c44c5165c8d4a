package components

import "github.com/decker502/cyberrebel/pkg/types"

// DamageMode 伤害触发方式
type DamageMode int

const (
	// DamageOnEnter 进入时造成一次伤害
	DamageOnEnter DamageMode = iota
	// DamageWhileInside 停留期间按间隔持续造成伤害
	DamageWhileInside
	// DamageOnExit 离开时造成一次伤害
	DamageOnExit
)

// String 返回伤害模式的字符串表示
func (m DamageMode) String() string {
	switch m {
	case DamageOnEnter:
		return "OnEnter"
	case DamageWhileInside:
		return "WhileInside"
	case DamageOnExit:
		return "OnExit"
	default:
		return "Unknown"
	}
}

// CheckpointTriggerComponent 检查点触发区域
type CheckpointTriggerComponent struct {
	Name         string      // 触发器名称（日志用）
	TargetTag    string      // 只响应此标签的实体，默认 "Player"
	Radius       float64     // 球形触发半径
	OnceOnly     bool        // 是否只触发一次
	Activated    bool        // 是否已触发
	RespawnPoint *types.Vec3 // 可选：触发时先把玩家移动到此处
	RespawnRot   *types.Quat // 可选：重生朝向
}

// DamageTriggerComponent 伤害触发区域
type DamageTriggerComponent struct {
	Name            string     // 触发器名称（日志用）
	TargetTag       string     // 只响应此标签的实体，默认 "Player"
	Radius          float64    // 球形触发半径
	Mode            DamageMode // 触发方式
	Amount          float64    // 每次伤害量
	Interval        float64    // 持续伤害间隔（秒）
	DestroyAfterUse bool       // OnEnter 伤害后销毁触发器
	Enabled         bool       // 是否启用

	// 运行时状态
	LastDamageTime float64 // 上次造成持续伤害的时间（秒）
	Inside         bool    // 目标是否在区域内
}
