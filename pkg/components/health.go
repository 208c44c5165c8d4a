package components

// HealthComponent 存储实体的生命值信息
// 用于玩家等可被伤害的实体
type HealthComponent struct {
	CurrentHealth float64 // 当前生命值
	MaxHealth     float64 // 最大生命值
	IsDead        bool    // 是否已死亡（死亡后忽略伤害和治疗，直到检查点恢复）
}
