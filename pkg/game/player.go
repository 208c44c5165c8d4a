package game

import (
	"log"

	"github.com/decker502/cyberrebel/pkg/components"
	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
)

// PlayerTag 玩家实体的标签，触发器默认只响应此标签
const PlayerTag = "Player"

// DefaultPlayerMaxHealth 未配置时的最大生命值
const DefaultPlayerMaxHealth = 100.0

// Player 玩家实体的包装
//
// 组件数据保存在 EntityManager 中，Player 只持有实体ID；
// 实体被销毁后 IsValid 返回 false，检查点系统据此判断玩家是否缺失
type Player struct {
	em      *ecs.EntityManager
	entity  ecs.EntityID
	onDeath func()
}

// NewPlayer 在世界中创建玩家实体
//
// 参数：
//   - em: 实体管理器
//   - pos, rot: 初始位置和朝向
//   - maxHealth: 最大生命值，<= 0 时使用 DefaultPlayerMaxHealth
func NewPlayer(em *ecs.EntityManager, pos types.Vec3, rot types.Quat, maxHealth float64) *Player {
	if maxHealth <= 0 {
		maxHealth = DefaultPlayerMaxHealth
	}
	id := em.CreateEntity()
	em.AddComponent(id, &components.TransformComponent{Position: pos, Rotation: rot})
	em.AddComponent(id, &components.HealthComponent{CurrentHealth: maxHealth, MaxHealth: maxHealth})
	em.AddComponent(id, &components.TagComponent{Tag: PlayerTag})
	return &Player{em: em, entity: id}
}

// Entity 返回玩家实体ID
func (p *Player) Entity() ecs.EntityID {
	return p.entity
}

// SetOnDeath 设置死亡回调（生命值降到 0 时调用一次）
func (p *Player) SetOnDeath(fn func()) {
	p.onDeath = fn
}

// IsValid 玩家实体是否仍然存在
func (p *Player) IsValid() bool {
	return p != nil && p.em != nil && p.em.IsAlive(p.entity)
}

func (p *Player) transform() *components.TransformComponent {
	if !p.IsValid() {
		return nil
	}
	t, ok := ecs.GetComponent[*components.TransformComponent](p.em, p.entity)
	if !ok {
		return nil
	}
	return t
}

func (p *Player) health() *components.HealthComponent {
	if !p.IsValid() {
		return nil
	}
	h, ok := ecs.GetComponent[*components.HealthComponent](p.em, p.entity)
	if !ok {
		return nil
	}
	return h
}

// Position 返回玩家位置
func (p *Player) Position() types.Vec3 {
	if t := p.transform(); t != nil {
		return t.Position
	}
	return types.Vec3{}
}

// Rotation 返回玩家朝向
func (p *Player) Rotation() types.Quat {
	if t := p.transform(); t != nil {
		return t.Rotation
	}
	return types.IdentityQuat()
}

// SetTransform 直接设置位置和朝向（瞬移）
func (p *Player) SetTransform(pos types.Vec3, rot types.Quat) {
	t := p.transform()
	if t == nil {
		log.Printf("[Player] Warning: SetTransform on missing player")
		return
	}
	t.Position = pos
	t.Rotation = rot
}

// Move 按位移量移动玩家
func (p *Player) Move(delta types.Vec3) {
	if t := p.transform(); t != nil {
		t.Position = t.Position.Add(delta)
	}
}

// Health 返回当前生命值和最大生命值
func (p *Player) Health() (current, max float64) {
	if h := p.health(); h != nil {
		return h.CurrentHealth, h.MaxHealth
	}
	return 0, 0
}

// SetHealth 设置生命值并清除死亡标记（检查点恢复时使用）
// 当前值会被限制在 [0, max]；max 不大于 0 时保留原最大值并记录警告
func (p *Player) SetHealth(current, max float64) {
	h := p.health()
	if h == nil {
		log.Printf("[Player] Warning: SetHealth on missing player")
		return
	}
	if max <= 0 {
		log.Printf("[Player] Warning: invalid max health %v, keeping %v", max, h.MaxHealth)
		max = h.MaxHealth
	}
	h.MaxHealth = max
	h.CurrentHealth = clamp(current, 0, max)
	h.IsDead = false
}

// IsDead 玩家是否已死亡
func (p *Player) IsDead() bool {
	if h := p.health(); h != nil {
		return h.IsDead
	}
	return false
}

// ResetDeath 清除死亡标记
func (p *Player) ResetDeath() {
	if h := p.health(); h != nil {
		h.IsDead = false
	}
}

// TakeDamage 扣除生命值
// 死亡后忽略；生命值降到 0 时标记死亡并触发死亡回调
func (p *Player) TakeDamage(amount float64) {
	h := p.health()
	if h == nil || h.IsDead || amount <= 0 {
		return
	}

	h.CurrentHealth = clamp(h.CurrentHealth-amount, 0, h.MaxHealth)
	log.Printf("[Player] Took %.0f damage, health %.0f/%.0f", amount, h.CurrentHealth, h.MaxHealth)

	if h.CurrentHealth <= 0 {
		h.IsDead = true
		log.Printf("[Player] Player died")
		if p.onDeath != nil {
			p.onDeath()
		}
	}
}

// Heal 恢复生命值，不超过最大值；死亡后忽略
func (p *Player) Heal(amount float64) {
	h := p.health()
	if h == nil || h.IsDead || amount <= 0 {
		return
	}
	h.CurrentHealth = clamp(h.CurrentHealth+amount, 0, h.MaxHealth)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
