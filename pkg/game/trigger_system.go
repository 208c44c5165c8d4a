package game

import (
	"log"
	"slices"

	"github.com/decker502/cyberrebel/pkg/components"
	"github.com/decker502/cyberrebel/pkg/ecs"
)

// triggerDestroyDelay DestroyAfterUse 触发器在伤害后延迟销毁的时间（秒）
const triggerDestroyDelay = 0.1

// TriggerSystem 处理检查点和伤害触发区域
//
// 物理重叠检测由 Update 以球形半径近似完成，
// 进入/停留/离开事件也可以由外部直接调用 Enter/Stay/Exit
type TriggerSystem struct {
	world     *World
	scheduler *Scheduler
	player    *Player

	// onCheckpoint 检查点触发时调用（通常是 GameManager.CaptureCheckpoint）
	onCheckpoint func(triggerName string)

	// 检查点触发器的区域内状态（伤害触发器的状态保存在组件中）
	insideCheckpoint map[ecs.EntityID]bool
}

// NewTriggerSystem 创建触发系统
func NewTriggerSystem(world *World, scheduler *Scheduler) *TriggerSystem {
	return &TriggerSystem{
		world:            world,
		scheduler:        scheduler,
		insideCheckpoint: make(map[ecs.EntityID]bool),
	}
}

// SetPlayer 设置重叠检测的目标玩家
func (ts *TriggerSystem) SetPlayer(player *Player) {
	ts.player = player
}

// SetCheckpointHandler 设置检查点触发回调
func (ts *TriggerSystem) SetCheckpointHandler(fn func(triggerName string)) {
	ts.onCheckpoint = fn
}

// Update 检测玩家与所有触发区域的重叠并分发事件
func (ts *TriggerSystem) Update() {
	if !ts.player.IsValid() {
		return
	}
	em := ts.world.EntityManager()
	target := ts.player.Entity()
	pos := ts.player.Position()

	for id := range ts.insideCheckpoint {
		if !em.IsAlive(id) {
			delete(ts.insideCheckpoint, id)
		}
	}

	checkpoints := ecs.GetEntitiesWith2[*components.CheckpointTriggerComponent, *components.TransformComponent](em)
	slices.Sort(checkpoints)
	for _, id := range checkpoints {
		if !ts.world.IsActive(id) {
			continue
		}
		trigger, _ := ecs.GetComponent[*components.CheckpointTriggerComponent](em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)

		inside := pos.Distance(transform.Position) <= trigger.Radius
		if inside && !ts.insideCheckpoint[id] {
			ts.EnterCheckpoint(id, target)
		}
		ts.insideCheckpoint[id] = inside
	}

	damages := ecs.GetEntitiesWith2[*components.DamageTriggerComponent, *components.TransformComponent](em)
	slices.Sort(damages)
	for _, id := range damages {
		if !ts.world.IsActive(id) {
			continue
		}
		trigger, _ := ecs.GetComponent[*components.DamageTriggerComponent](em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)

		inside := pos.Distance(transform.Position) <= trigger.Radius
		switch {
		case inside && !trigger.Inside:
			ts.EnterDamage(id, target)
		case inside && trigger.Inside:
			ts.StayDamage(id, target)
		case !inside && trigger.Inside:
			ts.ExitDamage(id, target)
		}
	}
}

// EnterCheckpoint 目标进入检查点区域
func (ts *TriggerSystem) EnterCheckpoint(triggerID, target ecs.EntityID) {
	em := ts.world.EntityManager()
	trigger, ok := ecs.GetComponent[*components.CheckpointTriggerComponent](em, triggerID)
	if !ok || !ts.matchesTag(target, trigger.TargetTag) {
		return
	}
	if trigger.OnceOnly && trigger.Activated {
		return
	}
	trigger.Activated = true

	if trigger.RespawnPoint != nil && ts.player.IsValid() && ts.player.Entity() == target {
		rot := ts.player.Rotation()
		if trigger.RespawnRot != nil {
			rot = *trigger.RespawnRot
		}
		ts.player.SetTransform(*trigger.RespawnPoint, rot)
	}

	log.Printf("[TriggerSystem] Checkpoint %q activated", trigger.Name)
	if ts.onCheckpoint != nil {
		ts.onCheckpoint(trigger.Name)
	}
}

// ResetCheckpoint 允许 OnceOnly 检查点再次触发
func (ts *TriggerSystem) ResetCheckpoint(triggerID ecs.EntityID) {
	if trigger, ok := ecs.GetComponent[*components.CheckpointTriggerComponent](ts.world.EntityManager(), triggerID); ok {
		trigger.Activated = false
	}
}

// EnterDamage 目标进入伤害区域
func (ts *TriggerSystem) EnterDamage(triggerID, target ecs.EntityID) {
	trigger, ok := ts.damageTrigger(triggerID, target)
	if !ok {
		return
	}
	trigger.Inside = true

	switch trigger.Mode {
	case components.DamageOnEnter:
		ts.applyDamage(target, trigger)
		if trigger.DestroyAfterUse {
			trigger.Enabled = false
			ts.scheduler.After(triggerDestroyDelay, func() {
				ts.world.DestroyEntity(triggerID)
			})
		}
	case components.DamageWhileInside:
		// 第一次停留立即造成伤害
		trigger.LastDamageTime = ts.scheduler.Now() - trigger.Interval
	}
}

// StayDamage 目标停留在伤害区域内（每帧调用）
func (ts *TriggerSystem) StayDamage(triggerID, target ecs.EntityID) {
	trigger, ok := ts.damageTrigger(triggerID, target)
	if !ok || trigger.Mode != components.DamageWhileInside {
		return
	}
	now := ts.scheduler.Now()
	if now-trigger.LastDamageTime >= trigger.Interval {
		ts.applyDamage(target, trigger)
		trigger.LastDamageTime = now
	}
}

// ExitDamage 目标离开伤害区域
func (ts *TriggerSystem) ExitDamage(triggerID, target ecs.EntityID) {
	em := ts.world.EntityManager()
	trigger, ok := ecs.GetComponent[*components.DamageTriggerComponent](em, triggerID)
	if !ok || !ts.matchesTag(target, trigger.TargetTag) {
		return
	}
	trigger.Inside = false
	if trigger.Enabled && trigger.Mode == components.DamageOnExit {
		ts.applyDamage(target, trigger)
	}
}

// SetDamageEnabled 启用或禁用伤害区域
func (ts *TriggerSystem) SetDamageEnabled(triggerID ecs.EntityID, enabled bool) {
	if trigger, ok := ecs.GetComponent[*components.DamageTriggerComponent](ts.world.EntityManager(), triggerID); ok {
		trigger.Enabled = enabled
	}
}

// damageTrigger 取出启用中且标签匹配的伤害触发器
func (ts *TriggerSystem) damageTrigger(triggerID, target ecs.EntityID) (*components.DamageTriggerComponent, bool) {
	trigger, ok := ecs.GetComponent[*components.DamageTriggerComponent](ts.world.EntityManager(), triggerID)
	if !ok || !trigger.Enabled || !ts.matchesTag(target, trigger.TargetTag) {
		return nil, false
	}
	return trigger, true
}

func (ts *TriggerSystem) matchesTag(target ecs.EntityID, tag string) bool {
	if tag == "" {
		return true
	}
	t, ok := ecs.GetComponent[*components.TagComponent](ts.world.EntityManager(), target)
	return ok && t.Tag == tag
}

// applyDamage 对目标造成伤害
// 玩家走 Player.TakeDamage 以触发死亡流程，其他实体直接扣减生命值
func (ts *TriggerSystem) applyDamage(target ecs.EntityID, trigger *components.DamageTriggerComponent) {
	log.Printf("[TriggerSystem] %q (%s) deals %.0f damage to entity %d",
		trigger.Name, trigger.Mode, trigger.Amount, target)

	if ts.player != nil && ts.player.Entity() == target {
		ts.player.TakeDamage(trigger.Amount)
		return
	}
	h, ok := ecs.GetComponent[*components.HealthComponent](ts.world.EntityManager(), target)
	if !ok || h.IsDead {
		return
	}
	h.CurrentHealth = clamp(h.CurrentHealth-trigger.Amount, 0, h.MaxHealth)
	if h.CurrentHealth <= 0 {
		h.IsDead = true
	}
}
