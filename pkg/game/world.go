package game

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/cyberrebel/pkg/components"
	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
)

// DefaultPickupRange 未配置时的拾取距离
const DefaultPickupRange = 2.0

// World 场景中实体的创建和状态切换
//
// 持有实体管理器和世界物品注册表：
//   - 可拾取物生成时注册，销毁时通过拆除钩子注销
//   - 提供检查点恢复需要的 SetCollectibleState
type World struct {
	em       *ecs.EntityManager
	registry *WorldItemRegistry
}

// NewWorld 创建世界
func NewWorld(em *ecs.EntityManager, registry *WorldItemRegistry) *World {
	return &World{em: em, registry: registry}
}

// EntityManager 返回实体管理器
func (w *World) EntityManager() *ecs.EntityManager {
	return w.em
}

// Registry 返回世界物品注册表
func (w *World) Registry() *WorldItemRegistry {
	return w.registry
}

// SpawnCollectible 生成一个可拾取物并注册到注册表
//
// 参数：
//   - catalogID: 物品目录ID
//   - instance: 场景中的实例名，与 catalogID 组成 WorldID
//   - pos: 位置
//   - pickupRange: 拾取距离，<= 0 时使用 DefaultPickupRange
//
// 返回：
//   - ecs.EntityID: 新实体ID
//   - error: 目录ID或实例名为空时返回 ErrInvalidIdentifier
func (w *World) SpawnCollectible(catalogID, instance string, pos types.Vec3, pickupRange float64) (ecs.EntityID, error) {
	worldID, err := types.NewWorldID(catalogID, instance)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("spawn collectible: %v: %w", err, ErrInvalidIdentifier)
	}
	if pickupRange <= 0 {
		pickupRange = DefaultPickupRange
	}

	id := w.em.CreateEntity()
	w.em.AddComponent(id, &components.TransformComponent{Position: pos, Rotation: types.IdentityQuat()})
	w.em.AddComponent(id, &components.CollectibleComponent{
		WorldID:     worldID,
		CatalogID:   catalogID,
		PickupRange: pickupRange,
	})
	w.em.AddComponent(id, &components.ActiveComponent{Active: true})

	if w.registry != nil {
		if err := w.registry.Register(worldID, id); err != nil {
			w.em.DestroyEntity(id)
			w.em.RemoveMarkedEntities()
			return ecs.InvalidEntity, fmt.Errorf("spawn collectible %q: %w", worldID, err)
		}
		registry := w.registry
		w.em.OnDestroy(id, func(ecs.EntityID) {
			registry.UnregisterHandle(worldID, id)
		})
	}

	log.Printf("[World] Spawned collectible %s at (%.2f, %.2f, %.2f)", worldID, pos.X, pos.Y, pos.Z)
	return id, nil
}

// SpawnCheckpointTrigger 生成检查点触发区域
func (w *World) SpawnCheckpointTrigger(trigger components.CheckpointTriggerComponent, pos types.Vec3) ecs.EntityID {
	if trigger.TargetTag == "" {
		trigger.TargetTag = PlayerTag
	}
	id := w.em.CreateEntity()
	w.em.AddComponent(id, &components.TransformComponent{Position: pos, Rotation: types.IdentityQuat()})
	w.em.AddComponent(id, &trigger)
	return id
}

// SpawnDamageTrigger 生成伤害触发区域
func (w *World) SpawnDamageTrigger(trigger components.DamageTriggerComponent, pos types.Vec3) ecs.EntityID {
	if trigger.TargetTag == "" {
		trigger.TargetTag = PlayerTag
	}
	id := w.em.CreateEntity()
	w.em.AddComponent(id, &components.TransformComponent{Position: pos, Rotation: types.IdentityQuat()})
	w.em.AddComponent(id, &trigger)
	return id
}

// SetCollectibleState 设置可拾取物的激活状态和"已拾取"标记
//
// 返回：
//   - error: 实体已销毁或不是可拾取物时返回 ErrStaleReference
func (w *World) SetCollectibleState(handle ecs.EntityID, active, collected bool) error {
	if !w.em.IsAlive(handle) {
		return fmt.Errorf("entity %d: %w", handle, ErrStaleReference)
	}
	c, ok := ecs.GetComponent[*components.CollectibleComponent](w.em, handle)
	if !ok {
		return fmt.Errorf("entity %d has no collectible: %w", handle, ErrStaleReference)
	}
	c.Collected = collected
	w.setActive(handle, active)
	return nil
}

// Collectible 按 WorldID 查找可拾取物
func (w *World) Collectible(id types.WorldID) (ecs.EntityID, *components.CollectibleComponent, bool) {
	if w.registry == nil {
		return ecs.InvalidEntity, nil, false
	}
	handle, ok := w.registry.Get(id)
	if !ok {
		return ecs.InvalidEntity, nil, false
	}
	c, ok := ecs.GetComponent[*components.CollectibleComponent](w.em, handle)
	if !ok {
		return ecs.InvalidEntity, nil, false
	}
	return handle, c, true
}

// IsActive 实体是否处于激活状态（没有 ActiveComponent 视为激活）
func (w *World) IsActive(handle ecs.EntityID) bool {
	if !w.em.IsAlive(handle) {
		return false
	}
	a, ok := ecs.GetComponent[*components.ActiveComponent](w.em, handle)
	if !ok {
		return true
	}
	return a.Active
}

func (w *World) setActive(handle ecs.EntityID, active bool) {
	a, ok := ecs.GetComponent[*components.ActiveComponent](w.em, handle)
	if !ok {
		w.em.AddComponent(handle, &components.ActiveComponent{Active: active})
		return
	}
	a.Active = active
}

// NearestCollectible 返回拾取范围内最近的未拾取物品
//
// 返回：
//   - types.WorldID: 物品ID
//   - bool: 范围内没有可拾取物时为 false
func (w *World) NearestCollectible(pos types.Vec3) (types.WorldID, bool) {
	var (
		best     types.WorldID
		bestDist = math.MaxFloat64
		found    bool
	)

	for _, id := range ecs.GetEntitiesWith2[*components.CollectibleComponent, *components.TransformComponent](w.em) {
		if !w.IsActive(id) {
			continue
		}
		c, _ := ecs.GetComponent[*components.CollectibleComponent](w.em, id)
		if c.Collected {
			continue
		}
		t, _ := ecs.GetComponent[*components.TransformComponent](w.em, id)
		d := pos.Distance(t.Position)
		if d <= c.PickupRange && (d < bestDist || (d == bestDist && c.WorldID < best)) {
			best, bestDist, found = c.WorldID, d, true
		}
	}
	return best, found
}

// DestroyEntity 标记实体待销毁（在 Update 中真正移除）
func (w *World) DestroyEntity(id ecs.EntityID) {
	w.em.DestroyEntity(id)
}

// Update 清理待销毁实体
func (w *World) Update() {
	w.em.RemoveMarkedEntities()
}
