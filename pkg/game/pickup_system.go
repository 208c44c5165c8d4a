package game

import (
	"log"

	"github.com/decker502/cyberrebel/pkg/types"
)

// PickupSystem 处理玩家拾取世界物品
//
// 拾取顺序：
//  1. 标记物品已拾取并隐藏
//  2. 把目录物品加入库存
//  3. 在检查点管理器中记录 WorldID
//  4. 通知任务追踪器
type PickupSystem struct {
	world       *World
	catalog     ItemLookup
	inventory   *InventoryStore
	checkpoints *CheckpointManager
	missions    *MissionTracker
}

// NewPickupSystem 创建拾取系统
func NewPickupSystem(world *World, catalog ItemLookup, inventory *InventoryStore,
	checkpoints *CheckpointManager, missions *MissionTracker) *PickupSystem {
	return &PickupSystem{
		world:       world,
		catalog:     catalog,
		inventory:   inventory,
		checkpoints: checkpoints,
		missions:    missions,
	}
}

// Collect 拾取指定物品
//
// 返回：
//   - bool: 本次调用是否真正拾取了物品（已拾取、不存在或目录缺失时为 false）
func (ps *PickupSystem) Collect(id types.WorldID) bool {
	handle, c, ok := ps.world.Collectible(id)
	if !ok {
		log.Printf("[PickupSystem] Warning: world item %q not found", id)
		return false
	}
	if c.Collected {
		return false
	}

	if ps.catalog == nil {
		log.Printf("[PickupSystem] Error: no item catalog, cannot collect %q", id)
		return false
	}
	item, ok := ps.catalog.Lookup(c.CatalogID)
	if !ok {
		log.Printf("[PickupSystem] Warning: item %q of %q is not in the catalog", c.CatalogID, id)
		return false
	}

	if err := ps.world.SetCollectibleState(handle, false, true); err != nil {
		log.Printf("[PickupSystem] Warning: cannot collect %q: %v", id, err)
		return false
	}

	if ps.inventory != nil {
		ps.inventory.Add(item)
	}
	if ps.checkpoints != nil {
		if err := ps.checkpoints.RecordCollected(id); err != nil {
			log.Printf("[PickupSystem] Warning: failed to record %q: %v", id, err)
		}
	}
	if ps.missions != nil {
		ps.missions.OnItemCollected(c.CatalogID)
	}

	log.Printf("[PickupSystem] Collected %s (%s)", id, item.DisplayName)
	return true
}

// TryPickupNear 拾取位置附近最近的物品（对应交互键）
func (ps *PickupSystem) TryPickupNear(pos types.Vec3) (types.WorldID, bool) {
	id, ok := ps.world.NearestCollectible(pos)
	if !ok {
		return "", false
	}
	return id, ps.Collect(id)
}
