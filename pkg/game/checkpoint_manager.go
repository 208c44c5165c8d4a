package game

import (
	"fmt"
	"log"

	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
)

// PlayerState 检查点系统读写玩家状态所需的接口
// *Player 实现了此接口
type PlayerState interface {
	// IsValid 玩家对象是否仍然存在
	IsValid() bool
	Position() types.Vec3
	Rotation() types.Quat
	SetTransform(pos types.Vec3, rot types.Quat)
	Health() (current, max float64)
	// SetHealth 设置生命值并清除死亡标记
	SetHealth(current, max float64)
}

// CollectibleWorld 检查点恢复时切换世界物品状态所需的接口
// *World 实现了此接口
type CollectibleWorld interface {
	// SetCollectibleState 设置物品的激活状态和"已拾取"标记
	// 实体已销毁时返回 ErrStaleReference
	SetCollectibleState(handle ecs.EntityID, active, collected bool) error
}

// RestoreReport 一次检查点恢复的结果统计
type RestoreReport struct {
	Deactivated       int // 被隐藏的已拾取物品数量
	Reactivated       int // 被重新激活的物品数量
	Skipped           int // 因句柄失效而跳过的条目数量
	InventoryRestored int // 恢复到库存中的物品数量
}

// CheckpointManager 检查点管理器
//
// 职责：
//   - 捕获检查点：玩家位置/朝向/生命值、库存ID、已拾取世界物品ID、任务索引
//   - 恢复检查点：回写玩家状态，重建库存，按已拾取集合切换世界物品，恢复任务
//   - 维护本次会话的已拾取集合
//
// 架构说明：
//   - 不是单例，由会话启动时构造并注入依赖
//   - 只在每帧更新路径中调用，不需要加锁；如果引入后台自动存档，
//     调用方必须在捕获/恢复周围加互斥
type CheckpointManager struct {
	player    PlayerState
	inventory *InventoryStore
	missions  *MissionTracker
	registry  *WorldItemRegistry
	world     CollectibleWorld

	collected map[types.WorldID]bool
	last      *CheckpointSnapshot
}

// CheckpointDeps 检查点管理器的依赖
// 除 Player 外都可以后补；缺失的协作者在使用时记录日志并降级
type CheckpointDeps struct {
	Player    PlayerState
	Inventory *InventoryStore
	Missions  *MissionTracker
	Registry  *WorldItemRegistry
	World     CollectibleWorld
}

// NewCheckpointManager 创建检查点管理器
func NewCheckpointManager(deps CheckpointDeps) *CheckpointManager {
	return &CheckpointManager{
		player:    deps.Player,
		inventory: deps.Inventory,
		missions:  deps.Missions,
		registry:  deps.Registry,
		world:     deps.World,
		collected: make(map[types.WorldID]bool),
	}
}

// SetPlayer 设置玩家引用（玩家重新生成时调用）
func (cm *CheckpointManager) SetPlayer(player PlayerState) {
	cm.player = player
	log.Printf("[CheckpointManager] Player assigned")
}

// RecordCollected 记录一个已拾取的世界物品
func (cm *CheckpointManager) RecordCollected(id types.WorldID) error {
	if !id.IsValid() {
		log.Printf("[CheckpointManager] Warning: refusing to record empty world id")
		return ErrInvalidIdentifier
	}
	cm.collected[id] = true
	return nil
}

// WasCollected 检查世界物品是否已被拾取
func (cm *CheckpointManager) WasCollected(id types.WorldID) bool {
	return cm.collected[id]
}

// CollectedIDs 返回已拾取集合（排序后的副本）
func (cm *CheckpointManager) CollectedIDs() []types.WorldID {
	return collectedSetToSlice(cm.collected)
}

// HasCheckpoint 是否存在可恢复的检查点
func (cm *CheckpointManager) HasCheckpoint() bool {
	return cm.last != nil
}

// LastCheckpoint 返回最后检查点的副本
func (cm *CheckpointManager) LastCheckpoint() (*CheckpointSnapshot, bool) {
	if cm.last == nil {
		return nil, false
	}
	return cm.last.Clone(), true
}

// SetLastCheckpoint 用外部快照（如从存档读取）整体替换最后检查点
func (cm *CheckpointManager) SetLastCheckpoint(snap *CheckpointSnapshot) {
	cm.last = snap.Clone()
}

// CaptureCheckpoint 捕获当前状态作为新的最后检查点
//
// 返回：
//   - *CheckpointSnapshot: 捕获的快照副本
//   - error: 没有玩家引用时返回 ErrMissingCollaborator，最后检查点不变
func (cm *CheckpointManager) CaptureCheckpoint() (*CheckpointSnapshot, error) {
	if cm.player == nil || !cm.player.IsValid() {
		log.Printf("[CheckpointManager] Error: no player reference, cannot capture checkpoint")
		return nil, fmt.Errorf("capture checkpoint: player: %w", ErrMissingCollaborator)
	}

	current, max := cm.player.Health()
	snap := &CheckpointSnapshot{
		Position:          cm.player.Position(),
		Rotation:          cm.player.Rotation(),
		Health:            current,
		MaxHealth:         max,
		InventoryIDs:      []string{},
		CollectedWorldIDs: collectedSetToSlice(cm.collected),
	}

	if cm.inventory != nil {
		snap.InventoryIDs = cm.inventory.AllIDs()
	} else {
		log.Printf("[CheckpointManager] Warning: no inventory, capturing empty inventory")
	}

	if cm.missions != nil {
		snap.MissionIndex = cm.missions.CurrentIndex()
		snap.MissionsCompleted = cm.missions.IsCompleted()
	} else {
		log.Printf("[CheckpointManager] Warning: no mission tracker, capturing mission 0")
	}

	cm.last = snap
	log.Printf("[CheckpointManager] Checkpoint captured at (%.2f, %.2f, %.2f), health %.0f/%.0f, %d items, mission %d",
		snap.Position.X, snap.Position.Y, snap.Position.Z, snap.Health, snap.MaxHealth,
		len(snap.InventoryIDs), snap.MissionIndex)

	return snap.Clone(), nil
}

// RestoreCheckpoint 恢复最后检查点
//
// 步骤：
//  1. 回写玩家位置和朝向
//  2. 设置玩家生命值并清除死亡标记
//  3. 按ID重建库存
//  4. 用快照中的集合替换已拾取集合
//  5. 遍历注册表：已拾取的物品隐藏，其余物品重新激活并重置"已拾取"标记
//  6. 恢复任务索引
//
// 第 5 步对单个失效条目容错，其余条目继续处理；重复调用结果相同
//
// 返回：
//   - RestoreReport: 恢复统计
//   - error: 没有检查点（ErrNoCheckpoint）或没有玩家（ErrMissingCollaborator）时不做任何修改
func (cm *CheckpointManager) RestoreCheckpoint() (RestoreReport, error) {
	var report RestoreReport

	if cm.last == nil {
		log.Printf("[CheckpointManager] Warning: no checkpoint saved, nothing to restore")
		return report, ErrNoCheckpoint
	}
	if cm.player == nil || !cm.player.IsValid() {
		log.Printf("[CheckpointManager] Error: no player reference, cannot restore checkpoint")
		return report, fmt.Errorf("restore checkpoint: player: %w", ErrMissingCollaborator)
	}

	snap := cm.last

	// 1-2. 玩家状态
	cm.player.SetTransform(snap.Position, snap.Rotation)
	cm.player.SetHealth(snap.Health, snap.MaxHealth)

	// 3. 库存
	if cm.inventory != nil {
		report.InventoryRestored = cm.inventory.RestoreFromIDs(snap.InventoryIDs)
	} else {
		log.Printf("[CheckpointManager] Warning: no inventory, skipping inventory restore")
	}

	// 4. 已拾取集合
	cm.collected = make(map[types.WorldID]bool, len(snap.CollectedWorldIDs))
	for _, id := range snap.CollectedWorldIDs {
		cm.collected[id] = true
	}

	// 5. 世界物品
	cm.restoreWorldItems(&report)

	// 6. 任务
	if cm.missions != nil {
		cm.missions.LoadMission(snap.MissionIndex)
		if snap.MissionsCompleted {
			cm.missions.MarkCompleted()
		}
	} else {
		log.Printf("[CheckpointManager] Warning: no mission tracker, skipping mission restore")
	}

	log.Printf("[CheckpointManager] Checkpoint restored: %d hidden, %d reactivated, %d skipped",
		report.Deactivated, report.Reactivated, report.Skipped)
	return report, nil
}

// restoreWorldItems 按已拾取集合切换注册表中每个物品的状态
func (cm *CheckpointManager) restoreWorldItems(report *RestoreReport) {
	if cm.registry == nil || cm.world == nil {
		log.Printf("[CheckpointManager] Warning: no world item registry, skipping world restore")
		return
	}

	cm.registry.ForEach(func(id types.WorldID, handle ecs.EntityID) {
		wasCollected := cm.collected[id]
		if err := cm.world.SetCollectibleState(handle, !wasCollected, wasCollected); err != nil {
			log.Printf("[CheckpointManager] Warning: skipping world item %q: %v", id, err)
			report.Skipped++
			return
		}
		if wasCollected {
			report.Deactivated++
		} else {
			report.Reactivated++
		}
	})
}
