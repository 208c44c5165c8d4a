package game

import (
	"sort"

	"github.com/decker502/cyberrebel/pkg/types"
)

// CheckpointSnapshot 检查点快照
//
// 捕获后不可变：新的快照整体替换旧的"最后检查点"，从不合并。
// 所有切片都是独立副本，不与运行时状态共享底层数组
type CheckpointSnapshot struct {
	Position          types.Vec3      // 玩家位置
	Rotation          types.Quat      // 玩家朝向
	Health            float64         // 当前生命值
	MaxHealth         float64         // 最大生命值
	InventoryIDs      []string        // 库存中的物品目录ID（有序、去重）
	CollectedWorldIDs []types.WorldID // 已拾取的世界物品ID（排序后的集合）
	MissionIndex      int             // 当前任务索引（>= 0）
	MissionsCompleted bool            // 是否已完成全部任务
}

// Clone 深拷贝快照
func (s *CheckpointSnapshot) Clone() *CheckpointSnapshot {
	if s == nil {
		return nil
	}
	clone := *s
	clone.InventoryIDs = append([]string{}, s.InventoryIDs...)
	clone.CollectedWorldIDs = append([]types.WorldID{}, s.CollectedWorldIDs...)
	return &clone
}

// HasCollected 检查世界物品是否在快照的已拾取集合中
func (s *CheckpointSnapshot) HasCollected(id types.WorldID) bool {
	for _, collected := range s.CollectedWorldIDs {
		if collected == id {
			return true
		}
	}
	return false
}

// collectedSetToSlice 将已拾取集合转换为排序后的切片
func collectedSetToSlice(set map[types.WorldID]bool) []types.WorldID {
	ids := make([]types.WorldID, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
