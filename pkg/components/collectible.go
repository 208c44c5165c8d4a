package components

import "github.com/decker502/cyberrebel/pkg/types"

// CollectibleComponent 世界中的可拾取物
//
// 每个实例由 WorldID（目录ID + 实例名）唯一标识，
// Collected 是实例自身的"已拾取"标记，检查点恢复时会被重置
type CollectibleComponent struct {
	WorldID     types.WorldID // 实例唯一标识，如 "keyA_instance1"
	CatalogID   string        // 物品目录ID，如 "keyA"
	PickupRange float64       // 拾取距离
	Collected   bool          // 是否已被拾取
}
