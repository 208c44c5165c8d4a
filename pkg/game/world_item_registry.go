package game

import (
	"log"

	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
)

// LivenessChecker 判断实体句柄是否仍然有效
// *ecs.EntityManager 实现了此接口
type LivenessChecker interface {
	IsAlive(id ecs.EntityID) bool
}

// WorldItemRegistry 世界物品注册表
//
// 将 WorldID 映射到场景中可拾取物的实体句柄。
// 注册表只观察物品的生命周期，不拥有它：
//   - 物品生成时自行注册，销毁时由自身的拆除钩子注销
//   - 访问前检查句柄是否存活，过期条目在访问时顺带清理
type WorldItemRegistry struct {
	entries  map[types.WorldID]ecs.EntityID
	liveness LivenessChecker
}

// NewWorldItemRegistry 创建注册表
//
// 参数：
//   - liveness: 句柄存活检查器，可为 nil（所有句柄视为存活）
func NewWorldItemRegistry(liveness LivenessChecker) *WorldItemRegistry {
	return &WorldItemRegistry{
		entries:  make(map[types.WorldID]ecs.EntityID),
		liveness: liveness,
	}
}

// Register 注册或替换一个条目
// 同一ID已指向其他实体时记录警告，后注册者生效
//
// 返回：
//   - error: ID 无效或句柄无效时返回 ErrInvalidIdentifier，注册表不变
func (r *WorldItemRegistry) Register(id types.WorldID, handle ecs.EntityID) error {
	if !id.IsValid() {
		log.Printf("[WorldItemRegistry] Warning: refusing to register empty world id")
		return ErrInvalidIdentifier
	}
	if handle == ecs.InvalidEntity {
		log.Printf("[WorldItemRegistry] Warning: refusing to register %q with invalid handle", id)
		return ErrInvalidIdentifier
	}

	if existing, ok := r.entries[id]; ok && existing != handle {
		log.Printf("[WorldItemRegistry] Warning: world id %q already registered to entity %d, replacing with %d",
			id, existing, handle)
	}
	r.entries[id] = handle
	return nil
}

// Unregister 注销条目，不存在时什么也不做
func (r *WorldItemRegistry) Unregister(id types.WorldID) {
	delete(r.entries, id)
}

// UnregisterHandle 仅当条目仍指向该句柄时注销
// 用于物品拆除钩子，避免误删已被替换的新条目
func (r *WorldItemRegistry) UnregisterHandle(id types.WorldID, handle ecs.EntityID) {
	if existing, ok := r.entries[id]; ok && existing == handle {
		delete(r.entries, id)
	}
}

// Get 查找条目
//
// 返回：
//   - ecs.EntityID: 实体句柄
//   - bool: 条目不存在、ID 无效或句柄已过期时为 false（过期条目会被清理）
func (r *WorldItemRegistry) Get(id types.WorldID) (ecs.EntityID, bool) {
	if !id.IsValid() {
		log.Printf("[WorldItemRegistry] Warning: lookup with empty world id")
		return ecs.InvalidEntity, false
	}

	handle, ok := r.entries[id]
	if !ok {
		return ecs.InvalidEntity, false
	}
	if !r.isAlive(handle) {
		log.Printf("[WorldItemRegistry] Pruning stale entry %q (entity %d)", id, handle)
		delete(r.entries, id)
		return ecs.InvalidEntity, false
	}
	return handle, true
}

// ForEach 遍历所有存活条目
// 遍历顺序不确定；过期条目被跳过并清理
// 回调中修改注册表是安全的（遍历基于快照）
func (r *WorldItemRegistry) ForEach(fn func(id types.WorldID, handle ecs.EntityID)) {
	snapshot := make(map[types.WorldID]ecs.EntityID, len(r.entries))
	for id, handle := range r.entries {
		snapshot[id] = handle
	}

	for id, handle := range snapshot {
		if !r.isAlive(handle) {
			log.Printf("[WorldItemRegistry] Pruning stale entry %q (entity %d)", id, handle)
			r.UnregisterHandle(id, handle)
			continue
		}
		fn(id, handle)
	}
}

// Len 返回条目数量（可能包含尚未清理的过期条目）
func (r *WorldItemRegistry) Len() int {
	return len(r.entries)
}

func (r *WorldItemRegistry) isAlive(handle ecs.EntityID) bool {
	if r.liveness == nil {
		return true
	}
	return r.liveness.IsAlive(handle)
}
