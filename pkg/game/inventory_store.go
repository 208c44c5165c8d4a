package game

import (
	"log"

	"github.com/decker502/cyberrebel/pkg/types"
)

// InventoryStore 玩家库存
//
// 按分类保存已拾取的物品定义。物品分类是位集合，
// 一个物品可以同时出现在多个分类视图中（如钥匙页和资料页）。
//
// 库存只关心"有哪些物品"，不负责通知任务系统；
// 拾取通知由 PickupSystem 负责，恢复存档时不会触发任务推进
type InventoryStore struct {
	categories map[types.ItemCategory][]*ItemDefinition
	catalog    ItemLookup
}

// NewInventoryStore 创建库存
//
// 参数：
//   - catalog: 物品目录，用于 RestoreFromIDs；可为 nil（恢复时跳过所有ID）
func NewInventoryStore(catalog ItemLookup) *InventoryStore {
	s := &InventoryStore{catalog: catalog}
	s.reset()
	return s
}

func (s *InventoryStore) reset() {
	s.categories = make(map[types.ItemCategory][]*ItemDefinition, len(types.AllCategories))
	for _, cat := range types.AllCategories {
		s.categories[cat] = []*ItemDefinition{}
	}
}

// Add 将物品加入其所属的每个分类（已存在则跳过）
//
// 返回：
//   - bool: 物品是否被加入了至少一个分类
func (s *InventoryStore) Add(item *ItemDefinition) bool {
	if item == nil {
		log.Printf("[InventoryStore] Warning: trying to add nil item")
		return false
	}
	if item.Category == types.CategoryNone {
		log.Printf("[InventoryStore] Warning: item %q has no category, not added", item.ID)
		return false
	}

	added := false
	for _, cat := range types.AllCategories {
		if !item.IsCategory(cat) {
			continue
		}
		if containsItem(s.categories[cat], item.ID) {
			continue
		}
		s.categories[cat] = append(s.categories[cat], item)
		added = true
	}

	if added {
		log.Printf("[InventoryStore] Item added: %s (%v)", item.ID, item.Category)
	}
	return added
}

// Clear 清空所有分类
func (s *InventoryStore) Clear() {
	s.reset()
	log.Printf("[InventoryStore] Inventory cleared")
}

// AllIDs 返回所有分类中的物品ID
// 按分类顺序（钥匙页在前，资料页在后）排列，去重并保留首次出现的位置
func (s *InventoryStore) AllIDs() []string {
	seen := make(map[string]bool)
	ids := []string{}
	for _, cat := range types.AllCategories {
		for _, item := range s.categories[cat] {
			if item == nil || item.ID == "" || seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// RestoreFromIDs 清空库存后按ID从物品目录重建
// 目录中找不到的ID记录警告并跳过
//
// 返回：
//   - int: 成功恢复的物品数量
func (s *InventoryStore) RestoreFromIDs(ids []string) int {
	s.Clear()

	if s.catalog == nil {
		if len(ids) > 0 {
			log.Printf("[InventoryStore] Error: no item catalog, cannot restore %d items", len(ids))
		}
		return 0
	}

	restored := 0
	for _, id := range ids {
		if id == "" {
			log.Printf("[InventoryStore] Warning: skipping empty item id")
			continue
		}
		item, ok := s.catalog.Lookup(id)
		if !ok {
			log.Printf("[InventoryStore] Warning: item %q not in catalog, skipped", id)
			continue
		}
		if s.Add(item) {
			restored++
		}
	}
	return restored
}

// Contains 检查任一分类中是否有该物品
func (s *InventoryStore) Contains(id string) bool {
	for _, cat := range types.AllCategories {
		if containsItem(s.categories[cat], id) {
			return true
		}
	}
	return false
}

// ItemsIn 返回指定分类中的物品（副本，按加入顺序）
func (s *InventoryStore) ItemsIn(cat types.ItemCategory) []*ItemDefinition {
	items := make([]*ItemDefinition, len(s.categories[cat]))
	copy(items, s.categories[cat])
	return items
}

// Count 返回不同物品的数量
func (s *InventoryStore) Count() int {
	return len(s.AllIDs())
}

func containsItem(items []*ItemDefinition, id string) bool {
	for _, item := range items {
		if item != nil && item.ID == id {
			return true
		}
	}
	return false
}
