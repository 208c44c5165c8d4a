package game

import (
	"log"
	"strings"

	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/types"
)

// ItemDefinition 物品目录中的一个物品类型
// 同类物品的所有实例共享同一个定义
type ItemDefinition struct {
	ID          string             // 物品目录ID
	DisplayName string             // 显示名称
	Category    types.ItemCategory // 所属分类（位集合）
	Lore        string             // 资料库文本
	AudioLog    string             // 语音日志资源ID
	Model       string             // 3D 检视模型资源ID
}

// IsCategory 检查物品是否属于指定分类
func (d *ItemDefinition) IsCategory(cat types.ItemCategory) bool {
	return d.Category.Has(cat)
}

// ItemLookup 按目录ID查找物品定义
// InventoryStore 通过此接口恢复库存
type ItemLookup interface {
	Lookup(id string) (*ItemDefinition, bool)
}

// CatalogReport 目录校验结果
type CatalogReport struct {
	Valid      int // 有效条目数
	MissingID  int // 没有ID的条目数
	Duplicates int // 重复ID条目数
	Total      int // 配置中的条目总数
}

// ItemCatalog 物品目录
//
// 职责：
//   - 按ID索引全部物品定义，供存档恢复时通过ID重建库存
//   - 重复ID只保留第一个，空ID跳过
type ItemCatalog struct {
	items   []*ItemDefinition          // 按配置顺序排列的有效物品
	byID    map[string]*ItemDefinition // ID 索引
	report  CatalogReport
	verbose bool
}

// NewItemCatalog 从配置建立物品目录
//
// 参数：
//   - cfg: 物品目录配置，可为 nil（空目录）
//   - verbose: 是否输出详细日志
func NewItemCatalog(cfg *config.ItemCatalogConfig, verbose bool) *ItemCatalog {
	c := &ItemCatalog{
		byID:    make(map[string]*ItemDefinition),
		verbose: verbose,
	}
	if cfg == nil {
		log.Printf("[ItemCatalog] Warning: no item catalog config, catalog is empty")
		return c
	}

	c.report.Total = len(cfg.Items)
	for i, item := range cfg.Items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			c.report.MissingID++
			log.Printf("[ItemCatalog] Warning: item #%d (%q) has no id, skipped", i, item.DisplayName)
			continue
		}
		if _, exists := c.byID[id]; exists {
			c.report.Duplicates++
			log.Printf("[ItemCatalog] Error: duplicate item id %q, keeping the first definition", id)
			continue
		}

		def := &ItemDefinition{
			ID:          id,
			DisplayName: item.DisplayName,
			Category:    item.Category,
			Lore:        item.Lore,
			AudioLog:    item.AudioLog,
			Model:       item.Model,
		}
		c.byID[id] = def
		c.items = append(c.items, def)
		c.report.Valid++
	}

	if c.verbose {
		log.Printf("[ItemCatalog] Catalog built with %d items", len(c.items))
	}
	return c
}

// Lookup 按ID查找物品定义
// 空ID或未知ID返回 false 并记录警告
func (c *ItemCatalog) Lookup(id string) (*ItemDefinition, bool) {
	if strings.TrimSpace(id) == "" {
		log.Printf("[ItemCatalog] Warning: lookup with empty item id")
		return nil, false
	}

	def, ok := c.byID[id]
	if !ok {
		log.Printf("[ItemCatalog] Warning: item %q not found in catalog", id)
		return nil, false
	}
	if c.verbose {
		log.Printf("[ItemCatalog] Found item %s -> %s", id, def.DisplayName)
	}
	return def, true
}

// Exists 检查物品ID是否存在（不记录日志）
func (c *ItemCatalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// All 返回全部物品定义（副本）
func (c *ItemCatalog) All() []*ItemDefinition {
	items := make([]*ItemDefinition, len(c.items))
	copy(items, c.items)
	return items
}

// ItemsInCategory 返回属于指定分类的物品
// 多分类物品会出现在每个所属分类中
func (c *ItemCatalog) ItemsInCategory(cat types.ItemCategory) []*ItemDefinition {
	var result []*ItemDefinition
	for _, item := range c.items {
		if item.IsCategory(cat) {
			result = append(result, item)
		}
	}
	return result
}

// Count 返回有效物品数量
func (c *ItemCatalog) Count() int {
	return len(c.items)
}

// Report 返回建立目录时的校验结果
func (c *ItemCatalog) Report() CatalogReport {
	return c.report
}
