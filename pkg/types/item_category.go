// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"
)

// ItemCategory 物品分类位集合
// 一个物品可以同时属于多个分类（例如既是钥匙又是资料），
// 因此使用位标记而不是单一枚举
type ItemCategory uint8

const (
	// CategoryKey 钥匙/道具页（LLAVES）
	CategoryKey ItemCategory = 1 << iota
	// CategoryLore 资料库页（BdD）
	CategoryLore
)

// CategoryNone 未分类
const CategoryNone ItemCategory = 0

// AllCategories 按展示顺序排列的全部分类
// 库存 ID 导出时按此顺序遍历（钥匙页在前，资料页在后）
var AllCategories = []ItemCategory{CategoryKey, CategoryLore}

// Has 检查位集合是否包含指定分类
func (c ItemCategory) Has(other ItemCategory) bool {
	return c&other != 0
}

// With 返回添加了指定分类的新位集合
func (c ItemCategory) With(other ItemCategory) ItemCategory {
	return c | other
}

// String 返回分类的字符串表示，多个分类以 "|" 连接
func (c ItemCategory) String() string {
	if c == CategoryNone {
		return "none"
	}
	var parts []string
	for _, cat := range AllCategories {
		if c.Has(cat) {
			parts = append(parts, categoryName(cat))
		}
	}
	return strings.Join(parts, "|")
}

func categoryName(c ItemCategory) string {
	switch c {
	case CategoryKey:
		return "key"
	case CategoryLore:
		return "lore"
	default:
		return "unknown"
	}
}

// ParseItemCategory 将配置中的分类名解析为位标记
//
// 参数：
//   - name: 分类名，"key" 或 "lore"（不区分大小写）
//
// 返回：
//   - ItemCategory: 解析后的分类
//   - error: 未知分类名
func ParseItemCategory(name string) (ItemCategory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "key", "keys", "normal":
		return CategoryKey, nil
	case "lore", "database":
		return CategoryLore, nil
	default:
		return CategoryNone, fmt.Errorf("unknown item category %q", name)
	}
}

// ParseItemCategories 解析分类名列表并合并为一个位集合
func ParseItemCategories(names []string) (ItemCategory, error) {
	var result ItemCategory
	for _, name := range names {
		cat, err := ParseItemCategory(name)
		if err != nil {
			return CategoryNone, err
		}
		result = result.With(cat)
	}
	return result, nil
}
