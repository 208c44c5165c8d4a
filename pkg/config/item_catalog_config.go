package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/cyberrebel/pkg/types"
)

// ItemCatalogConfig 物品目录配置
// 对应 data/items.yaml，列出游戏中所有可拾取物品的定义
type ItemCatalogConfig struct {
	Items []ItemConfig `yaml:"items"` // 全部物品定义
}

// ItemConfig 单个物品定义
type ItemConfig struct {
	ID          string   `yaml:"id"`          // 物品目录ID，如 "tarjeta_roja"
	DisplayName string   `yaml:"displayName"` // 显示名称
	Categories  []string `yaml:"categories"`  // 所属分类：["key"], ["lore"] 或 ["key", "lore"]
	Lore        string   `yaml:"lore"`        // 资料库文本（可选）
	AudioLog    string   `yaml:"audioLog"`    // 语音日志资源ID（可选）
	Model       string   `yaml:"model"`       // 3D 检视模型资源ID（可选）

	// 解析后的分类位集合（加载时由 Categories 计算）
	Category types.ItemCategory `yaml:"-"`
}

// LoadItemCatalogConfig 从YAML文件加载物品目录
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *ItemCatalogConfig: 解析后的物品目录
//   - error: 文件读取、解析或分类名错误
func LoadItemCatalogConfig(path string) (*ItemCatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item catalog file %s: %w", path, err)
	}

	cfg, err := ParseItemCatalogConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid item catalog in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseItemCatalogConfig 从YAML数据解析物品目录
//
// 空ID和重复ID不会导致解析失败，由 game.ItemCatalog 在建立索引时告警跳过
func ParseItemCatalogConfig(data []byte) (*ItemCatalogConfig, error) {
	var cfg ItemCatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog YAML: %w", err)
	}

	for i := range cfg.Items {
		applyItemDefaults(&cfg.Items[i])
		cat, err := types.ParseItemCategories(cfg.Items[i].Categories)
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i, cfg.Items[i].ID, err)
		}
		cfg.Items[i].Category = cat
	}

	return &cfg, nil
}

// applyItemDefaults 未配置分类的物品默认放在钥匙页
func applyItemDefaults(item *ItemConfig) {
	if len(item.Categories) == 0 {
		item.Categories = []string{"key"}
	}
}
