package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/cyberrebel/pkg/types"
)

// LevelConfig 关卡布局配置
// 定义玩家出生点、场景中的可拾取物和触发区域
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "facility"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	Player       PlayerSpawnConfig         `yaml:"player"`       // 玩家出生配置
	Collectibles []CollectibleSpawnConfig  `yaml:"collectibles"` // 场景中的可拾取物
	Checkpoints  []CheckpointTriggerConfig `yaml:"checkpoints"`  // 检查点触发区域
	DamageZones  []DamageZoneConfig        `yaml:"damageZones"`  // 伤害区域
}

// PlayerSpawnConfig 玩家出生配置
type PlayerSpawnConfig struct {
	Position  types.Vec3  `yaml:"position"`  // 出生位置
	Rotation  *types.Quat `yaml:"rotation"`  // 出生朝向，默认单位四元数
	MaxHealth float64     `yaml:"maxHealth"` // 最大生命值，默认 100
}

// CollectibleSpawnConfig 可拾取物实例
type CollectibleSpawnConfig struct {
	Item     string     `yaml:"item"`     // 物品目录ID
	Instance string     `yaml:"instance"` // 实例名，与目录ID组成 WorldID
	Position types.Vec3 `yaml:"position"` // 位置
	Range    float64    `yaml:"range"`    // 拾取距离，默认 2
}

// CheckpointTriggerConfig 检查点触发区域
type CheckpointTriggerConfig struct {
	Name         string      `yaml:"name"`         // 名称
	Position     types.Vec3  `yaml:"position"`     // 中心位置
	Radius       float64     `yaml:"radius"`       // 半径，默认 1.5
	Tag          string      `yaml:"tag"`          // 目标标签，默认 "Player"
	OnceOnly     *bool       `yaml:"onceOnly"`     // 是否只触发一次，默认 true
	RespawnPoint *types.Vec3 `yaml:"respawnPoint"` // 可选重生点
	RespawnRot   *types.Quat `yaml:"respawnRotation"`
}

// DamageZoneConfig 伤害区域
type DamageZoneConfig struct {
	Name            string     `yaml:"name"`            // 名称
	Position        types.Vec3 `yaml:"position"`        // 中心位置
	Radius          float64    `yaml:"radius"`          // 半径，默认 1.5
	Tag             string     `yaml:"tag"`             // 目标标签，默认 "Player"
	Mode            string     `yaml:"mode"`            // "enter"、"stay" 或 "exit"，默认 "enter"
	Amount          float64    `yaml:"amount"`          // 每次伤害量
	Interval        float64    `yaml:"interval"`        // 持续伤害间隔（秒），默认 1
	DestroyAfterUse bool       `yaml:"destroyAfterUse"` // enter 模式伤害后销毁
	Disabled        bool       `yaml:"disabled"`        // 初始禁用
}

// 伤害区域模式
const (
	DamageModeEnter = "enter"
	DamageModeStay  = "stay"
	DamageModeExit  = "exit"
)

// 默认值
const (
	DefaultTriggerRadius    = 1.5
	DefaultDamageInterval   = 1.0
	DefaultPlayerMaxHealth  = 100.0
	defaultCollectibleRange = 2.0
	defaultTriggerTag       = "Player"
)

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}

	levelConfig, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", filepath, err)
	}
	return levelConfig, nil
}

// ParseLevelConfig 从YAML数据解析关卡配置
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	// 应用默认值（旧配置文件可正常加载）
	applyDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, err
	}
	return &levelConfig, nil
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.Player.MaxHealth == 0 {
		config.Player.MaxHealth = DefaultPlayerMaxHealth
	}
	if config.Player.Rotation == nil {
		rot := types.IdentityQuat()
		config.Player.Rotation = &rot
	}

	for i := range config.Collectibles {
		c := &config.Collectibles[i]
		if c.Range == 0 {
			c.Range = defaultCollectibleRange
		}
	}

	for i := range config.Checkpoints {
		cp := &config.Checkpoints[i]
		if cp.Radius == 0 {
			cp.Radius = DefaultTriggerRadius
		}
		if cp.Tag == "" {
			cp.Tag = defaultTriggerTag
		}
		if cp.OnceOnly == nil {
			once := true
			cp.OnceOnly = &once
		}
	}

	for i := range config.DamageZones {
		dz := &config.DamageZones[i]
		if dz.Radius == 0 {
			dz.Radius = DefaultTriggerRadius
		}
		if dz.Tag == "" {
			dz.Tag = defaultTriggerTag
		}
		if dz.Mode == "" {
			dz.Mode = DamageModeEnter
		}
		if dz.Interval == 0 {
			dz.Interval = DefaultDamageInterval
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if config.Player.MaxHealth < 0 {
		return fmt.Errorf("player maxHealth cannot be negative")
	}

	// WorldID 必须在关卡内唯一
	seen := make(map[types.WorldID]bool, len(config.Collectibles))
	for i, c := range config.Collectibles {
		// 不同的 (物品, 实例) 组合可能拼出同一个 WorldID，例如 a_b+c 和 a+b_c
		if strings.Contains(c.Instance, types.WorldIDSeparator) {
			return fmt.Errorf("collectibles[%d]: instance %q must not contain %q", i, c.Instance, types.WorldIDSeparator)
		}
		id, err := types.NewWorldID(c.Item, c.Instance)
		if err != nil {
			return fmt.Errorf("collectibles[%d]: %w", i, err)
		}
		if seen[id] {
			return fmt.Errorf("collectibles[%d]: duplicate world id %q", i, id)
		}
		seen[id] = true
		if c.Range < 0 {
			return fmt.Errorf("collectibles[%d]: range cannot be negative", i)
		}
	}

	for i, cp := range config.Checkpoints {
		if cp.Radius < 0 {
			return fmt.Errorf("checkpoints[%d]: radius cannot be negative", i)
		}
	}

	validModes := map[string]bool{
		DamageModeEnter: true,
		DamageModeStay:  true,
		DamageModeExit:  true,
	}
	for i, dz := range config.DamageZones {
		if !validModes[dz.Mode] {
			return fmt.Errorf("damageZones[%d]: mode must be one of: enter, stay, exit, got %q", i, dz.Mode)
		}
		if dz.Amount < 0 {
			return fmt.Errorf("damageZones[%d]: amount cannot be negative", i)
		}
		if dz.Radius < 0 || dz.Interval < 0 {
			return fmt.Errorf("damageZones[%d]: radius and interval cannot be negative", i)
		}
	}

	return nil
}
