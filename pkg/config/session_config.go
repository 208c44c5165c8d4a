package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// 存档后端类型
const (
	SaveBackendGdata  = "gdata"  // 操作系统级偏好存储（默认）
	SaveBackendSQLite = "sqlite" // 内嵌数据库
	SaveBackendMemory = "memory" // 仅内存（不持久化，测试/降级用）
)

// SessionConfig 会话级配置，从环境变量读取
type SessionConfig struct {
	SaveBackend          string        `env:"CR_SAVE_BACKEND" envDefault:"gdata"`
	AppName              string        `env:"CR_APP_NAME" envDefault:"cyberrebel"`
	SQLitePath           string        `env:"CR_SQLITE_PATH" envDefault:"data/saves/checkpoint.db"`
	Namespace            string        `env:"CR_SAVE_NAMESPACE" envDefault:"checkpoint"`
	ItemsPath            string        `env:"CR_ITEMS_PATH" envDefault:"data/items.yaml"`
	MissionsPath         string        `env:"CR_MISSIONS_PATH" envDefault:"data/missions.yaml"`
	LevelPath            string        `env:"CR_LEVEL_PATH" envDefault:"data/levels/facility.yaml"`
	ExportPath           string        `env:"CR_EXPORT_PATH" envDefault:"data/saves/checkpoint.sav"`
	AutosaveOnCheckpoint bool          `env:"CR_AUTOSAVE_ON_CHECKPOINT" envDefault:"true"`
	RespawnDelay         time.Duration `env:"CR_RESPAWN_DELAY" envDefault:"1500ms"`
	Verbose              bool          `env:"CR_VERBOSE" envDefault:"false"`
}

// LoadSessionConfig 从进程环境变量加载会话配置
func LoadSessionConfig() (*SessionConfig, error) {
	var cfg SessionConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validateSessionConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSessionConfigFrom 从给定的变量表加载会话配置（不读取进程环境）
func LoadSessionConfigFrom(vars map[string]string) (*SessionConfig, error) {
	var cfg SessionConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validateSessionConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSessionConfig(cfg *SessionConfig) error {
	switch cfg.SaveBackend {
	case SaveBackendGdata, SaveBackendSQLite, SaveBackendMemory:
	default:
		return fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
	if cfg.Namespace == "" {
		return fmt.Errorf("save namespace must not be empty")
	}
	if cfg.RespawnDelay < 0 {
		return fmt.Errorf("respawn delay must not be negative")
	}
	return nil
}
