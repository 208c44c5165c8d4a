package game

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/cyberrebel/pkg/components"
	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
	"github.com/decker502/cyberrebel/pkg/utils"
)

// SessionContent 会话使用的只读内容数据
type SessionContent struct {
	Items    *config.ItemCatalogConfig
	Missions *config.MissionTableConfig
	Level    *config.LevelConfig
}

// ReadFileFunc 读取内容文件的函数，如 os.ReadFile 或 embedded.ReadFileOrDisk
type ReadFileFunc func(path string) ([]byte, error)

// LoadSessionContent 按会话配置中的路径从磁盘加载物品目录、任务表和关卡
func LoadSessionContent(cfg *config.SessionConfig) (*SessionContent, error) {
	return LoadSessionContentWith(cfg, os.ReadFile)
}

// LoadSessionContentWith 使用给定的读取函数加载内容数据
func LoadSessionContentWith(cfg *config.SessionConfig, read ReadFileFunc) (*SessionContent, error) {
	data, err := read(cfg.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("load item catalog: %w", err)
	}
	items, err := config.ParseItemCatalogConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load item catalog %s: %w", cfg.ItemsPath, err)
	}

	data, err = read(cfg.MissionsPath)
	if err != nil {
		return nil, fmt.Errorf("load mission table: %w", err)
	}
	missions, err := config.ParseMissionTableConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load mission table %s: %w", cfg.MissionsPath, err)
	}

	data, err = read(cfg.LevelPath)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	level, err := config.ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", cfg.LevelPath, err)
	}
	return &SessionContent{Items: items, Missions: missions, Level: level}, nil
}

// OpenStore 按会话配置打开存档后端
//
// gdata 打开失败时降级为内存存储（存档不会持久化），与 sqlite 打开失败不同：
// sqlite 路径是显式配置的，失败直接返回错误
func OpenStore(cfg *config.SessionConfig) (KVStore, error) {
	switch cfg.SaveBackend {
	case config.SaveBackendMemory:
		log.Printf("[Session] Using in-memory save store")
		return NewMemoryStore(), nil

	case config.SaveBackendSQLite:
		path, err := utils.ResolveSavePath(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		log.Printf("[Session] Using sqlite save store at %s", path)
		return store, nil

	default:
		if err := utils.EnsureStorageDir(); err != nil {
			log.Printf("[Session] Warning: failed to ensure storage dir: %v", err)
		}
		store, err := OpenGdataStore(cfg.AppName)
		if err != nil {
			log.Printf("[Session] Warning: %v, saves will not persist", err)
			return NewMemoryStore(), nil
		}
		log.Printf("[Session] Using gdata save store for %s", cfg.AppName)
		return store, nil
	}
}

// Session 一次游戏会话的全部服务
// 由 NewSession 按依赖顺序构造，不使用全局单例
type Session struct {
	Config *config.SessionConfig

	Catalog     *ItemCatalog
	Missions    *MissionTracker
	Inventory   *InventoryStore
	Registry    *WorldItemRegistry
	World       *World
	Player      *Player
	Checkpoints *CheckpointManager
	Gateway     *PersistenceGateway
	Scheduler   *Scheduler
	Manager     *GameManager
	Pickups     *PickupSystem
	Triggers    *TriggerSystem
	Serializer  *CheckpointSerializer

	level *config.LevelConfig
	store KVStore
}

// NewSession 构造会话并生成关卡
//
// 参数：
//   - cfg: 会话配置（必需）
//   - content: 内容数据，字段可为 nil（空目录/空任务表/默认关卡）
//   - store: 存档后端，nil 时使用内存存储
func NewSession(cfg *config.SessionConfig, content *SessionContent, store KVStore) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("session config: %w", ErrMissingCollaborator)
	}
	if content == nil {
		content = &SessionContent{}
	}
	if store == nil {
		store = NewMemoryStore()
	}
	level := content.Level
	if level == nil {
		level = &config.LevelConfig{ID: "empty"}
	}

	em := ecs.NewEntityManager()
	registry := NewWorldItemRegistry(em)
	world := NewWorld(em, registry)

	catalog := NewItemCatalog(content.Items, cfg.Verbose)
	missions := NewMissionTracker(content.Missions, cfg.Verbose)
	inventory := NewInventoryStore(catalog)

	rot := types.IdentityQuat()
	if level.Player.Rotation != nil {
		rot = *level.Player.Rotation
	}
	player := NewPlayer(em, level.Player.Position, rot, level.Player.MaxHealth)

	checkpoints := NewCheckpointManager(CheckpointDeps{
		Player:    player,
		Inventory: inventory,
		Missions:  missions,
		Registry:  registry,
		World:     world,
	})
	gateway := NewPersistenceGateway(store, cfg.Namespace)
	scheduler := NewScheduler()
	manager := NewGameManager(GameManagerOptions{
		AutosaveOnCheckpoint: cfg.AutosaveOnCheckpoint,
		RespawnDelay:         cfg.RespawnDelay,
	}, checkpoints, gateway, scheduler, missions)

	s := &Session{
		Config:      cfg,
		Catalog:     catalog,
		Missions:    missions,
		Inventory:   inventory,
		Registry:    registry,
		World:       world,
		Player:      player,
		Checkpoints: checkpoints,
		Gateway:     gateway,
		Scheduler:   scheduler,
		Manager:     manager,
		Pickups:     NewPickupSystem(world, catalog, inventory, checkpoints, missions),
		Triggers:    NewTriggerSystem(world, scheduler),
		Serializer:  NewCheckpointSerializer(),
		level:       level,
		store:       store,
	}

	player.SetOnDeath(manager.PlayerDied)
	s.Triggers.SetPlayer(player)
	s.Triggers.SetCheckpointHandler(func(name string) {
		if err := manager.CaptureCheckpoint(); err != nil {
			log.Printf("[Session] Warning: checkpoint %q failed: %v", name, err)
		}
	})

	s.spawnLevel()
	return s, nil
}

// spawnLevel 按关卡配置生成可拾取物和触发区域
// 单个条目出错时记录警告并跳过
func (s *Session) spawnLevel() {
	for _, c := range s.level.Collectibles {
		if !s.Catalog.Exists(c.Item) {
			log.Printf("[Session] Warning: collectible %s_%s references unknown item", c.Item, c.Instance)
		}
		if _, err := s.World.SpawnCollectible(c.Item, c.Instance, c.Position, c.Range); err != nil {
			log.Printf("[Session] Warning: %v", err)
		}
	}

	for _, cp := range s.level.Checkpoints {
		once := true
		if cp.OnceOnly != nil {
			once = *cp.OnceOnly
		}
		s.World.SpawnCheckpointTrigger(components.CheckpointTriggerComponent{
			Name:         cp.Name,
			TargetTag:    cp.Tag,
			Radius:       cp.Radius,
			OnceOnly:     once,
			RespawnPoint: cp.RespawnPoint,
			RespawnRot:   cp.RespawnRot,
		}, cp.Position)
	}

	for _, dz := range s.level.DamageZones {
		s.World.SpawnDamageTrigger(components.DamageTriggerComponent{
			Name:            dz.Name,
			TargetTag:       dz.Tag,
			Radius:          dz.Radius,
			Mode:            damageModeFromConfig(dz.Mode),
			Amount:          dz.Amount,
			Interval:        dz.Interval,
			DestroyAfterUse: dz.DestroyAfterUse,
			Enabled:         !dz.Disabled,
		}, dz.Position)
	}

	log.Printf("[Session] Level %q spawned: %d collectibles, %d checkpoints, %d damage zones",
		s.level.ID, len(s.level.Collectibles), len(s.level.Checkpoints), len(s.level.DamageZones))
}

func damageModeFromConfig(mode string) components.DamageMode {
	switch mode {
	case config.DamageModeStay:
		return components.DamageWhileInside
	case config.DamageModeExit:
		return components.DamageOnExit
	default:
		return components.DamageOnEnter
	}
}

// ExportCheckpoint 把最后检查点导出到配置的备份文件
func (s *Session) ExportCheckpoint() error {
	snap, ok := s.Checkpoints.LastCheckpoint()
	if !ok {
		return ErrNoCheckpoint
	}
	path, err := utils.ResolveSavePath(s.Config.ExportPath)
	if err != nil {
		return err
	}
	return s.Serializer.Export(path, snap)
}

// ImportCheckpoint 从备份文件导入检查点并立即恢复
func (s *Session) ImportCheckpoint() error {
	path, err := utils.ResolveSavePath(s.Config.ExportPath)
	if err != nil {
		return err
	}
	snap, _, err := s.Serializer.Import(path)
	if err != nil {
		return err
	}
	s.Checkpoints.SetLastCheckpoint(snap)
	return s.Manager.RestoreCheckpoint()
}

// Close 关闭存档后端
func (s *Session) Close() error {
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close save store: %w", err)
		}
	}
	return nil
}
