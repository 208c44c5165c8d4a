package game

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/types"
	"github.com/decker502/cyberrebel/pkg/utils"
)

const frame = 1.0 / 60

// TestGameplaySceneFreshStart 没有存档时第二阶段开始新游戏
func TestGameplaySceneFreshStart(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)

	if scene.Resumed() || scene.Begun() {
		t.Fatalf("Phase 1: resumed=%v begun=%v", scene.Resumed(), scene.Begun())
	}
	if s.Missions.IsStarted() {
		t.Fatal("Missions must not start during phase 1")
	}

	scene.Step(frame, utils.InputState{})
	if !scene.Begun() || s.Manager.State() != StatePlaying {
		t.Fatalf("Phase 2: begun=%v state=%s", scene.Begun(), s.Manager.State())
	}
	if s.Missions.CurrentIndex() != 0 || !s.Missions.IsStarted() {
		t.Errorf("Mission = %d started=%v", s.Missions.CurrentIndex(), s.Missions.IsStarted())
	}
	if !strings.Contains(scene.HUDText(), "Mission: Find the key") {
		t.Errorf("HUD missing mission text:\n%s", scene.HUDText())
	}
}

// TestGameplaySceneInput 移动、拾取和暂停
func TestGameplaySceneInput(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)
	scene.Step(frame, utils.InputState{})

	// 向 +X 移动 0.75 秒（速度 4）到 x=3
	for i := 0; i < 3; i++ {
		scene.Step(0.25, utils.InputState{MoveX: 1})
	}
	if got := s.Player.Position().X; got != 3 {
		t.Fatalf("Position.X = %v, want 3", got)
	}

	scene.Step(frame, utils.InputState{Interact: true})
	if !s.Inventory.Contains("keyA") || s.Missions.CurrentIndex() != 1 {
		t.Errorf("Interact should pick up keyA: inventory=%v mission=%d",
			s.Inventory.AllIDs(), s.Missions.CurrentIndex())
	}
	if !strings.Contains(scene.HUDText(), "Picked up keyA_instance1") {
		t.Errorf("HUD missing pickup message:\n%s", scene.HUDText())
	}

	scene.Step(frame, utils.InputState{Pause: true})
	if !s.Manager.IsPaused() {
		t.Fatal("Pause key should pause")
	}
	scene.Step(1, utils.InputState{MoveX: 1})
	if s.Player.Position().X != 3 {
		t.Error("Player moved while paused")
	}
	scene.Step(frame, utils.InputState{Pause: true})
	if s.Manager.IsPaused() {
		t.Error("Pause key should resume")
	}
}

// TestGameplaySceneDebugKeys F1/F2/F5/F9/F6/F7
func TestGameplaySceneDebugKeys(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)
	scene.Step(frame, utils.InputState{})

	scene.Step(frame, utils.InputState{Restore: true})
	if !strings.Contains(scene.HUDText(), "No checkpoint") {
		t.Errorf("Restore without checkpoint should report it:\n%s", scene.HUDText())
	}

	s.Player.SetTransform(types.Vec3{X: 1, Y: 2, Z: 3}, types.IdentityQuat())
	scene.Step(frame, utils.InputState{Capture: true, Export: true})
	if !s.Manager.HasSavedData() {
		t.Error("Capture with autosave should persist")
	}
	if _, err := os.Stat(s.Config.ExportPath); err != nil {
		t.Errorf("Export file missing: %v", err)
	}

	scene.Step(frame, utils.InputState{Erase: true})
	if s.Manager.HasSavedData() {
		t.Error("Erase key should delete the save")
	}
	scene.Step(frame, utils.InputState{Persist: true})
	if !s.Manager.HasSavedData() {
		t.Error("Persist key should save the last checkpoint")
	}

	s.Player.SetTransform(types.Vec3{X: 40}, types.IdentityQuat())
	scene.Step(frame, utils.InputState{Import: true})
	if got := s.Player.Position(); got != (types.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Import should restore the exported checkpoint, position = %+v", got)
	}
}

// TestGameplaySceneDeathRestart 没有检查点时死亡回到出生点
func TestGameplaySceneDeathRestart(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)
	scene.Step(frame, utils.InputState{})

	s.Player.SetTransform(types.Vec3{X: 15}, types.IdentityQuat())
	s.Player.TakeDamage(1000)
	if s.Manager.State() != StateGameOver {
		t.Fatalf("State = %s, want GameOver", s.Manager.State())
	}
	scene.Step(1.5, utils.InputState{})
	if s.Player.IsDead() || s.Manager.State() != StatePlaying {
		t.Errorf("After restart: dead=%v state=%s", s.Player.IsDead(), s.Manager.State())
	}
	if s.Player.Position() != (types.Vec3{}) {
		t.Errorf("Position = %+v, want spawn", s.Player.Position())
	}
}

// TestGameplaySceneCheckpointTriggerAutosave 走进检查点区域后自动存档
func TestGameplaySceneCheckpointTriggerAutosave(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)
	scene.Step(frame, utils.InputState{})

	s.Player.SetTransform(types.Vec3{X: 20}, types.IdentityQuat())
	scene.Step(frame, utils.InputState{})
	if !s.Checkpoints.HasCheckpoint() || !s.Manager.HasSavedData() {
		t.Errorf("Checkpoint trigger should capture and save")
	}
}

// TestCheckpointSurvivesRestart 完整流程：捕获、持久化、新会话读档
func TestCheckpointSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "saves", "checkpoint.db")
	cfg, err := config.LoadSessionConfigFrom(map[string]string{
		"CR_SAVE_BACKEND": config.SaveBackendSQLite,
		"CR_SQLITE_PATH":  dbPath,
	})
	if err != nil {
		t.Fatalf("LoadSessionConfigFrom() failed: %v", err)
	}

	// 第一个会话
	store, err := OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	first, err := NewSession(cfg, newTestContent(t), store)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	scene := NewGameplayScene(first)
	scene.Step(frame, utils.InputState{})

	first.Pickups.Collect("keyA_instance1")
	first.Missions.LoadMission(2)
	first.Player.SetTransform(types.Vec3{X: 1, Y: 2, Z: 3}, types.IdentityQuat())
	first.Player.SetHealth(80, 100)
	scene.Step(frame, utils.InputState{Capture: true})

	if !scene.SaveOnExit() {
		t.Fatal("SaveOnExit() failed")
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// 第二个会话
	store, err = OpenStore(cfg)
	if err != nil {
		t.Fatalf("OpenStore() reopen failed: %v", err)
	}
	second, err := NewSession(cfg, newTestContent(t), store)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	defer second.Close()

	resumed := NewGameplayScene(second)
	if !resumed.Resumed() {
		t.Fatal("Second session should detect the save")
	}
	resumed.Step(frame, utils.InputState{})

	if got := second.Player.Position(); got != (types.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Position = %+v, want (1,2,3)", got)
	}
	if cur, max := second.Player.Health(); cur != 80 || max != 100 {
		t.Errorf("Health = %v/%v, want 80/100", cur, max)
	}
	if got := second.Inventory.AllIDs(); !reflect.DeepEqual(got, []string{"keyA"}) {
		t.Errorf("Inventory = %v, want [keyA]", got)
	}
	if second.Missions.CurrentIndex() != 2 {
		t.Errorf("Mission index = %d, want 2", second.Missions.CurrentIndex())
	}
	assertCollectibleState(t, second, "keyA_instance1", false, true)
	assertCollectibleState(t, second, "battery_instance1", true, false)
}

// TestGameplaySceneCorruptSave 存档损坏时退回新游戏
func TestGameplaySceneCorruptSave(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(DefaultSaveNamespace, keyHasData, "1")
	_ = store.Set(DefaultSaveNamespace, keyPosX, "not-a-number")

	s := newTestSession(t, store)
	scene := NewGameplayScene(s)
	if !scene.Resumed() {
		t.Fatal("Presence flag should be detected in phase 1")
	}
	scene.Step(frame, utils.InputState{})
	if scene.Resumed() || s.Missions.CurrentIndex() != 0 || s.Manager.State() != StatePlaying {
		t.Errorf("Expected fallback to new game: resumed=%v mission=%d state=%s",
			scene.Resumed(), s.Missions.CurrentIndex(), s.Manager.State())
	}
}

// TestOpenStoreBackends 测试各存档后端
func TestOpenStoreBackends(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := newTestSessionConfig(t)
		store, err := OpenStore(cfg)
		if err != nil {
			t.Fatalf("OpenStore() failed: %v", err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("store = %T, want *MemoryStore", store)
		}
	})

	t.Run("gdata", func(t *testing.T) {
		tempDir := t.TempDir()
		originalHome := os.Getenv("HOME")
		os.Setenv("HOME", tempDir)
		defer os.Setenv("HOME", originalHome)

		cfg := newTestSessionConfig(t)
		cfg.SaveBackend = config.SaveBackendGdata
		cfg.AppName = "cyberrebel_session_test"
		store, err := OpenStore(cfg)
		if err != nil {
			t.Fatalf("OpenStore() failed: %v", err)
		}
		if _, ok := store.(*GdataStore); !ok {
			t.Errorf("store = %T, want *GdataStore", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := newTestSessionConfig(t)
		cfg.SaveBackend = config.SaveBackendSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "a", "b.db")
		store, err := OpenStore(cfg)
		if err != nil {
			t.Fatalf("OpenStore() failed: %v", err)
		}
		sqlite, ok := store.(*SQLiteStore)
		if !ok {
			t.Fatalf("store = %T, want *SQLiteStore", store)
		}
		sqlite.Close()
	})
}

// TestNewSessionDefaults 缺少内容数据时仍能构造会话
func TestNewSessionDefaults(t *testing.T) {
	if _, err := NewSession(nil, nil, nil); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("NewSession(nil cfg) error = %v", err)
	}

	s, err := NewSession(newTestSessionConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if s.Registry.Len() != 0 || s.Catalog.Count() != 0 {
		t.Errorf("Empty session has registry=%d catalog=%d", s.Registry.Len(), s.Catalog.Count())
	}
	if _, err := s.Checkpoints.CaptureCheckpoint(); err != nil {
		t.Errorf("CaptureCheckpoint() in empty session failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

// TestLoadSessionContentFromRepository 仓库自带的内容数据必须能加载
func TestLoadSessionContentFromRepository(t *testing.T) {
	root := filepath.Join("..", "..")
	cfg := newTestSessionConfig(t)
	cfg.ItemsPath = filepath.Join(root, "data", "items.yaml")
	cfg.MissionsPath = filepath.Join(root, "data", "missions.yaml")
	cfg.LevelPath = filepath.Join(root, "data", "levels", "facility.yaml")

	content, err := LoadSessionContent(cfg)
	if err != nil {
		t.Fatalf("LoadSessionContent() failed: %v", err)
	}

	s, err := NewSession(cfg, content, nil)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	if s.Catalog.Report().Duplicates != 0 || s.Catalog.Report().MissingID != 0 {
		t.Errorf("Catalog report = %+v", s.Catalog.Report())
	}
	for _, c := range content.Level.Collectibles {
		if !s.Catalog.Exists(c.Item) {
			t.Errorf("Level collectible %s_%s references unknown item", c.Item, c.Instance)
		}
	}
	for _, m := range content.Missions.Missions {
		if m.RequiredItem != "" && !s.Catalog.Exists(m.RequiredItem) {
			t.Errorf("Mission %d requires unknown item %q", m.ID, m.RequiredItem)
		}
	}

	cfg.ItemsPath = filepath.Join(root, "data", "missing.yaml")
	if _, err := LoadSessionContent(cfg); err == nil {
		t.Error("LoadSessionContent() with missing file should fail")
	}
}

// TestGameplayScenePausable 场景管理器通过 Pausable 暂停游戏
func TestGameplayScenePausable(t *testing.T) {
	s := newTestSession(t, nil)
	scene := NewGameplayScene(s)
	scene.Step(frame, utils.InputState{})

	sm := NewSceneManager()
	sm.SwitchTo(scene)
	sm.PauseCurrent(true)
	if !s.Manager.IsPaused() {
		t.Error("PauseCurrent(true) should pause the session")
	}
	sm.PauseCurrent(false)
	if s.Manager.State() != StatePlaying {
		t.Errorf("State = %s, want Playing", s.Manager.State())
	}
}
