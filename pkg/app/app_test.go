package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/cyberrebel/pkg/config"
	"github.com/decker502/cyberrebel/pkg/game"
	"github.com/decker502/cyberrebel/pkg/utils"
)

const testItems = `items:
  - id: keyA
    displayName: Key A
    categories: [key]
`

const testMissions = `missions:
  - id: 0
    objective: Find the key
    requiredItem: keyA
`

const testLevel = `id: app-test
collectibles:
  - {item: keyA, instance: one, position: {x: 1, y: 0, z: 0}}
`

func writeContent(t *testing.T) *config.SessionConfig {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"items.yaml":    testItems,
		"missions.yaml": testMissions,
		"level.yaml":    testLevel,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", name, err)
		}
	}

	cfg, err := config.LoadSessionConfigFrom(map[string]string{
		"CR_SAVE_BACKEND":  config.SaveBackendSQLite,
		"CR_SQLITE_PATH":   filepath.Join(dir, "saves", "checkpoint.db"),
		"CR_ITEMS_PATH":    filepath.Join(dir, "items.yaml"),
		"CR_MISSIONS_PATH": filepath.Join(dir, "missions.yaml"),
		"CR_LEVEL_PATH":    filepath.Join(dir, "level.yaml"),
	})
	if err != nil {
		t.Fatalf("LoadSessionConfigFrom() failed: %v", err)
	}
	return cfg
}

// TestNewApp 测试应用初始化和关卡加载
func TestNewApp(t *testing.T) {
	cfg := writeContent(t)

	a, err := NewApp(Config{Verbose: true, Session: cfg})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	defer a.Shutdown()

	if a.Session() == nil {
		t.Fatal("Session() should not be nil after NewApp")
	}
	if _, ok := a.GetSceneManager().GetCurrentScene().(*game.GameplayScene); !ok {
		t.Errorf("Current scene = %T, want *game.GameplayScene", a.GetSceneManager().GetCurrentScene())
	}
	if got := a.GetSceneManager().CurrentLevel(); got != cfg.LevelPath {
		t.Errorf("CurrentLevel() = %q, want %q", got, cfg.LevelPath)
	}
	if w, h := a.Layout(1920, 1080); w != WindowWidth || h != WindowHeight {
		t.Errorf("Layout() = %dx%d", w, h)
	}
}

// TestAppLoadMissingLevel 关卡加载失败时保留当前会话
func TestAppLoadMissingLevel(t *testing.T) {
	cfg := writeContent(t)

	a, err := NewApp(Config{Verbose: true, Session: cfg})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	defer a.Shutdown()

	before := a.Session()
	if err := a.LoadLevel(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadLevel() with missing file should fail")
	}
	if a.Session() != before {
		t.Error("Failed LoadLevel must keep the current session")
	}

	missing := *cfg
	missing.LevelPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewApp(Config{Verbose: true, Session: &missing}); err == nil {
		t.Error("NewApp() with missing level should fail")
	}
}

// TestAppShutdownPersists 退出时保存检查点，重新启动后读档
func TestAppShutdownPersists(t *testing.T) {
	cfg := writeContent(t)
	cfg.AutosaveOnCheckpoint = false

	a, err := NewApp(Config{Verbose: true, Session: cfg})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	first, ok := a.GetSceneManager().GetCurrentScene().(*game.GameplayScene)
	if !ok {
		t.Fatalf("Current scene = %T", a.GetSceneManager().GetCurrentScene())
	}
	first.Step(1.0/TicksPerSecond, utils.InputState{})
	if err := a.Session().Manager.CaptureCheckpoint(); err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}
	if a.Session().Manager.HasSavedData() {
		t.Fatal("Autosave is disabled, nothing should be persisted yet")
	}
	a.Shutdown()
	a.Shutdown()

	b, err := NewApp(Config{Verbose: true, Session: cfg})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	defer b.Shutdown()

	scene, ok := b.GetSceneManager().GetCurrentScene().(*game.GameplayScene)
	if !ok || !scene.Resumed() {
		t.Error("Second app should resume from the checkpoint saved on shutdown")
	}
}

// TestAppFocusLoss 失去焦点时暂停并保存检查点
func TestAppFocusLoss(t *testing.T) {
	cfg := writeContent(t)
	cfg.AutosaveOnCheckpoint = false

	a, err := NewApp(Config{Verbose: true, Session: cfg})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	defer a.Shutdown()

	scene := a.GetSceneManager().GetCurrentScene().(*game.GameplayScene)
	scene.Step(1.0/TicksPerSecond, utils.InputState{})
	if err := a.Session().Manager.CaptureCheckpoint(); err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}

	a.handleFocus(false)
	if !a.Session().Manager.IsPaused() {
		t.Error("Focus loss should pause the game")
	}
	if !a.Session().Manager.HasSavedData() {
		t.Error("Focus loss should save the checkpoint")
	}

	a.handleFocus(true)
	if !a.Session().Manager.IsPaused() {
		t.Error("Regaining focus must not resume automatically")
	}
}
