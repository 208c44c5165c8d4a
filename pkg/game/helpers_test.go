package game

import (
	"path/filepath"
	"testing"

	"github.com/decker502/cyberrebel/pkg/config"
)

const testItemsYAML = `items:
  - id: keyA
    displayName: Key A
    categories: [key]
  - id: battery
    displayName: Battery
    categories: [key]
  - id: loreLog
    displayName: Lore Log
    categories: [lore]
    lore: "Day 14. The turbines are louder."
  - id: keycard
    displayName: Keycard
    categories: [key, lore]
`

const testMissionsYAML = `missions:
  - id: 0
    objective: Find the key
    requiredItem: keyA
    next: 1
  - id: 1
    objective: Find the battery
    instruction: Check the generator room
    requiredItem: battery
    next: 2
  - id: 2
    objective: Open the vault
    requiredItem: keycard
`

const testLevelYAML = `id: test-facility
player:
  position: {x: 0, y: 0, z: 0}
  maxHealth: 100
collectibles:
  - {item: keyA, instance: instance1, position: {x: 3, y: 0, z: 0}}
  - {item: battery, instance: instance1, position: {x: 6, y: 0, z: 0}}
  - {item: keycard, instance: vault, position: {x: 9, y: 0, z: 0}}
  - {item: loreLog, instance: desk, position: {x: 0, y: 0, z: 5}}
checkpoints:
  - name: hall
    position: {x: 20, y: 0, z: 0}
    radius: 1
damageZones:
  - name: steam
    position: {x: -10, y: 0, z: 0}
    radius: 1
    mode: stay
    amount: 30
    interval: 0.5
`

func newTestCatalogConfig(t *testing.T) *config.ItemCatalogConfig {
	t.Helper()
	cfg, err := config.ParseItemCatalogConfig([]byte(testItemsYAML))
	if err != nil {
		t.Fatalf("ParseItemCatalogConfig() failed: %v", err)
	}
	return cfg
}

func newTestCatalog(t *testing.T) *ItemCatalog {
	t.Helper()
	return NewItemCatalog(newTestCatalogConfig(t), false)
}

func newTestMissionConfig(t *testing.T) *config.MissionTableConfig {
	t.Helper()
	cfg, err := config.ParseMissionTableConfig([]byte(testMissionsYAML))
	if err != nil {
		t.Fatalf("ParseMissionTableConfig() failed: %v", err)
	}
	return cfg
}

func newTestMissions(t *testing.T) *MissionTracker {
	t.Helper()
	return NewMissionTracker(newTestMissionConfig(t), false)
}

func newTestSessionConfig(t *testing.T) *config.SessionConfig {
	t.Helper()
	cfg, err := config.LoadSessionConfigFrom(map[string]string{
		"CR_SAVE_BACKEND":  config.SaveBackendMemory,
		"CR_EXPORT_PATH":   filepath.Join(t.TempDir(), "export", "checkpoint.sav"),
		"CR_RESPAWN_DELAY": "1s",
	})
	if err != nil {
		t.Fatalf("LoadSessionConfigFrom() failed: %v", err)
	}
	return cfg
}

func newTestContent(t *testing.T) *SessionContent {
	t.Helper()
	level, err := config.ParseLevelConfig([]byte(testLevelYAML))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	return &SessionContent{
		Items:    newTestCatalogConfig(t),
		Missions: newTestMissionConfig(t),
		Level:    level,
	}
}

// newTestSession 创建使用给定存储的会话；store 为 nil 时使用内存存储
func newTestSession(t *testing.T, store KVStore) *Session {
	t.Helper()
	s, err := NewSession(newTestSessionConfig(t), newTestContent(t), store)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}
