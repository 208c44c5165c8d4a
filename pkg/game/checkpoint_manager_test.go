package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/cyberrebel/pkg/types"
)

func assertCollectibleState(t *testing.T, s *Session, id types.WorldID, wantActive, wantCollected bool) {
	t.Helper()
	handle, c, ok := s.World.Collectible(id)
	if !ok {
		t.Fatalf("collectible %q not found", id)
	}
	if active := s.World.IsActive(handle); active != wantActive || c.Collected != wantCollected {
		t.Errorf("%s: active=%v collected=%v, want active=%v collected=%v",
			id, active, c.Collected, wantActive, wantCollected)
	}
}

// TestCheckpointCaptureRestoreRoundTrip 测试捕获后修改状态再恢复
func TestCheckpointCaptureRestoreRoundTrip(t *testing.T) {
	s := newTestSession(t, nil)
	s.Missions.Start()

	rot := types.Quat{Y: 0.7071, W: 0.7071}
	s.Player.SetTransform(types.Vec3{X: 1, Y: 2, Z: 3}, rot)
	s.Player.SetHealth(80, 100)
	if !s.Pickups.Collect("keyA_instance1") {
		t.Fatal("Collect(keyA_instance1) failed")
	}

	snap, err := s.Checkpoints.CaptureCheckpoint()
	if err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}
	if snap.MissionIndex != 1 || !reflect.DeepEqual(snap.InventoryIDs, []string{"keyA"}) {
		t.Errorf("Captured snapshot = %+v", snap)
	}
	if !snap.HasCollected("keyA_instance1") {
		t.Error("Captured snapshot should contain keyA_instance1")
	}

	// 捕获之后继续游戏
	s.Player.SetTransform(types.Vec3{X: 50}, types.IdentityQuat())
	s.Player.TakeDamage(50)
	s.Pickups.Collect("battery_instance1")
	if s.Missions.CurrentIndex() != 2 {
		t.Fatalf("Expected mission 2 after battery, got %d", s.Missions.CurrentIndex())
	}

	report, err := s.Checkpoints.RestoreCheckpoint()
	if err != nil {
		t.Fatalf("RestoreCheckpoint() failed: %v", err)
	}

	if got := s.Player.Position(); got != (types.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Position = %+v", got)
	}
	if got := s.Player.Rotation(); got != rot {
		t.Errorf("Rotation = %+v, want %+v", got, rot)
	}
	if cur, max := s.Player.Health(); cur != 80 || max != 100 {
		t.Errorf("Health = %v/%v, want 80/100", cur, max)
	}
	if got := s.Inventory.AllIDs(); !reflect.DeepEqual(got, []string{"keyA"}) {
		t.Errorf("Inventory = %v, want [keyA]", got)
	}
	if s.Missions.CurrentIndex() != 1 {
		t.Errorf("Mission index = %d, want 1", s.Missions.CurrentIndex())
	}
	if s.Checkpoints.WasCollected("battery_instance1") {
		t.Error("battery_instance1 should no longer be recorded as collected")
	}

	assertCollectibleState(t, s, "keyA_instance1", false, true)
	assertCollectibleState(t, s, "battery_instance1", true, false)
	assertCollectibleState(t, s, "keycard_vault", true, false)

	want := RestoreReport{Deactivated: 1, Reactivated: 3, InventoryRestored: 1}
	if report != want {
		t.Errorf("RestoreReport = %+v, want %+v", report, want)
	}

	// 重复恢复结果相同
	again, err := s.Checkpoints.RestoreCheckpoint()
	if err != nil || again != report {
		t.Errorf("Second restore = %+v, %v; want %+v", again, err, report)
	}
	assertCollectibleState(t, s, "keyA_instance1", false, true)
}

// TestRestoreWithoutCheckpoint 没有检查点时恢复不修改任何状态
func TestRestoreWithoutCheckpoint(t *testing.T) {
	s := newTestSession(t, nil)
	s.Player.SetTransform(types.Vec3{X: 7}, types.IdentityQuat())
	s.Player.SetHealth(42, 100)

	if _, err := s.Checkpoints.RestoreCheckpoint(); !errors.Is(err, ErrNoCheckpoint) {
		t.Fatalf("RestoreCheckpoint() error = %v, want ErrNoCheckpoint", err)
	}
	if s.Player.Position().X != 7 {
		t.Error("Player position changed")
	}
	if cur, _ := s.Player.Health(); cur != 42 {
		t.Errorf("Player health changed to %v", cur)
	}
	if s.Checkpoints.HasCheckpoint() {
		t.Error("HasCheckpoint() should be false")
	}
}

// TestCheckpointMissingPlayer 没有玩家时捕获和恢复都失败
func TestCheckpointMissingPlayer(t *testing.T) {
	cm := NewCheckpointManager(CheckpointDeps{})

	if _, err := cm.CaptureCheckpoint(); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("CaptureCheckpoint() error = %v, want ErrMissingCollaborator", err)
	}
	if cm.HasCheckpoint() {
		t.Error("Failed capture must not create a checkpoint")
	}

	cm.SetLastCheckpoint(&CheckpointSnapshot{Health: 10, MaxHealth: 10})
	if _, err := cm.RestoreCheckpoint(); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("RestoreCheckpoint() error = %v, want ErrMissingCollaborator", err)
	}
}

// TestCheckpointCaptureDestroyedPlayer 玩家实体被销毁后捕获失败且保留旧检查点
func TestCheckpointCaptureDestroyedPlayer(t *testing.T) {
	s := newTestSession(t, nil)
	if _, err := s.Checkpoints.CaptureCheckpoint(); err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}
	before, _ := s.Checkpoints.LastCheckpoint()

	s.World.DestroyEntity(s.Player.Entity())
	s.World.Update()

	if _, err := s.Checkpoints.CaptureCheckpoint(); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("CaptureCheckpoint() error = %v, want ErrMissingCollaborator", err)
	}
	after, ok := s.Checkpoints.LastCheckpoint()
	if !ok || !reflect.DeepEqual(before, after) {
		t.Error("Last checkpoint should be unchanged after failed capture")
	}
}

// TestRestoreSkipsBrokenEntries 单个失效条目不影响其余条目
func TestRestoreSkipsBrokenEntries(t *testing.T) {
	s := newTestSession(t, nil)
	s.Missions.Start()

	// 注册一个不是可拾取物的实体
	bogus := s.World.EntityManager().CreateEntity()
	if err := s.Registry.Register("ghost_item", bogus); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	// 注册后销毁、没有拆除钩子的实体
	stale := s.World.EntityManager().CreateEntity()
	_ = s.Registry.Register("stale_item", stale)
	s.World.EntityManager().DestroyEntity(stale)
	s.World.Update()

	s.Pickups.Collect("keyA_instance1")
	if _, err := s.Checkpoints.CaptureCheckpoint(); err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}

	report, err := s.Checkpoints.RestoreCheckpoint()
	if err != nil {
		t.Fatalf("RestoreCheckpoint() failed: %v", err)
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
	if report.Deactivated != 1 || report.Reactivated != 3 {
		t.Errorf("Report = %+v", report)
	}
	if _, ok := s.Registry.Get("stale_item"); ok {
		t.Error("Stale entry should have been pruned")
	}
}

// TestRestoreRevivesDeadPlayer 恢复检查点清除死亡标记
func TestRestoreRevivesDeadPlayer(t *testing.T) {
	s := newTestSession(t, nil)
	if _, err := s.Checkpoints.CaptureCheckpoint(); err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}

	s.Player.TakeDamage(1000)
	if !s.Player.IsDead() {
		t.Fatal("Player should be dead")
	}
	if _, err := s.Checkpoints.RestoreCheckpoint(); err != nil {
		t.Fatalf("RestoreCheckpoint() failed: %v", err)
	}
	if s.Player.IsDead() {
		t.Error("Restore should clear the dead flag")
	}
	if cur, max := s.Player.Health(); cur != 100 || max != 100 {
		t.Errorf("Health = %v/%v, want 100/100", cur, max)
	}
}

// TestRestoreCompletedMissions 恢复"全部完成"状态
func TestRestoreCompletedMissions(t *testing.T) {
	s := newTestSession(t, nil)
	s.Missions.LoadMission(2)
	s.Missions.OnItemCollected("keycard")
	if !s.Missions.IsCompleted() {
		t.Fatal("Missions should be completed")
	}
	snap, err := s.Checkpoints.CaptureCheckpoint()
	if err != nil {
		t.Fatalf("CaptureCheckpoint() failed: %v", err)
	}
	if !snap.MissionsCompleted || snap.MissionIndex != 2 {
		t.Errorf("Snapshot missions = %d completed=%v", snap.MissionIndex, snap.MissionsCompleted)
	}

	s.Missions.Start()
	if _, err := s.Checkpoints.RestoreCheckpoint(); err != nil {
		t.Fatalf("RestoreCheckpoint() failed: %v", err)
	}
	if !s.Missions.IsCompleted() {
		t.Error("Restored tracker should be completed")
	}
}

// TestRecordCollected 测试已拾取集合
func TestRecordCollected(t *testing.T) {
	cm := NewCheckpointManager(CheckpointDeps{})
	if err := cm.RecordCollected(""); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("RecordCollected(empty) error = %v", err)
	}
	_ = cm.RecordCollected("b_1")
	_ = cm.RecordCollected("a_1")
	_ = cm.RecordCollected("a_1")
	if !cm.WasCollected("a_1") || cm.WasCollected("c_1") {
		t.Error("WasCollected mismatch")
	}
	if got := cm.CollectedIDs(); !reflect.DeepEqual(got, []types.WorldID{"a_1", "b_1"}) {
		t.Errorf("CollectedIDs() = %v", got)
	}
}

// TestSnapshotClone 快照副本互不影响
func TestSnapshotClone(t *testing.T) {
	orig := &CheckpointSnapshot{
		InventoryIDs:      []string{"keyA"},
		CollectedWorldIDs: []types.WorldID{"keyA_instance1"},
	}
	clone := orig.Clone()
	clone.InventoryIDs[0] = "changed"
	clone.CollectedWorldIDs[0] = "changed_1"
	if orig.InventoryIDs[0] != "keyA" || orig.CollectedWorldIDs[0] != "keyA_instance1" {
		t.Error("Clone shares backing arrays with the original")
	}
}
