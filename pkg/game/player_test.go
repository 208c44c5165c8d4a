package game

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/decker502/cyberrebel/pkg/ecs"
	"github.com/decker502/cyberrebel/pkg/types"
)

// TestPlayerHealth 测试伤害、治疗和死亡
func TestPlayerHealth(t *testing.T) {
	em := ecs.NewEntityManager()
	p := NewPlayer(em, types.Vec3{}, types.IdentityQuat(), 0)

	if cur, max := p.Health(); cur != DefaultPlayerMaxHealth || max != DefaultPlayerMaxHealth {
		t.Fatalf("Health() = %v/%v, want default", cur, max)
	}

	deaths := 0
	p.SetOnDeath(func() { deaths++ })

	p.TakeDamage(30)
	p.Heal(10)
	if cur, _ := p.Health(); cur != 80 {
		t.Errorf("Health = %v, want 80", cur)
	}
	p.Heal(500)
	if cur, _ := p.Health(); cur != 100 {
		t.Errorf("Heal should clamp at max, got %v", cur)
	}
	p.TakeDamage(-5)
	if cur, _ := p.Health(); cur != 100 {
		t.Errorf("Negative damage should be ignored, got %v", cur)
	}

	p.TakeDamage(150)
	if cur, _ := p.Health(); cur != 0 || !p.IsDead() {
		t.Errorf("Expected dead at 0, got %v dead=%v", cur, p.IsDead())
	}
	if deaths != 1 {
		t.Errorf("deaths = %d, want 1", deaths)
	}

	// 死亡后忽略伤害和治疗
	p.TakeDamage(10)
	p.Heal(10)
	if cur, _ := p.Health(); cur != 0 || deaths != 1 {
		t.Errorf("Dead player changed: health=%v deaths=%d", cur, deaths)
	}

	p.SetHealth(60, 120)
	if cur, max := p.Health(); cur != 60 || max != 120 || p.IsDead() {
		t.Errorf("SetHealth -> %v/%v dead=%v", cur, max, p.IsDead())
	}
	p.SetHealth(500, 0)
	if cur, max := p.Health(); cur != 120 || max != 120 {
		t.Errorf("SetHealth clamp -> %v/%v, want 120/120", cur, max)
	}

	p.TakeDamage(1000)
	p.ResetDeath()
	if p.IsDead() {
		t.Error("ResetDeath should clear the dead flag")
	}
}

// TestPlayerSetHealthInvalidMax 非法最大值保留原值并记录警告
func TestPlayerSetHealthInvalidMax(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	em := ecs.NewEntityManager()
	p := NewPlayer(em, types.Vec3{}, types.IdentityQuat(), 150)

	for _, max := range []float64{0, -10} {
		buf.Reset()
		p.SetHealth(40, max)
		if cur, got := p.Health(); cur != 40 || got != 150 {
			t.Errorf("SetHealth(40, %v) -> %v/%v, want 40/150", max, cur, got)
		}
		if !strings.Contains(buf.String(), "invalid max health") {
			t.Errorf("SetHealth(40, %v) should log a warning, got %q", max, buf.String())
		}
	}

	buf.Reset()
	p.SetHealth(40, 90)
	if strings.Contains(buf.String(), "invalid max health") {
		t.Errorf("Valid max should not warn, got %q", buf.String())
	}
}

// TestPlayerTransform 测试位置和朝向
func TestPlayerTransform(t *testing.T) {
	em := ecs.NewEntityManager()
	p := NewPlayer(em, types.Vec3{X: 1}, types.IdentityQuat(), 100)

	p.Move(types.Vec3{X: 1, Z: -2})
	if got := p.Position(); got != (types.Vec3{X: 2, Z: -2}) {
		t.Errorf("Position() = %+v", got)
	}
	rot := types.Quat{Y: 1}
	p.SetTransform(types.Vec3{Y: 5}, rot)
	if p.Position().Y != 5 || p.Rotation() != rot {
		t.Errorf("SetTransform -> %+v %+v", p.Position(), p.Rotation())
	}
}

// TestPlayerDestroyed 玩家实体被销毁后所有操作安全降级
func TestPlayerDestroyed(t *testing.T) {
	em := ecs.NewEntityManager()
	p := NewPlayer(em, types.Vec3{X: 3}, types.IdentityQuat(), 100)
	if !p.IsValid() {
		t.Fatal("Player should be valid")
	}

	em.DestroyEntity(p.Entity())
	em.RemoveMarkedEntities()

	if p.IsValid() {
		t.Error("Player should be invalid after destroy")
	}
	p.SetTransform(types.Vec3{X: 9}, types.IdentityQuat())
	p.SetHealth(10, 10)
	p.TakeDamage(5)
	if p.Position() != (types.Vec3{}) || p.Rotation() != types.IdentityQuat() {
		t.Error("Destroyed player should report zero transform")
	}
	if cur, max := p.Health(); cur != 0 || max != 0 {
		t.Errorf("Destroyed player health = %v/%v", cur, max)
	}

	var nilPlayer *Player
	if nilPlayer.IsValid() {
		t.Error("nil player should be invalid")
	}
}
