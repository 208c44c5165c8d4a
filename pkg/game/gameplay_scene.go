package game

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/cyberrebel/pkg/types"
	"github.com/decker502/cyberrebel/pkg/utils"
)

// PlayerMoveSpeed 玩家移动速度（单位/秒）
const PlayerMoveSpeed = 4.0

// GameplayScene 游戏场景
//
// 会话开始分两阶段：
//  1. 构造时生成世界，并探测是否存在存档
//  2. 下一帧决定新游戏（任务 0）还是读档（恢复存档中的检查点）
//
// 每个会话只走其中一条路径
type GameplayScene struct {
	session *Session

	resumed bool // 构造时探测到存档
	begun   bool // 第二阶段已执行

	readInput func() utils.InputState
	message   string
}

// NewGameplayScene 创建游戏场景（第一阶段）
func NewGameplayScene(session *Session) *GameplayScene {
	s := &GameplayScene{
		session:   session,
		readInput: utils.GetInputState,
	}
	s.resumed = session.Manager.HasSavedData()
	log.Printf("[GameplayScene] Session created, saved data present: %v", s.resumed)

	session.Manager.SetRestartHandler(s.restartAtSpawn)
	session.Scheduler.NextTick(s.begin)
	return s
}

// begin 第二阶段：新游戏或读档
func (s *GameplayScene) begin() {
	if s.begun {
		return
	}
	s.begun = true

	if !s.resumed {
		log.Printf("[GameplayScene] Starting new game")
		s.session.Manager.StartNewGame()
		return
	}

	loaded, err := s.session.Manager.LoadPersisted()
	if err != nil || !loaded {
		log.Printf("[GameplayScene] Warning: could not resume saved game (%v), starting new game", err)
		s.resumed = false
		s.session.Manager.StartNewGame()
		return
	}
	s.setMessage("Checkpoint loaded")
}

// Resumed 本次会话是否从存档恢复
func (s *GameplayScene) Resumed() bool {
	return s.resumed
}

// Begun 第二阶段是否已执行
func (s *GameplayScene) Begun() bool {
	return s.begun
}

// Session 返回场景所属会话
func (s *GameplayScene) Session() *Session {
	return s.session
}

// Update 读取输入并推进一帧
func (s *GameplayScene) Update(deltaTime float64) {
	var in utils.InputState
	if s.readInput != nil {
		in = s.readInput()
	}
	s.Step(deltaTime, in)
}

// Step 用给定输入推进一帧
func (s *GameplayScene) Step(deltaTime float64, in utils.InputState) {
	gm := s.session.Manager
	gm.Update(deltaTime)

	if in.Pause {
		gm.SetPaused(!gm.IsPaused())
	}
	s.handleDebugKeys(in)

	if gm.State() != StatePlaying {
		return
	}

	if in.MoveX != 0 || in.MoveZ != 0 {
		step := PlayerMoveSpeed * deltaTime
		s.session.Player.Move(types.Vec3{X: in.MoveX * step, Z: in.MoveZ * step})
	}
	if in.Interact {
		if id, ok := s.session.Pickups.TryPickupNear(s.session.Player.Position()); ok {
			s.setMessage(fmt.Sprintf("Picked up %s", id))
		}
	}

	s.session.Triggers.Update()
	s.session.World.Update()
}

func (s *GameplayScene) handleDebugKeys(in utils.InputState) {
	gm := s.session.Manager

	if in.Capture {
		s.report("Checkpoint captured", gm.CaptureCheckpoint())
	}
	if in.Restore {
		s.report("Checkpoint restored", gm.RestoreCheckpoint())
	}
	if in.Persist {
		s.report("Checkpoint saved", gm.SaveCheckpoint())
	}
	if in.Erase {
		s.report("Save erased", gm.EraseSavedData())
	}
	if in.Export {
		s.report("Checkpoint exported", s.session.ExportCheckpoint())
	}
	if in.Import {
		s.report("Checkpoint imported", s.session.ImportCheckpoint())
	}
}

func (s *GameplayScene) report(success string, err error) {
	switch {
	case err == nil:
		s.setMessage(success)
	case errors.Is(err, ErrNoCheckpoint):
		s.setMessage("No checkpoint")
	default:
		log.Printf("[GameplayScene] Error: %v", err)
		s.setMessage("Error: " + err.Error())
	}
}

func (s *GameplayScene) setMessage(msg string) {
	s.message = msg
}

// restartAtSpawn 死亡且没有检查点时回到出生点
func (s *GameplayScene) restartAtSpawn() {
	level := s.session.level
	rot := types.IdentityQuat()
	if level.Player.Rotation != nil {
		rot = *level.Player.Rotation
	}
	_, max := s.session.Player.Health()
	s.session.Player.SetTransform(level.Player.Position, rot)
	s.session.Player.SetHealth(max, max)
	s.session.Manager.SetState(StatePlaying)
	s.setMessage("Restarted")
}

// Draw 绘制调试 HUD
func (s *GameplayScene) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, s.HUDText())
}

// HUDText 返回 HUD 文本
func (s *GameplayScene) HUDText() string {
	var b strings.Builder

	p := s.session.Player
	cur, max := p.Health()
	pos := p.Position()
	fmt.Fprintf(&b, "State: %s\n", s.session.Manager.State())
	fmt.Fprintf(&b, "Health: %.0f/%.0f\n", cur, max)
	fmt.Fprintf(&b, "Position: (%.1f, %.1f, %.1f)\n", pos.X, pos.Y, pos.Z)

	status := s.session.Missions.Status()
	switch {
	case status.Completed:
		b.WriteString("Mission: all objectives complete\n")
	case status.Mission != nil:
		fmt.Fprintf(&b, "Mission: %s\n", status.Mission.Objective)
		if status.Mission.Instruction != "" {
			fmt.Fprintf(&b, "  %s\n", status.Mission.Instruction)
		}
	}

	fmt.Fprintf(&b, "Items: %s\n", strings.Join(s.session.Inventory.AllIDs(), ", "))
	if s.message != "" {
		fmt.Fprintf(&b, "> %s\n", s.message)
	}
	// 移动端没有键盘
	if !utils.IsMobile() {
		b.WriteString("[WASD] move [E] pick up [F1] capture [F2] restore [F5] save [F9] erase [F6] export [F7] import")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SetPaused 暂停或继续（只在游戏中生效）
func (s *GameplayScene) SetPaused(paused bool) {
	s.session.Manager.SetPaused(paused)
}

// SaveOnExit 退出时保存最后检查点
func (s *GameplayScene) SaveOnExit() bool {
	return s.session.Manager.SaveOnExit()
}
