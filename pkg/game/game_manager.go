package game

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// SessionState 游戏会话状态
type SessionState int

const (
	// StateMenu 主菜单
	StateMenu SessionState = iota
	// StatePlaying 游戏进行中
	StatePlaying
	// StatePaused 暂停
	StatePaused
	// StateGameOver 玩家死亡，等待恢复检查点
	StateGameOver
)

// String 返回状态的字符串表示
func (s SessionState) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// DefaultRespawnDelay 死亡后恢复检查点的默认延迟
const DefaultRespawnDelay = 1500 * time.Millisecond

// GameManagerOptions 游戏管理器选项
type GameManagerOptions struct {
	AutosaveOnCheckpoint bool          // 捕获检查点时同时写入存档
	RespawnDelay         time.Duration // 死亡后恢复检查点的延迟
}

// GameManager 游戏会话管理器
//
// 职责：
//   - 会话状态机（菜单/进行中/暂停/死亡）及状态监听
//   - 协调检查点捕获/恢复与存档读写
//   - 驱动延迟回调（死亡后延迟恢复）
type GameManager struct {
	state     SessionState
	listeners []func(from, to SessionState)

	checkpoints *CheckpointManager
	gateway     *PersistenceGateway
	scheduler   *Scheduler
	missions    *MissionTracker

	opts           GameManagerOptions
	timeScale      float64
	respawnPending bool
	onRestart      func()
}

// NewGameManager 创建游戏管理器
//
// 参数：
//   - opts: 选项，RespawnDelay <= 0 时使用 DefaultRespawnDelay
//   - checkpoints: 检查点管理器（必需）
//   - gateway: 存档网关，nil 时使用内存存档
//   - scheduler: 调度器，nil 时新建
//   - missions: 任务追踪器，可为 nil
func NewGameManager(opts GameManagerOptions, checkpoints *CheckpointManager, gateway *PersistenceGateway,
	scheduler *Scheduler, missions *MissionTracker) *GameManager {
	if opts.RespawnDelay <= 0 {
		opts.RespawnDelay = DefaultRespawnDelay
	}
	if gateway == nil {
		gateway = NewPersistenceGateway(nil, DefaultSaveNamespace)
	}
	if scheduler == nil {
		scheduler = NewScheduler()
	}
	return &GameManager{
		state:       StateMenu,
		checkpoints: checkpoints,
		gateway:     gateway,
		scheduler:   scheduler,
		missions:    missions,
		opts:        opts,
		timeScale:   1,
	}
}

// State 返回当前状态
func (gm *GameManager) State() SessionState {
	return gm.state
}

// OnStateChange 注册状态变化监听
func (gm *GameManager) OnStateChange(fn func(from, to SessionState)) {
	if fn != nil {
		gm.listeners = append(gm.listeners, fn)
	}
}

// SetState 切换状态并通知监听者，状态未变化时什么也不做
func (gm *GameManager) SetState(state SessionState) {
	if gm.state == state {
		return
	}
	old := gm.state
	gm.state = state

	switch state {
	case StatePaused:
		gm.timeScale = 0
	default:
		gm.timeScale = 1
	}

	log.Printf("[GameManager] State %s -> %s", old, state)
	for _, fn := range gm.listeners {
		fn(old, state)
	}
}

// SetPaused 暂停或继续
// 只在进行中/暂停两种状态之间切换
func (gm *GameManager) SetPaused(paused bool) {
	switch {
	case paused && gm.state == StatePlaying:
		gm.SetState(StatePaused)
	case !paused && gm.state == StatePaused:
		gm.SetState(StatePlaying)
	}
}

// IsPaused 是否暂停
func (gm *GameManager) IsPaused() bool {
	return gm.state == StatePaused
}

// TimeScale 返回时间缩放（暂停时为 0）
func (gm *GameManager) TimeScale() float64 {
	return gm.timeScale
}

// Scheduler 返回调度器
func (gm *GameManager) Scheduler() *Scheduler {
	return gm.scheduler
}

// Checkpoints 返回检查点管理器
func (gm *GameManager) Checkpoints() *CheckpointManager {
	return gm.checkpoints
}

// Gateway 返回存档网关
func (gm *GameManager) Gateway() *PersistenceGateway {
	return gm.gateway
}

// SetRestartHandler 设置没有检查点时的死亡处理（通常是重新开始关卡）
func (gm *GameManager) SetRestartHandler(fn func()) {
	gm.onRestart = fn
}

// Update 推进调度器
// 暂停时时间不流逝，但下一帧回调仍会执行
func (gm *GameManager) Update(dt float64) {
	gm.scheduler.Update(dt * gm.timeScale)
}

// StartNewGame 开始新游戏（从第一个任务开始）
func (gm *GameManager) StartNewGame() {
	if gm.missions != nil {
		gm.missions.Start()
	}
	gm.SetState(StatePlaying)
}

// CaptureCheckpoint 捕获检查点，开启自动存档时同时写入存档
func (gm *GameManager) CaptureCheckpoint() error {
	snap, err := gm.checkpoints.CaptureCheckpoint()
	if err != nil {
		return err
	}
	if gm.opts.AutosaveOnCheckpoint {
		if err := gm.gateway.Save(snap); err != nil {
			log.Printf("[GameManager] Error: autosave failed: %v", err)
			return fmt.Errorf("autosave checkpoint: %w", err)
		}
	}
	return nil
}

// RestoreCheckpoint 恢复最后检查点并回到进行中状态
func (gm *GameManager) RestoreCheckpoint() error {
	if _, err := gm.checkpoints.RestoreCheckpoint(); err != nil {
		return err
	}
	gm.SetState(StatePlaying)
	return nil
}

// SaveCheckpoint 把最后检查点写入存档
func (gm *GameManager) SaveCheckpoint() error {
	snap, ok := gm.checkpoints.LastCheckpoint()
	if !ok {
		return ErrNoCheckpoint
	}
	return gm.gateway.Save(snap)
}

// HasSavedData 是否存在存档
func (gm *GameManager) HasSavedData() bool {
	return gm.gateway.HasData()
}

// LoadPersisted 读取存档，设为最后检查点并恢复
//
// 返回：
//   - bool: 是否读取到存档
//   - error: 读取或恢复失败
func (gm *GameManager) LoadPersisted() (bool, error) {
	snap, ok, err := gm.gateway.Load()
	if err != nil {
		log.Printf("[GameManager] Error: failed to load saved checkpoint: %v", err)
		return false, err
	}
	if !ok {
		log.Printf("[GameManager] No saved checkpoint")
		return false, nil
	}

	gm.checkpoints.SetLastCheckpoint(snap)
	if err := gm.RestoreCheckpoint(); err != nil {
		return true, fmt.Errorf("restore saved checkpoint: %w", err)
	}
	log.Printf("[GameManager] Saved checkpoint loaded")
	return true, nil
}

// EraseSavedData 删除存档
func (gm *GameManager) EraseSavedData() error {
	return gm.gateway.Erase()
}

// PlayerDied 玩家死亡：进入死亡状态，延迟后恢复检查点
// 等待恢复期间重复调用被忽略
func (gm *GameManager) PlayerDied() {
	if gm.respawnPending {
		return
	}
	gm.respawnPending = true
	gm.SetState(StateGameOver)

	gm.scheduler.After(gm.opts.RespawnDelay.Seconds(), func() {
		gm.respawnPending = false
		err := gm.RestoreCheckpoint()
		if err == nil {
			return
		}
		if errors.Is(err, ErrNoCheckpoint) && gm.onRestart != nil {
			log.Printf("[GameManager] No checkpoint, restarting level")
			gm.onRestart()
			return
		}
		log.Printf("[GameManager] Error: respawn failed: %v", err)
	})
}

// SaveOnExit 应用退出或暂停到后台时保存
//
// 游戏中（Playing/Paused）先捕获当前状态作为新检查点再写入存档；
// 菜单和 GameOver 状态下只写入已有的最后检查点，没有检查点视为成功
//
// 返回：
//   - bool: 保存成功或无需保存时为 true
func (gm *GameManager) SaveOnExit() bool {
	if gm.state == StatePlaying || gm.state == StatePaused {
		snap, err := gm.checkpoints.CaptureCheckpoint()
		if err == nil {
			if err := gm.gateway.Save(snap); err != nil {
				log.Printf("[GameManager] Error: failed to save on exit: %v", err)
				return false
			}
			log.Printf("[GameManager] Checkpoint captured and saved on exit")
			return true
		}
		log.Printf("[GameManager] Warning: cannot capture on exit (%v), saving last checkpoint", err)
	}

	err := gm.SaveCheckpoint()
	switch {
	case err == nil:
		log.Printf("[GameManager] Checkpoint saved on exit")
		return true
	case errors.Is(err, ErrNoCheckpoint):
		return true
	default:
		log.Printf("[GameManager] Error: failed to save on exit: %v", err)
		return false
	}
}
