package game

import (
	"log"

	"github.com/decker502/cyberrebel/pkg/config"
)

// MissionDefinition 任务定义（会话内只读）
type MissionDefinition struct {
	ID           int    // 任务ID
	Objective    string // "目标" 文本
	Instruction  string // "怎么做" 文本
	RequiredItem string // 完成任务需要拾取的物品目录ID
	NextID       int    // 下一个任务ID，config.NoNextMission 表示最后一个
}

// MissionStatus 任务进度快照，供 UI 显示
type MissionStatus struct {
	Index     int                // 当前任务索引（已全部完成时为最后一个任务的索引）
	Mission   *MissionDefinition // 当前任务，全部完成或未开始时为 nil
	Completed bool               // 是否已全部完成
}

// MissionTracker 线性任务追踪器
//
// 状态机：
//   - 任务索引 0..N-1
//   - Completed（终态，不再响应拾取）
//
// 初始状态由外部决定：新游戏调用 Start()，读档调用 LoadMission(index)，
// 每次会话开始只走其中一条路径
type MissionTracker struct {
	missions  []MissionDefinition
	idToIndex map[int]int

	index     int
	started   bool
	completed bool

	listeners []func(MissionStatus)
	verbose   bool
}

// NewMissionTracker 从任务表配置创建任务追踪器
//
// 参数：
//   - cfg: 任务表配置，可为 nil（空任务表）
//   - verbose: 是否输出详细日志
func NewMissionTracker(cfg *config.MissionTableConfig, verbose bool) *MissionTracker {
	t := &MissionTracker{
		idToIndex: make(map[int]int),
		verbose:   verbose,
	}
	if cfg == nil || len(cfg.Missions) == 0 {
		log.Printf("[MissionTracker] Warning: mission table is empty")
		return t
	}

	for i, m := range cfg.Missions {
		t.missions = append(t.missions, MissionDefinition{
			ID:           m.ID,
			Objective:    m.Objective,
			Instruction:  m.Instruction,
			RequiredItem: m.RequiredItem,
			NextID:       m.NextID(),
		})
		t.idToIndex[m.ID] = i
	}
	return t
}

// OnChange 注册任务状态变化监听（UI 文本更新等）
func (t *MissionTracker) OnChange(fn func(MissionStatus)) {
	if fn != nil {
		t.listeners = append(t.listeners, fn)
	}
}

// Start 新游戏：加载第一个任务
func (t *MissionTracker) Start() {
	if len(t.missions) == 0 {
		log.Printf("[MissionTracker] Error: no missions available to start")
		return
	}
	t.load(0)
}

// LoadMission 直接跳转到指定索引（用于恢复存档）
// 越界时记录警告并回退到任务 0
func (t *MissionTracker) LoadMission(index int) {
	if len(t.missions) == 0 {
		log.Printf("[MissionTracker] Warning: cannot load mission %d, mission table is empty", index)
		return
	}
	if index < 0 || index >= len(t.missions) {
		log.Printf("[MissionTracker] Warning: invalid mission index %d, loading mission 0", index)
		index = 0
	}
	t.load(index)
	if t.verbose {
		log.Printf("[MissionTracker] Mission state restored: index %d", index)
	}
}

// MarkCompleted 直接进入完成状态（用于恢复"全部完成"的存档）
func (t *MissionTracker) MarkCompleted() {
	t.started = true
	t.complete()
}

// OnItemCollected 处理物品拾取
// 当前任务需要该物品时推进到下一个任务（或完成），否则不变
//
// 返回：
//   - bool: 是否发生了状态转移
func (t *MissionTracker) OnItemCollected(catalogID string) bool {
	mission := t.current()
	if mission == nil {
		if t.verbose {
			log.Printf("[MissionTracker] No active mission, ignoring pickup %q", catalogID)
		}
		return false
	}

	if t.verbose {
		log.Printf("[MissionTracker] Item collected: %q, required: %q", catalogID, mission.RequiredItem)
	}

	if mission.RequiredItem == "" {
		if t.verbose {
			log.Printf("[MissionTracker] Warning: mission #%d has no required item configured", mission.ID)
		}
		return false
	}
	if mission.RequiredItem != catalogID {
		return false
	}

	log.Printf("[MissionTracker] Mission #%d completed: %q", mission.ID, mission.Objective)

	if mission.NextID == config.NoNextMission {
		t.complete()
		return true
	}
	next, ok := t.idToIndex[mission.NextID]
	if !ok {
		log.Printf("[MissionTracker] Warning: mission #%d points to unknown mission %d, treating as last",
			mission.ID, mission.NextID)
		t.complete()
		return true
	}
	t.load(next)
	return true
}

// CurrentIndex 返回当前任务索引
func (t *MissionTracker) CurrentIndex() int {
	return t.index
}

// Current 返回当前任务
// 未开始或已全部完成时返回 false
func (t *MissionTracker) Current() (MissionDefinition, bool) {
	mission := t.current()
	if mission == nil {
		return MissionDefinition{}, false
	}
	return *mission, true
}

// IsCompleted 是否已完成所有任务
func (t *MissionTracker) IsCompleted() bool {
	return t.completed
}

// IsStarted 是否已经通过 Start/LoadMission/MarkCompleted 初始化
func (t *MissionTracker) IsStarted() bool {
	return t.started
}

// Status 返回当前状态快照
func (t *MissionTracker) Status() MissionStatus {
	status := MissionStatus{Index: t.index, Completed: t.completed}
	if mission := t.current(); mission != nil {
		m := *mission
		status.Mission = &m
	}
	return status
}

// Len 返回任务数量
func (t *MissionTracker) Len() int {
	return len(t.missions)
}

func (t *MissionTracker) current() *MissionDefinition {
	if !t.started || t.completed || t.index < 0 || t.index >= len(t.missions) {
		return nil
	}
	return &t.missions[t.index]
}

func (t *MissionTracker) load(index int) {
	t.index = index
	t.started = true
	t.completed = false

	mission := &t.missions[index]
	if t.verbose {
		log.Printf("[MissionTracker] Mission #%d loaded: %q (%s), required item %q",
			mission.ID, mission.Objective, mission.Instruction, mission.RequiredItem)
	}
	t.notify()
}

func (t *MissionTracker) complete() {
	t.completed = true
	log.Printf("[MissionTracker] All missions completed")
	t.notify()
}

func (t *MissionTracker) notify() {
	status := t.Status()
	for _, fn := range t.listeners {
		fn(status)
	}
}
