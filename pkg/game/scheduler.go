package game

// scheduledTask 一个待执行的延迟回调
type scheduledTask struct {
	dueAt float64 // 到期时间（秒，按调度器时钟）
	tick  uint64  // 最早可执行的帧序号
	fn    func()
}

// Scheduler 基于帧驱动的延迟回调调度器
//
// 所有回调都在 Update 中按调度顺序执行，和游戏逻辑在同一线程；
// 回调中再次调度的任务最早在下一帧执行
type Scheduler struct {
	now   float64
	tick  uint64
	tasks []scheduledTask
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// NextTick 在下一帧执行回调
func (s *Scheduler) NextTick(fn func()) {
	s.After(0, fn)
}

// After 在指定秒数之后执行回调
// 延迟不超过 0 时等同于 NextTick
func (s *Scheduler) After(seconds float64, fn func()) {
	if fn == nil {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	s.tasks = append(s.tasks, scheduledTask{
		dueAt: s.now + seconds,
		tick:  s.tick + 1,
		fn:    fn,
	})
}

// Update 推进时钟并执行所有到期的回调
//
// 参数：
//   - dt: 距上一帧的时间（秒）
func (s *Scheduler) Update(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	s.tick++

	if len(s.tasks) == 0 {
		return
	}

	// 先取出本帧到期的任务，回调中新增的任务留到后续帧
	due := make([]func(), 0, len(s.tasks))
	remaining := s.tasks[:0:0]
	for _, task := range s.tasks {
		if task.tick <= s.tick && task.dueAt <= s.now {
			due = append(due, task.fn)
		} else {
			remaining = append(remaining, task)
		}
	}
	s.tasks = remaining

	for _, fn := range due {
		fn()
	}
}

// Now 返回调度器时钟（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending 返回尚未执行的回调数量
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Clear 丢弃所有尚未执行的回调
func (s *Scheduler) Clear() {
	s.tasks = nil
}
