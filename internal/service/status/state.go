package status

import (
	"sync"
	"sync/atomic"
	"time"
)

// State 监控循环写入, HTTP 接口只读
type State struct {
	startedAt time.Time

	cycles        atomic.Int64
	skippedCycles atomic.Int64
	alerts        atomic.Int64
	tracked       atomic.Int64
	lastCycleUnix atomic.Int64

	mu          sync.Mutex
	lastSkipAt  time.Time
	lastSkipErr string
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) CycleSkipped(at time.Time, err error) {
	s.skippedCycles.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSkipAt = at
	s.lastSkipErr = ""
	if err != nil {
		s.lastSkipErr = err.Error()
	}
}

// LastSkip 最近一次跳过的时间和原因, 从未跳过时返回零值
func (s *State) LastSkip() (time.Time, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSkipAt, s.lastSkipErr
}

func (s *State) CycleCompleted(at time.Time, tracked, alerts int) {
	s.cycles.Add(1)
	s.alerts.Add(int64(alerts))
	s.tracked.Store(int64(tracked))
	s.lastCycleUnix.Store(at.Unix())
}

func (s *State) Cycles() int64        { return s.cycles.Load() }
func (s *State) SkippedCycles() int64 { return s.skippedCycles.Load() }
func (s *State) Alerts() int64        { return s.alerts.Load() }
func (s *State) Tracked() int64       { return s.tracked.Load() }

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
