package watcher

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the watcher's counters, served
// by the status endpoint.
type Snapshot struct {
	StartedAt        time.Time `json:"started_at"`
	FramesAnalyzed   uint64    `json:"frames_analyzed"`
	SourceErrors     uint64    `json:"source_errors"`
	ModelResets      uint64    `json:"model_resets"`
	MotionEvents     uint64    `json:"motion_events"`
	DispatchAttempts uint64    `json:"dispatch_attempts"`
	DispatchFailures uint64    `json:"dispatch_failures"`
	LastMotionAt     time.Time `json:"last_motion_at,omitempty"`
	LastMotionArea   float64   `json:"last_motion_area,omitempty"`
	LastDispatchAt   time.Time `json:"last_dispatch_at,omitempty"`
	LastDispatchID   string    `json:"last_dispatch_id,omitempty"`
	NextDailyAt      time.Time `json:"next_daily_at"`
}

// stats collects counters from both flows behind one mutex. It is
// observability state only; the dispatch decision never reads it.
type stats struct {
	mu        sync.Mutex
	startedAt time.Time

	framesAnalyzed   uint64
	sourceErrors     uint64
	modelResets      uint64
	motionEvents     uint64
	dispatchAttempts uint64
	dispatchFailures uint64

	lastMotionAt   time.Time
	lastMotionArea float64
	lastDispatchAt time.Time
	lastDispatchID string
}

func newStats() *stats {
	return &stats{startedAt: time.Now()}
}

func (s *stats) recordFrame() {
	s.mu.Lock()
	s.framesAnalyzed++
	s.mu.Unlock()
}

func (s *stats) recordSourceError() {
	s.mu.Lock()
	s.sourceErrors++
	s.mu.Unlock()
}

func (s *stats) recordModelReset() {
	s.mu.Lock()
	s.modelResets++
	s.mu.Unlock()
}

func (s *stats) recordMotion(area float64, at time.Time) {
	s.mu.Lock()
	s.motionEvents++
	s.lastMotionAt = at
	s.lastMotionArea = area
	s.mu.Unlock()
}

func (s *stats) recordDispatch(id string, at time.Time, failed bool) {
	s.mu.Lock()
	s.dispatchAttempts++
	if failed {
		s.dispatchFailures++
	}
	s.lastDispatchAt = at
	s.lastDispatchID = id
	s.mu.Unlock()
}

func (s *stats) snapshot(nextDaily time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		StartedAt:        s.startedAt,
		FramesAnalyzed:   s.framesAnalyzed,
		SourceErrors:     s.sourceErrors,
		ModelResets:      s.modelResets,
		MotionEvents:     s.motionEvents,
		DispatchAttempts: s.dispatchAttempts,
		DispatchFailures: s.dispatchFailures,
		LastMotionAt:     s.lastMotionAt,
		LastMotionArea:   s.lastMotionArea,
		LastDispatchAt:   s.lastDispatchAt,
		LastDispatchID:   s.lastDispatchID,
		NextDailyAt:      nextDaily,
	}
}
