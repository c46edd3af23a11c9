package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpireFunc is invoked when a scheduled countdown fires. The turn index it
// carries lets the engine drop expiries that lost the race with a submission.
type ExpireFunc func(ctx context.Context, sessionID string, turnIndex int)

// TimerScheduler keeps at most one pending time.AfterFunc per session.
// Schedule replaces any earlier countdown for the session; Cancel drops it.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	expire ExpireFunc
	logger *slog.Logger
}

func NewTimerScheduler(logger *slog.Logger) *TimerScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		logger: logger,
	}
}

// SetExpireFunc wires the callback after construction; the scheduler and the
// expire use case reference each other.
func (s *TimerScheduler) SetExpireFunc(expire ExpireFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire = expire
}

func (s *TimerScheduler) Schedule(sessionID string, turnIndex int, fireIn time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.timers[sessionID]; exists {
		existing.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(fireIn, func() {
		s.mu.Lock()
		delete(s.timers, sessionID)
		expire := s.expire
		s.mu.Unlock()

		if expire == nil {
			s.logger.Warn("turn countdown fired with no expire callback",
				"event", "session_countdown_unhandled",
				"module", "story-core/session-engine",
				"layer", "adapter",
				"session_id", sessionID,
			)
			return
		}
		expire(context.Background(), sessionID, turnIndex)
	})
}

func (s *TimerScheduler) Cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.timers[sessionID]; exists {
		existing.Stop()
		delete(s.timers, sessionID)
	}
}
