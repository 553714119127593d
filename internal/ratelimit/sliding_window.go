package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*SlidingWindow)(nil)

// SlidingWindow is an in-process sliding window log: it keeps the times of
// the allowed requests of every key for one window.
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	logs map[string][]time.Time
	// sweeps counts calls since idle keys were last dropped.
	sweeps int
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		logs:   make(map[string][]time.Time),
	}
}

func (s *SlidingWindow) Allow(_ context.Context, key string) (*Result, error) {
	now := s.now()
	cutoff := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(cutoff)

	log := trim(s.logs[key], cutoff)
	allowed := len(log) < s.limit
	if allowed {
		log = append(log, now)
	}
	s.logs[key] = log

	var resetAfter time.Duration
	if len(log) > 0 {
		resetAfter = log[0].Add(s.window).Sub(now)
	}
	return result(allowed, s.limit, len(log), resetAfter), nil
}

// trim drops the entries at or before cutoff. log is sorted.
func trim(log []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	return log[i:]
}

const sweepEvery = 1024

func (s *SlidingWindow) sweep(cutoff time.Time) {
	s.sweeps++
	if s.sweeps < sweepEvery {
		return
	}
	s.sweeps = 0
	for k, log := range s.logs {
		if len(trim(log, cutoff)) == 0 {
			delete(s.logs, k)
		}
	}
}
