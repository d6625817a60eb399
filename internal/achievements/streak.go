package achievements

import (
	"fmt"
	"time"
)

// RecordVisit updates the consecutive-day visit streak for a visit at
// now and returns the current streak length. Same-day repeat visits
// leave the streak unchanged; a visit the day after the last recorded
// one extends it; any longer gap starts a new streak of one.
func (e *Engine) RecordVisit(now time.Time) (int, error) {
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	last, err := e.kv.Get(keyLastVisit)
	if err != nil {
		return 0, fmt.Errorf("failed to read last visit: %w", err)
	}

	streak := 1
	switch last {
	case today:
		return e.Streak(), nil
	case yesterday:
		streak = e.Streak() + 1
	}

	if err := e.kv.Put(keyStreak, fmt.Sprintf("%d", streak)); err != nil {
		return 0, fmt.Errorf("failed to persist streak: %w", err)
	}
	if err := e.kv.Put(keyLastVisit, today); err != nil {
		return 0, fmt.Errorf("failed to persist last visit: %w", err)
	}
	return streak, nil
}

// Streak reads the persisted streak length.
func (e *Engine) Streak() int {
	raw, err := e.kv.Get(keyStreak)
	if err != nil {
		return 0
	}
	return parseIntOr(raw, 0)
}
