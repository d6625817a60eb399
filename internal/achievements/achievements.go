// Package achievements derives unlocked achievements, visit streaks,
// and contextual tips from planning state. Unlocks are monotonic: once
// awarded they persist in the session key/value store and are never
// re-emitted.
package achievements

import (
	"encoding/json"
	"fmt"
	"time"
)

// KV is the session-local key/value store. Implementations are
// synchronous; concurrent writers from other windows resolve
// last-writer-wins.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Remove(key string) error
}

// Store keys.
const (
	keyUnlocked      = "achievements"
	keyDismissedTips = "dismissed-tips"
	keyStreak        = "streak"
	keyLastVisit     = "last-visit"
	keyViewedCount   = "viewed-count"
	keyComparedFlag  = "compared-flag"
	keyTipCursor     = "tip-cursor"
)

// Celebration kinds surfaced with a new unlock.
const (
	CelebrationAchievement = "achievement"
	CelebrationLegendary   = "legendary"
)

// Achievement is one unlockable badge.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Celebration string `json:"celebration"`
	Category    string `json:"category"`
	Legendary   bool   `json:"is_legendary,omitempty"`
}

// Stats is the snapshot of planning state the rules evaluate against.
type Stats struct {
	Scheduled              int
	CoveredWeeks           int
	CoveragePercent        float64
	ChildrenWithPlacements int
	DistinctCategories     int
	Favorites              int
	Budget                 *float64
	TotalCost              float64
	Squads                 int
	DetailViews            int
	ComparisonUsed         bool
	Streak                 int
	Now                    time.Time
}

// earlyBirdCutoff is the early-planner deadline.
var earlyBirdCutoff = time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)

type rule struct {
	achievement Achievement
	satisfied   func(Stats) bool
}

// The full rule catalog, evaluated in order on every state change.
var rules = []rule{
	{
		Achievement{ID: "first_camp", Title: "First Camp!", Description: "You scheduled your first camp.", Icon: "🏕️", Celebration: CelebrationAchievement, Category: "planning"},
		func(s Stats) bool { return s.Scheduled >= 1 },
	},
	{
		Achievement{ID: "week_covered", Title: "Week Covered", Description: "A full summer week is covered.", Icon: "📅", Celebration: CelebrationAchievement, Category: "planning"},
		func(s Stats) bool { return s.CoveredWeeks >= 1 },
	},
	{
		Achievement{ID: "half_summer", Title: "Halfway There", Description: "Half the summer is covered.", Icon: "🌗", Celebration: CelebrationAchievement, Category: "planning"},
		func(s Stats) bool { return s.CoveragePercent >= 50 },
	},
	{
		Achievement{ID: "full_summer", Title: "Summer Master", Description: "Every week of summer is covered!", Icon: "🏆", Celebration: CelebrationLegendary, Category: "planning", Legendary: true},
		func(s Stats) bool { return s.CoveragePercent >= 100 },
	},
	{
		Achievement{ID: "multi_child", Title: "Juggling Act", Description: "Camps planned for more than one child.", Icon: "🤹", Celebration: CelebrationAchievement, Category: "family"},
		func(s Stats) bool { return s.ChildrenWithPlacements >= 2 },
	},
	{
		Achievement{ID: "variety_seeker", Title: "Variety Seeker", Description: "Three different camp categories planned.", Icon: "🎨", Celebration: CelebrationAchievement, Category: "planning"},
		func(s Stats) bool { return s.DistinctCategories >= 3 },
	},
	{
		Achievement{ID: "early_bird", Title: "Early Bird", Description: "Planning before March — ahead of the rush.", Icon: "🐦", Celebration: CelebrationAchievement, Category: "planning"},
		func(s Stats) bool { return s.Scheduled >= 1 && s.Now.Before(earlyBirdCutoff) },
	},
	{
		Achievement{ID: "budget_pro", Title: "Budget Pro", Description: "Half the summer covered, under budget.", Icon: "💰", Celebration: CelebrationAchievement, Category: "budget"},
		func(s Stats) bool {
			return s.Budget != nil && s.TotalCost <= *s.Budget && s.CoveragePercent >= 50
		},
	},
	{
		Achievement{ID: "favorite_five", Title: "Collector", Description: "Five camps on the wish-list.", Icon: "⭐", Celebration: CelebrationAchievement, Category: "exploring"},
		func(s Stats) bool { return s.Favorites >= 5 },
	},
	{
		Achievement{ID: "compare_master", Title: "Compare Master", Description: "Camps compared side by side.", Icon: "⚖️", Celebration: CelebrationAchievement, Category: "exploring"},
		func(s Stats) bool { return s.ComparisonUsed },
	},
	{
		Achievement{ID: "streak_3", Title: "On a Roll", Description: "Three days of planning in a row.", Icon: "🔥", Celebration: CelebrationAchievement, Category: "habit"},
		func(s Stats) bool { return s.Streak >= 3 },
	},
	{
		Achievement{ID: "streak_7", Title: "Planning Habit", Description: "A full week of daily visits.", Icon: "🗓️", Celebration: CelebrationAchievement, Category: "habit"},
		func(s Stats) bool { return s.Streak >= 7 },
	},
	{
		Achievement{ID: "squad_joiner", Title: "Squad Up", Description: "You joined a planning squad.", Icon: "👯", Celebration: CelebrationAchievement, Category: "social"},
		func(s Stats) bool { return s.Squads >= 1 },
	},
	{
		Achievement{ID: "explorer", Title: "Explorer", Description: "Ten camp pages explored.", Icon: "🧭", Celebration: CelebrationAchievement, Category: "exploring"},
		func(s Stats) bool { return s.DetailViews >= 10 },
	},
}

// All returns the full achievement catalog.
func All() []Achievement {
	out := make([]Achievement, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.achievement)
	}
	return out
}

// Engine evaluates the rule set and persists unlocks.
type Engine struct {
	kv KV
}

// NewEngine creates an Engine over a session store.
func NewEngine(kv KV) *Engine {
	return &Engine{kv: kv}
}

// Unlocked returns the persisted set of unlocked achievement ids.
func (e *Engine) Unlocked() (map[string]bool, error) {
	raw, err := e.kv.Get(keyUnlocked)
	if err != nil {
		return nil, fmt.Errorf("failed to read unlocked achievements: %w", err)
	}
	unlocked := make(map[string]bool)
	if raw == "" {
		return unlocked, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// A corrupt store entry resets the set rather than wedging the
		// session.
		return unlocked, nil
	}
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

// Evaluate runs every rule against the stats and returns the newly
// satisfied achievements, persisting them so they are emitted only
// once.
func (e *Engine) Evaluate(stats Stats) ([]Achievement, error) {
	unlocked, err := e.Unlocked()
	if err != nil {
		return nil, err
	}

	var fresh []Achievement
	for _, r := range rules {
		if unlocked[r.achievement.ID] || !r.satisfied(stats) {
			continue
		}
		unlocked[r.achievement.ID] = true
		fresh = append(fresh, r.achievement)
	}

	if len(fresh) > 0 {
		if err := e.saveUnlocked(unlocked); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}

func (e *Engine) saveUnlocked(unlocked map[string]bool) error {
	ids := make([]string, 0, len(unlocked))
	for _, r := range rules { // stable catalog order
		if unlocked[r.achievement.ID] {
			ids = append(ids, r.achievement.ID)
		}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal unlocked achievements: %w", err)
	}
	if err := e.kv.Put(keyUnlocked, string(data)); err != nil {
		return fmt.Errorf("failed to persist unlocked achievements: %w", err)
	}
	return nil
}

// RecordDetailView bumps the camp-detail view counter and returns the
// new total.
func (e *Engine) RecordDetailView() (int, error) {
	raw, err := e.kv.Get(keyViewedCount)
	if err != nil {
		return 0, err
	}
	count := parseIntOr(raw, 0) + 1
	if err := e.kv.Put(keyViewedCount, fmt.Sprintf("%d", count)); err != nil {
		return 0, err
	}
	return count, nil
}

// DetailViews reads the persisted view counter.
func (e *Engine) DetailViews() int {
	raw, err := e.kv.Get(keyViewedCount)
	if err != nil {
		return 0
	}
	return parseIntOr(raw, 0)
}

// RecordComparisonUsed sets the compared flag.
func (e *Engine) RecordComparisonUsed() error {
	return e.kv.Put(keyComparedFlag, "1")
}

// ComparisonUsed reads the compared flag.
func (e *Engine) ComparisonUsed() bool {
	raw, err := e.kv.Get(keyComparedFlag)
	return err == nil && raw == "1"
}

func parseIntOr(raw string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return fallback
	}
	return n
}
