package achievements

import (
	"testing"
	"time"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, error) {
	return m.data[key], nil
}

func (m *memKV) Put(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateUnlocksOnce(t *testing.T) {
	engine := NewEngine(newMemKV())
	stats := Stats{Scheduled: 1, Now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)}

	fresh, err := engine.Evaluate(stats)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != "first_camp" {
		t.Fatalf("Expected first_camp unlock, got %v", fresh)
	}

	// Same state again must not re-emit.
	fresh, err = engine.Evaluate(stats)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("Expected no new unlocks, got %v", fresh)
	}
}

func TestEvaluateMonotonicAfterRegression(t *testing.T) {
	engine := NewEngine(newMemKV())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)

	if _, err := engine.Evaluate(Stats{Scheduled: 2, CoveredWeeks: 2, Now: now}); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// Deleting the placements does not revoke earlier unlocks.
	fresh, err := engine.Evaluate(Stats{Scheduled: 0, Now: now})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("Expected no unlocks after regression, got %v", fresh)
	}
	unlocked, err := engine.Unlocked()
	if err != nil {
		t.Fatalf("Unlocked failed: %v", err)
	}
	if !unlocked["first_camp"] || !unlocked["week_covered"] {
		t.Errorf("Expected earlier unlocks retained, got %v", unlocked)
	}
}

func TestFullSummerIsLegendary(t *testing.T) {
	engine := NewEngine(newMemKV())
	stats := Stats{
		Scheduled:       11,
		CoveredWeeks:    11,
		CoveragePercent: 100,
		Now:             time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local),
	}
	fresh, err := engine.Evaluate(stats)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	var full *Achievement
	for i := range fresh {
		if fresh[i].ID == "full_summer" {
			full = &fresh[i]
		}
	}
	if full == nil {
		t.Fatal("Expected full_summer to unlock")
	}
	if !full.Legendary || full.Celebration != CelebrationLegendary {
		t.Errorf("Expected legendary celebration, got %+v", full)
	}
}

func TestEarlyBirdCutoff(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		expect bool
	}{
		{"before cutoff", time.Date(2026, 2, 15, 10, 0, 0, 0, time.Local), true},
		{"on cutoff", time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local), false},
		{"after cutoff", time.Date(2026, 4, 1, 10, 0, 0, 0, time.Local), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(newMemKV())
			fresh, err := engine.Evaluate(Stats{Scheduled: 1, Now: tt.now})
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			got := false
			for _, a := range fresh {
				if a.ID == "early_bird" {
					got = true
				}
			}
			if got != tt.expect {
				t.Errorf("early_bird unlock = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestBudgetProNeedsBudgetAndCoverage(t *testing.T) {
	engine := NewEngine(newMemKV())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)

	fresh, _ := engine.Evaluate(Stats{Scheduled: 3, CoveragePercent: 55, TotalCost: 900, Budget: floatPtr(800), Now: now})
	for _, a := range fresh {
		if a.ID == "budget_pro" {
			t.Error("budget_pro unlocked while over budget")
		}
	}

	fresh, _ = engine.Evaluate(Stats{Scheduled: 3, CoveragePercent: 55, TotalCost: 700, Budget: floatPtr(800), Now: now})
	found := false
	for _, a := range fresh {
		if a.ID == "budget_pro" {
			found = true
		}
	}
	if !found {
		t.Error("Expected budget_pro to unlock under budget at 55% coverage")
	}
}

func TestRecordVisitStreak(t *testing.T) {
	engine := NewEngine(newMemKV())
	day1 := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)

	streak, err := engine.RecordVisit(day1)
	if err != nil {
		t.Fatalf("RecordVisit failed: %v", err)
	}
	if streak != 1 {
		t.Errorf("Expected streak 1, got %d", streak)
	}

	// Same day again is a no-op.
	streak, _ = engine.RecordVisit(day1.Add(5 * time.Hour))
	if streak != 1 {
		t.Errorf("Expected streak 1 after same-day visit, got %d", streak)
	}

	// Next day extends.
	streak, _ = engine.RecordVisit(day1.AddDate(0, 0, 1))
	if streak != 2 {
		t.Errorf("Expected streak 2, got %d", streak)
	}
	streak, _ = engine.RecordVisit(day1.AddDate(0, 0, 2))
	if streak != 3 {
		t.Errorf("Expected streak 3, got %d", streak)
	}

	// A gap resets to a fresh streak of one.
	streak, _ = engine.RecordVisit(day1.AddDate(0, 0, 5))
	if streak != 1 {
		t.Errorf("Expected streak reset to 1 after gap, got %d", streak)
	}
}

func TestStreakAchievements(t *testing.T) {
	engine := NewEngine(newMemKV())
	fresh, err := engine.Evaluate(Stats{Streak: 3, Now: time.Date(2026, 6, 4, 9, 0, 0, 0, time.Local)})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != "streak_3" {
		t.Fatalf("Expected streak_3, got %v", fresh)
	}

	fresh, _ = engine.Evaluate(Stats{Streak: 7, Now: time.Date(2026, 6, 8, 9, 0, 0, 0, time.Local)})
	if len(fresh) != 1 || fresh[0].ID != "streak_7" {
		t.Errorf("Expected streak_7, got %v", fresh)
	}
}

func TestDetailViewCounter(t *testing.T) {
	engine := NewEngine(newMemKV())
	for i := 1; i <= 10; i++ {
		count, err := engine.RecordDetailView()
		if err != nil {
			t.Fatalf("RecordDetailView failed: %v", err)
		}
		if count != i {
			t.Fatalf("Expected count %d, got %d", i, count)
		}
	}

	fresh, _ := engine.Evaluate(Stats{DetailViews: engine.DetailViews(), Now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)})
	found := false
	for _, a := range fresh {
		if a.ID == "explorer" {
			found = true
		}
	}
	if !found {
		t.Error("Expected explorer to unlock at 10 views")
	}
}

func TestTipsVisibilityAndDismiss(t *testing.T) {
	engine := NewEngine(newMemKV())
	stats := Stats{Scheduled: 0, Favorites: 0}

	visible, err := engine.Tips(stats)
	if err != nil {
		t.Fatalf("Tips failed: %v", err)
	}
	if len(visible) == 0 {
		t.Fatal("Expected applicable tips for an empty plan")
	}
	if visible[0].ID != "tip_first_camp" {
		t.Errorf("Expected tip_first_camp first, got %s", visible[0].ID)
	}

	if err := engine.DismissTip("tip_first_camp"); err != nil {
		t.Fatalf("DismissTip failed: %v", err)
	}
	visible, _ = engine.Tips(stats)
	for _, tip := range visible {
		if tip.ID == "tip_first_camp" {
			t.Error("Dismissed tip still visible")
		}
	}
}

func TestNextTipCycles(t *testing.T) {
	engine := NewEngine(newMemKV())
	stats := Stats{Scheduled: 0, Favorites: 0}

	visible, _ := engine.Tips(stats)
	if len(visible) < 2 {
		t.Fatalf("Need at least two visible tips, got %d", len(visible))
	}

	first, err := engine.NextTip(stats)
	if err != nil || first == nil {
		t.Fatalf("NextTip failed: %v", err)
	}
	second, _ := engine.NextTip(stats)
	if second == nil || second.ID == first.ID {
		t.Errorf("Expected cursor to advance, got %v then %v", first, second)
	}

	// Cursor wraps around.
	for i := 0; i < len(visible)-2; i++ {
		engine.NextTip(stats)
	}
	wrapped, _ := engine.NextTip(stats)
	if wrapped == nil || wrapped.ID != first.ID {
		t.Errorf("Expected wrap to %s, got %v", first.ID, wrapped)
	}
}

func TestNextTipNilWhenAllDismissed(t *testing.T) {
	engine := NewEngine(newMemKV())
	stats := Stats{Scheduled: 0, Favorites: 0}

	visible, _ := engine.Tips(stats)
	for _, tip := range visible {
		if err := engine.DismissTip(tip.ID); err != nil {
			t.Fatalf("DismissTip failed: %v", err)
		}
	}
	tip, err := engine.NextTip(stats)
	if err != nil {
		t.Fatalf("NextTip failed: %v", err)
	}
	if tip != nil {
		t.Errorf("Expected nil tip, got %v", tip)
	}
}
