package telegram

import (
	"strings"
	"testing"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/plan"
)

func campPrice(v float64) *float64 { return &v }

func testState(t *testing.T) *plan.State {
	t.Helper()
	weeks, err := calendar.SummerWeeks("")
	if err != nil {
		t.Fatalf("SummerWeeks failed: %v", err)
	}

	state := plan.NewState(nil, "user-1")
	state.SetWeeks(weeks)
	state.Children = []plan.Child{
		{ID: "c1", Name: "Mia", Color: "#ff0000", Age: 8},
	}
	state.Placements = []plan.Placement{
		{
			ID: "p1", ChildID: "c1", CampID: "art-studio",
			StartDate: weeks[0].StartDate, EndDate: weeks[0].EndDate,
			Price: campPrice(295), Status: plan.StatusPlanned,
		},
	}
	state.Blocks = []plan.WeekBlock{
		{ChildID: "c1", WeekNum: 2, Kind: plan.BlockVacation},
	}
	return state
}

func TestFormatPlanMarkdown(t *testing.T) {
	state := testState(t)
	store := catalog.NewStore([]catalog.Camp{
		{ID: "art-studio", Name: "Art Studio Camp", Category: "Art"},
	})

	out := formatPlanMarkdown(state, store)

	if !strings.Contains(out, "🏕️ *Summer Plan*") {
		t.Error("Missing plan header")
	}
	if !strings.Contains(out, "*Week 1*") {
		t.Error("Missing week 1 line")
	}
	if !strings.Contains(out, "• Mia: Art Studio Camp _(planned)_") {
		t.Errorf("Missing placement line, got:\n%s", out)
	}
	if !strings.Contains(out, "🏖️ Mia") {
		t.Error("Missing vacation block line")
	}
	if !strings.Contains(out, "💰 *Total:* $295.00") {
		t.Error("Missing total cost")
	}
	// Empty weeks are omitted entirely.
	if strings.Contains(out, "*Week 5*") {
		t.Error("Empty week should not be listed")
	}
}

func TestFormatGapsMarkdown(t *testing.T) {
	state := testState(t)
	out := formatGapsMarkdown(state)

	if !strings.Contains(out, "📅 *Coverage Gaps*") {
		t.Error("Missing gaps header")
	}
	if !strings.Contains(out, "*Mia* — 9% covered") {
		t.Errorf("Missing coverage line, got:\n%s", out)
	}
	// Week 1 is covered and week 2 blocked, so gaps start at week 3.
	if strings.Contains(out, "• Week 1 ") || strings.Contains(out, "• Week 2 ") {
		t.Error("Covered or blocked weeks listed as gaps")
	}
	if !strings.Contains(out, "• Week 3") {
		t.Error("Missing gap week 3")
	}
}

func TestFormatRecommendationsMarkdown(t *testing.T) {
	camps := []catalog.Camp{
		{ID: "a", Name: "Alpha", Category: "Art", MinAge: 5, MaxAge: 10},
		{ID: "b", Name: "Beta", Category: "STEM", MinAge: 6, MaxAge: 12},
		{ID: "c", Name: "Gamma", Category: "Sports", MinAge: 7, MaxAge: 14},
		{ID: "d", Name: "Delta", Category: "Beach", MinAge: 5, MaxAge: 11},
		{ID: "e", Name: "Epsilon", Category: "Music", MinAge: 8, MaxAge: 13},
		{ID: "f", Name: "Zeta", Category: "Chess", MinAge: 6, MaxAge: 10},
	}

	out := formatRecommendationsMarkdown(camps)
	if !strings.Contains(out, "• *Alpha* — Art, ages 5-10") {
		t.Errorf("Missing first recommendation, got:\n%s", out)
	}
	// At most five entries.
	if strings.Contains(out, "Zeta") {
		t.Error("List should be capped at five camps")
	}

	empty := formatRecommendationsMarkdown(nil)
	if !strings.Contains(empty, "No camps in the catalog yet") {
		t.Error("Missing empty-catalog message")
	}
}

func TestHelpMessage(t *testing.T) {
	out := helpMessage()
	for _, cmd := range []string{"/plan", "/gaps", "/recommend", "/tips"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("Help missing %s", cmd)
		}
	}
}
