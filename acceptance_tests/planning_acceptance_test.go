package acceptance_tests

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/coverage"
	"camp-planner/internal/database"
	"camp-planner/internal/export"
	"camp-planner/internal/filter"
	"camp-planner/internal/plan"
	"camp-planner/internal/store"
)

func price(v float64) *float64 { return &v }

// newPlanningState wires a real SQLite adapter behind fresh planning
// state, the way the client does at session start.
func newPlanningState(t *testing.T) *plan.State {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	state := plan.NewState(store.NewSQLiteAdapter(db.SQL), "user-1")
	if err := state.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}
	weeks, err := calendar.SummerWeeks("")
	if err != nil {
		t.Fatalf("SummerWeeks failed: %v", err)
	}
	state.SetWeeks(weeks)
	return state
}

func TestDefaultSummerGrid(t *testing.T) {
	weeks, err := calendar.SummerWeeks("")
	if err != nil {
		t.Fatalf("SummerWeeks failed: %v", err)
	}
	if len(weeks) != 11 {
		t.Fatalf("Expected 11 weeks, got %d", len(weeks))
	}
	if weeks[0].StartDate != "2026-06-08" {
		t.Errorf("Expected week 1 to start 2026-06-08, got %s", weeks[0].StartDate)
	}
	if weeks[10].EndDate != "2026-08-21" {
		t.Errorf("Expected week 11 to end 2026-08-21, got %s", weeks[10].EndDate)
	}
}

func TestPlanToCalendarExport(t *testing.T) {
	state := newPlanningState(t)
	ctx := context.Background()

	if err := state.AddChild(ctx, plan.Child{Name: "Mia", Color: "#ff0000", Age: 8}); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	child := state.Children[0]

	if err := state.AddPlacement(ctx, plan.Placement{
		ChildID: child.ID, CampID: "art-studio",
		StartDate: "2026-06-08", EndDate: "2026-06-12",
		Price: price(295), Status: plan.StatusPlanned,
	}); err != nil {
		t.Fatalf("AddPlacement failed: %v", err)
	}

	camp := &catalog.Camp{
		ID: "art-studio", Name: "Art Studio Camp",
		Hours: "9am-3pm", Address: "123 Main St",
	}
	ev := export.BuildEvent(state.Placements[0], camp, child.Name)

	// Parsed daily hours make it a timed event.
	gcal, err := url.Parse(export.GoogleCalendarURL(ev))
	if err != nil {
		t.Fatalf("Invalid Google Calendar URL: %v", err)
	}
	if got := gcal.Query().Get("dates"); got != "20260608T090000/20260612T150000" {
		t.Errorf("Unexpected dates parameter %q", got)
	}

	// Without the camp's hours the event is all-day with an exclusive end.
	allDay := export.BuildEvent(state.Placements[0], nil, "")
	gcal, _ = url.Parse(export.GoogleCalendarURL(allDay))
	if got := gcal.Query().Get("dates"); got != "20260608/20260613" {
		t.Errorf("Unexpected all-day dates parameter %q", got)
	}

	ics := export.ICal([]export.Event{ev}, time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC))
	if !strings.Contains(ics, "SUMMARY:Art Studio Camp (Mia)\r\n") {
		t.Errorf("Missing summary in iCal output:\n%s", ics)
	}
	if !strings.Contains(ics, "DTSTART:20260608T090000\r\n") {
		t.Error("Missing timed DTSTART in iCal output")
	}
}

func TestFilterPipelineNarrowsCatalog(t *testing.T) {
	camps := []catalog.Camp{
		{ID: "art-studio", Name: "Art Studio", Category: "Art", MinAge: 5, MaxAge: 12, MinPrice: price(250), MaxPrice: price(250)},
		{ID: "pricey-art", Name: "Pricey Art", Category: "Art", MinAge: 5, MaxAge: 12, MinPrice: price(600), MaxPrice: price(600)},
		{ID: "teen-art", Name: "Teen Art", Category: "Art", MinAge: 13, MaxAge: 17, MinPrice: price(200), MaxPrice: price(200)},
		{ID: "surf-camp", Name: "Surf Camp", Category: "Beach", MinAge: 6, MaxAge: 14, MinPrice: price(200), MaxPrice: price(200)},
	}

	spec := filter.DefaultSpec()
	spec.Categories = []string{"Art"}
	spec.ChildAge = "8"
	spec.PriceMin = 0
	spec.PriceMax = 300

	weeks, _ := calendar.SummerWeeks("")
	got := filter.Apply(camps, spec, &filter.Context{Weeks: weeks})
	if len(got) != 1 || got[0].ID != "art-studio" {
		t.Fatalf("Expected [art-studio], got %+v", got)
	}

	// The filter survives a deep-link round trip unchanged in effect.
	decoded := filter.Decode(filter.Encode(spec))
	again := filter.Apply(camps, decoded, &filter.Context{Weeks: weeks})
	if len(again) != 1 || again[0].ID != "art-studio" {
		t.Errorf("Decoded spec filtered differently: %+v", again)
	}
}

func TestPreviewCommitPartialFailure(t *testing.T) {
	state := newPlanningState(t)
	ctx := context.Background()

	if err := state.AddChild(ctx, plan.Child{Name: "Mia", Color: "#ff0000", Age: 8}); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	child := state.Children[0]

	state.EnterPreview()
	if _, err := state.AddPreview(plan.Placement{
		ChildID: child.ID, CampID: "art-studio",
		StartDate: "2026-06-08", EndDate: "2026-06-12",
		Price: price(295), Status: plan.StatusTentative,
	}); err != nil {
		t.Fatalf("AddPreview failed: %v", err)
	}
	// Second preview overlaps the first, so its commit must fail.
	if _, err := state.AddPreview(plan.Placement{
		ChildID: child.ID, CampID: "robot-lab",
		StartDate: "2026-06-10", EndDate: "2026-06-15",
		Price: price(400), Status: plan.StatusTentative,
	}); err != nil {
		t.Fatalf("AddPreview failed: %v", err)
	}

	result, err := state.CommitPreviews(ctx)
	if err != nil {
		t.Fatalf("CommitPreviews failed: %v", err)
	}
	if result.Added != 1 || result.Failed != 1 {
		t.Fatalf("Expected 1 added and 1 failed, got %+v", result)
	}
	if result.Message != "Added 1 camp. 1 failed" {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if state.PreviewMode() || len(state.Previews()) != 0 {
		t.Error("Preview overlay must be cleared after commit")
	}
	if len(state.Placements) != 1 || state.Placements[0].Status != plan.StatusPlanned {
		t.Errorf("Expected one planned placement, got %+v", state.Placements)
	}
}

func TestCoverageReactsToBlocksAndPlacements(t *testing.T) {
	state := newPlanningState(t)
	ctx := context.Background()

	if err := state.AddChild(ctx, plan.Child{Name: "Mia", Color: "#ff0000", Age: 8}); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	child := state.Children[0]
	weeks := state.Weeks()

	if err := state.AddPlacement(ctx, plan.Placement{
		ChildID: child.ID, CampID: "art-studio",
		StartDate: weeks[0].StartDate, EndDate: weeks[0].EndDate,
		Status: plan.StatusPlanned,
	}); err != nil {
		t.Fatalf("AddPlacement failed: %v", err)
	}

	res := coverage.Analyze(child.ID, weeks, state.Placements, state.Blocks)
	if len(res.Gaps) != 10 || res.Gaps[0].Num != 2 {
		t.Fatalf("Expected gaps 2..11, got %+v", res.Gaps)
	}

	// Blocking week 2 removes it from the gaps without covering it.
	if err := state.SetWeekBlock(ctx, plan.WeekBlock{ChildID: child.ID, WeekNum: 2, Kind: plan.BlockVacation}); err != nil {
		t.Fatalf("SetWeekBlock failed: %v", err)
	}
	res = coverage.Analyze(child.ID, weeks, state.Placements, state.Blocks)
	if len(res.Gaps) != 9 || res.Gaps[0].Num != 3 {
		t.Fatalf("Expected gaps 3..11, got %d gaps", len(res.Gaps))
	}
	if len(res.CoveredWeeks) != 1 || len(res.BlockedWeeks) != 1 {
		t.Errorf("Expected 1 covered and 1 blocked week, got %d/%d",
			len(res.CoveredWeeks), len(res.BlockedWeeks))
	}

	// The week with a block refuses placements, both directions of the
	// exclusivity rule.
	err := state.AddPlacement(ctx, plan.Placement{
		ChildID: child.ID, CampID: "robot-lab",
		StartDate: weeks[1].StartDate, EndDate: weeks[1].EndDate,
		Status: plan.StatusPlanned,
	})
	if err == nil {
		t.Error("Expected placement into a blocked week to fail")
	}
}

func TestConflictSurfacesClassifiedError(t *testing.T) {
	state := newPlanningState(t)
	ctx := context.Background()

	if err := state.AddChild(ctx, plan.Child{Name: "Mia", Color: "#ff0000", Age: 8}); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	child := state.Children[0]

	if err := state.AddPlacement(ctx, plan.Placement{
		ChildID: child.ID, CampID: "art-studio",
		StartDate: "2026-06-08", EndDate: "2026-06-12",
		Status: plan.StatusPlanned,
	}); err != nil {
		t.Fatalf("AddPlacement failed: %v", err)
	}

	err := state.AddPlacement(ctx, plan.Placement{
		ChildID: child.ID, CampID: "robot-lab",
		StartDate: "2026-06-10", EndDate: "2026-06-16",
		Status: plan.StatusPlanned,
	})
	if err == nil {
		t.Fatal("Expected overlap to be rejected")
	}
	ce := store.Classify(err)
	if ce.Code != store.CodeConflict {
		t.Errorf("Expected SCHEDULE_CONFLICT, got %s", ce.Code)
	}
	if ce.Message != "This child already has a camp scheduled for those dates." {
		t.Errorf("Unexpected user message %q", ce.Message)
	}
}
