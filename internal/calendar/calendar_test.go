package calendar

import (
	"testing"
	"time"
)

func TestSummerWeeks(t *testing.T) {
	weeks, err := SummerWeeks("2026-06-05")
	if err != nil {
		t.Fatalf("SummerWeeks failed: %v", err)
	}

	if len(weeks) != WeekCount {
		t.Fatalf("Expected %d weeks, got %d", WeekCount, len(weeks))
	}

	t.Run("FirstWeekStartsFirstMonday", func(t *testing.T) {
		if weeks[0].StartDate != "2026-06-08" {
			t.Errorf("Expected week 1 to start 2026-06-08, got %s", weeks[0].StartDate)
		}
		if weeks[0].EndDate != "2026-06-12" {
			t.Errorf("Expected week 1 to end 2026-06-12, got %s", weeks[0].EndDate)
		}
	})

	t.Run("LastWeekEnds", func(t *testing.T) {
		if weeks[10].EndDate != "2026-08-21" {
			t.Errorf("Expected week 11 to end 2026-08-21, got %s", weeks[10].EndDate)
		}
	})

	t.Run("MondayToFridayConsecutive", func(t *testing.T) {
		for i, w := range weeks {
			start, err := ParseDate(w.StartDate)
			if err != nil {
				t.Fatalf("Week %d has invalid start: %v", w.Num, err)
			}
			end, err := ParseDate(w.EndDate)
			if err != nil {
				t.Fatalf("Week %d has invalid end: %v", w.Num, err)
			}
			if start.Weekday() != time.Monday {
				t.Errorf("Week %d starts on %s, expected Monday", w.Num, start.Weekday())
			}
			if end.Weekday() != time.Friday {
				t.Errorf("Week %d ends on %s, expected Friday", w.Num, end.Weekday())
			}
			if w.Num != i+1 {
				t.Errorf("Expected week number %d, got %d", i+1, w.Num)
			}
			if i > 0 {
				prevEnd, _ := ParseDate(weeks[i-1].EndDate)
				// Friday to the next Monday is a 3-day jump.
				if gap := start.Sub(prevEnd).Hours() / 24; gap != 3 {
					t.Errorf("Expected 3-day gap between week %d and %d, got %.0f", i, i+1, gap)
				}
			}
		}
	})

	t.Run("LabelsAndDisplay", func(t *testing.T) {
		if weeks[0].Label != "Week 1" {
			t.Errorf("Expected label 'Week 1', got '%s'", weeks[0].Label)
		}
		if weeks[0].Display != "Jun 8 – Jun 12" {
			t.Errorf("Unexpected display '%s'", weeks[0].Display)
		}
	})
}

func TestSummerWeeksNonFridaySchoolEnd(t *testing.T) {
	// A Saturday school end still snaps week 1 to the following Monday.
	weeks, err := SummerWeeks("2026-06-06")
	if err != nil {
		t.Fatalf("SummerWeeks failed: %v", err)
	}
	if weeks[0].StartDate != "2026-06-08" {
		t.Errorf("Expected week 1 to start 2026-06-08, got %s", weeks[0].StartDate)
	}
}

func TestSummerWeeksInvalidDate(t *testing.T) {
	if _, err := SummerWeeks("not-a-date"); err == nil {
		t.Fatal("Expected an error for invalid school end date, got nil")
	}
}

func TestWeekOf(t *testing.T) {
	weeks, _ := SummerWeeks("2026-06-05")

	t.Run("InsideWeek", func(t *testing.T) {
		w := WeekOf(weeks, "2026-06-10")
		if w == nil {
			t.Fatal("Expected a week for 2026-06-10, got nil")
		}
		if w.Num != 1 {
			t.Errorf("Expected week 1, got week %d", w.Num)
		}
	})

	t.Run("WeekendGap", func(t *testing.T) {
		if w := WeekOf(weeks, "2026-06-13"); w != nil {
			t.Errorf("Expected nil for a Saturday, got week %d", w.Num)
		}
	})

	t.Run("OutsideGrid", func(t *testing.T) {
		if w := WeekOf(weeks, "2026-09-01"); w != nil {
			t.Errorf("Expected nil outside the grid, got week %d", w.Num)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if w := WeekOf(weeks, "June 10th"); w != nil {
			t.Errorf("Expected nil for malformed date, got week %d", w.Num)
		}
	})
}

func TestCovers(t *testing.T) {
	weeks, _ := SummerWeeks("2026-06-05")

	if !Covers(weeks[0], "2026-06-08") {
		t.Error("Expected Monday start to cover week 1")
	}
	if !Covers(weeks[0], "2026-06-12") {
		t.Error("Expected Friday start to cover week 1")
	}
	if Covers(weeks[0], "2026-06-15") {
		t.Error("Expected week 2 Monday not to cover week 1")
	}
}
