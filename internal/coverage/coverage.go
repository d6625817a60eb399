// Package coverage derives per-child schedule status from planning
// state: gap weeks, coverage totals, date-range conflicts, and the
// dashboard aggregation. Everything here is a pure function of its
// inputs.
package coverage

import (
	"camp-planner/internal/calendar"
	"camp-planner/internal/plan"
)

// Result is the per-child coverage analysis.
type Result struct {
	Gaps            []calendar.Week
	CoveredWeeks    []calendar.Week
	BlockedWeeks    []calendar.Week
	CoveragePercent float64
	TotalCost       float64
	Conflicts       []Conflict
}

// Conflict is a pair of placements for the same child with overlapping
// date ranges.
type Conflict struct {
	A plan.Placement
	B plan.Placement
}

// Analyze computes coverage for one child over the summer grid. Pass the
// composed display placements to include a preview overlay. A block
// suppresses the gap classification for its week but does not count as
// covered.
func Analyze(childID string, weeks []calendar.Week, placements []plan.Placement, blocks []plan.WeekBlock) Result {
	var res Result

	blocked := make(map[int]bool)
	for _, b := range blocks {
		if b.ChildID == childID {
			blocked[b.WeekNum] = true
		}
	}

	var own []plan.Placement
	for _, p := range placements {
		if p.ChildID == childID && p.Active() {
			own = append(own, p)
		}
	}

	for _, w := range weeks {
		covered := false
		for _, p := range own {
			if calendar.Covers(w, p.StartDate) {
				covered = true
				break
			}
		}
		switch {
		case covered:
			res.CoveredWeeks = append(res.CoveredWeeks, w)
		case blocked[w.Num]:
			res.BlockedWeeks = append(res.BlockedWeeks, w)
		default:
			res.Gaps = append(res.Gaps, w)
		}
	}

	if len(weeks) > 0 {
		res.CoveragePercent = float64(len(res.CoveredWeeks)) / float64(len(weeks)) * 100
	}

	for _, p := range own {
		if p.Price != nil {
			res.TotalCost += *p.Price
		}
	}

	for i := 0; i < len(own); i++ {
		for j := i + 1; j < len(own); j++ {
			if overlaps(own[i], own[j]) {
				res.Conflicts = append(res.Conflicts, Conflict{A: own[i], B: own[j]})
			}
		}
	}

	return res
}

// overlaps reports whether two date ranges intersect. ISO date strings
// order lexicographically, so plain string comparison is safe.
func overlaps(a, b plan.Placement) bool {
	return a.StartDate <= b.EndDate && b.StartDate <= a.EndDate
}

// TotalCost sums non-cancelled placement prices across all children.
// Missing prices count as zero.
func TotalCost(placements []plan.Placement) float64 {
	var total float64
	for _, p := range placements {
		if p.Active() && p.Price != nil {
			total += *p.Price
		}
	}
	return total
}

// Summary is the family-wide dashboard aggregation.
type Summary struct {
	TotalScheduled int     `json:"total_scheduled"`
	TotalCost      float64 `json:"total_cost"`
	WeeksWithCamps int     `json:"weeks_with_camps"`
	FavoritesCount int     `json:"favorites_count"`
	ChildrenCount  int     `json:"children_count"`
}

// Dashboard rolls all children up into one summary.
func Dashboard(children []plan.Child, placements []plan.Placement, favorites []plan.Favorite, weeks []calendar.Week) Summary {
	sum := Summary{
		FavoritesCount: len(favorites),
		ChildrenCount:  len(children),
		TotalCost:      TotalCost(placements),
	}

	weeksWith := make(map[int]bool)
	for _, p := range placements {
		if !p.Active() {
			continue
		}
		sum.TotalScheduled++
		if w := calendar.WeekOf(weeks, p.StartDate); w != nil {
			weeksWith[w.Num] = true
		}
	}
	sum.WeeksWithCamps = len(weeksWith)
	return sum
}
