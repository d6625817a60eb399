// Package recommend scores catalog entries against a snapshot of the
// planning state and derives themed suggestion lists. Every function
// here is pure: no I/O, no clocks beyond the provided time.
package recommend

import (
	"sort"
	"strings"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/coverage"
	"camp-planner/internal/plan"
)

// Context is the snapshot handed to the recommender. Catalog is the
// read-only store used to resolve camp ids in placements and favorites
// back to categories.
type Context struct {
	Catalog    *catalog.Store
	Children   []plan.Child
	Placements []plan.Placement
	Favorites  []plan.Favorite
	Blocks     []plan.WeekBlock
	Profile    *plan.Profile
	Weeks      []calendar.Week
}

// Scoring weights. These are deliberate design constants; the scenario
// tests pin the resulting rankings.
const (
	weightInterestMatch = 15.0 // per child whose interests match the category
	weightAgeFit        = 10.0 // per child in the camp's age range
	weightFavoriteCat   = 8.0  // category already on the wish-list
	weightGapFit        = 12.0 // camp can fill an uncovered week
	penaltyOverBudget   = 20.0 // min price above the weekly budget slice
	penaltyRepeatCat    = 10.0 // category planned three or more times
)

// Score computes the weighted fit of one camp against the snapshot.
func Score(c catalog.Camp, ctx Context) float64 {
	var score float64

	for _, child := range ctx.Children {
		for _, interest := range child.Interests {
			if strings.EqualFold(interest, c.Category) {
				score += weightInterestMatch
				break
			}
		}
		if c.FitsAge(childAge(child)) {
			score += weightAgeFit
		}
	}

	if favoriteCategories(ctx)[strings.ToLower(c.Category)] {
		score += weightFavoriteCat
	}

	if slice := budgetSlice(ctx); slice > 0 && c.MinPrice != nil && *c.MinPrice > slice {
		score -= penaltyOverBudget
	}

	if fillsAGap(c, ctx) {
		score += weightGapFit
	}

	if categoryCounts(ctx)[strings.ToLower(c.Category)] >= 3 {
		score -= penaltyRepeatCat
	}

	score += c.Popularity
	return score
}

// Rank orders the catalog by descending score, ties broken by name.
func Rank(camps []catalog.Camp, ctx Context) []catalog.Camp {
	out := make([]catalog.Camp, len(camps))
	copy(out, camps)
	scores := make(map[string]float64, len(out))
	for _, c := range out {
		scores[c.ID] = Score(c, ctx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if scores[out[i].ID] != scores[out[j].ID] {
			return scores[out[i].ID] > scores[out[j].ID]
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// childAge resolves a child's age during the summer, preferring the
// birth date when present.
func childAge(c plan.Child) int {
	if c.BirthDate != "" {
		if born, err := calendar.ParseDate(c.BirthDate); err == nil {
			if mid, err := calendar.ParseDate("2026-07-15"); err == nil {
				age := mid.Year() - born.Year()
				if mid.YearDay() < born.YearDay() {
					age--
				}
				return age
			}
		}
	}
	return c.Age
}

// favoriteCategories collects the categories already on the wish-list,
// plus the profile's declared preferences.
func favoriteCategories(ctx Context) map[string]bool {
	out := make(map[string]bool)
	if ctx.Catalog != nil {
		for _, f := range ctx.Favorites {
			if c := ctx.Catalog.Get(f.CampID); c != nil && c.Category != "" {
				out[strings.ToLower(c.Category)] = true
			}
		}
	}
	if ctx.Profile != nil {
		for _, cat := range ctx.Profile.PreferredCategories {
			out[strings.ToLower(cat)] = true
		}
	}
	return out
}

// budgetSlice is the remaining budget divided evenly over the weeks that
// still need coverage, or 0 when no budget is set.
func budgetSlice(ctx Context) float64 {
	if ctx.Profile == nil || ctx.Profile.Budget == nil {
		return 0
	}
	remaining := *ctx.Profile.Budget - coverage.TotalCost(ctx.Placements)
	if remaining <= 0 {
		return 0.01 // any priced camp is over budget
	}

	openWeeks := 0
	for _, child := range ctx.Children {
		res := coverage.Analyze(child.ID, ctx.Weeks, ctx.Placements, ctx.Blocks)
		openWeeks += len(res.Gaps)
	}
	if openWeeks == 0 {
		return remaining
	}
	return remaining / float64(openWeeks)
}

// fillsAGap reports whether the camp could plausibly cover any gap week
// of any child: the child fits the age range and the camp either has a
// session touching the week or declares no sessions at all.
func fillsAGap(c catalog.Camp, ctx Context) bool {
	for _, child := range ctx.Children {
		if !c.FitsAge(childAge(child)) {
			continue
		}
		res := coverage.Analyze(child.ID, ctx.Weeks, ctx.Placements, ctx.Blocks)
		for _, gap := range res.Gaps {
			if sessionTouches(c, gap) {
				return true
			}
		}
	}
	return false
}

func sessionTouches(c catalog.Camp, w calendar.Week) bool {
	if c.Extracted == nil || len(c.Extracted.Sessions) == 0 {
		return true
	}
	for _, s := range c.Extracted.Sessions {
		if s.StartDate <= w.EndDate && w.StartDate <= s.EndDate {
			return true
		}
	}
	return false
}

// categoryCounts tallies how often each category already appears among
// the active placements.
func categoryCounts(ctx Context) map[string]int {
	counts := make(map[string]int)
	if ctx.Catalog == nil {
		return counts
	}
	for _, p := range ctx.Placements {
		if !p.Active() {
			continue
		}
		if c := ctx.Catalog.Get(p.CampID); c != nil && c.Category != "" {
			counts[strings.ToLower(c.Category)]++
		}
	}
	return counts
}
