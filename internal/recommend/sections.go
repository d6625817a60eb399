package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/coverage"
	"camp-planner/internal/plan"
)

// SimilarCamps returns the nearest k camps to a seed, judged by shared
// category and age-range overlap. The seed itself is never included.
func SimilarCamps(seed catalog.Camp, store *catalog.Store, k int) []catalog.Camp {
	type scored struct {
		camp  catalog.Camp
		score float64
	}
	var candidates []scored

	seedMin, seedMax := seed.AgeRange()
	for _, c := range store.All() {
		if c.ID == seed.ID {
			continue
		}
		var s float64
		if strings.EqualFold(c.Category, seed.Category) {
			s += 10
		}
		min, max := c.AgeRange()
		if overlap := overlapYears(seedMin, seedMax, min, max); overlap > 0 {
			s += float64(overlap)
		}
		if s > 0 {
			candidates = append(candidates, scored{camp: c, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return strings.ToLower(candidates[i].camp.Name) < strings.ToLower(candidates[j].camp.Name)
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	out := make([]catalog.Camp, 0, k)
	for _, s := range candidates[:k] {
		out = append(out, s.camp)
	}
	return out
}

func overlapYears(aMin, aMax, bMin, bMax int) int {
	lo, hi := aMin, aMax
	if bMin > lo {
		lo = bMin
	}
	if bMax < hi {
		hi = bMax
	}
	return hi - lo + 1
}

// GapSuggestion holds the top picks for one uncovered week of one child.
type GapSuggestion struct {
	Child plan.Child
	Week  calendar.Week
	Camps []catalog.Camp
}

// GapSuggestions proposes up to k camps per gap week per child, filtered
// to the child's age and ranked by score.
func GapSuggestions(store *catalog.Store, ctx Context, k int) []GapSuggestion {
	var out []GapSuggestion
	ranked := Rank(store.All(), ctx)

	for _, child := range ctx.Children {
		res := coverage.Analyze(child.ID, ctx.Weeks, ctx.Placements, ctx.Blocks)
		for _, gap := range res.Gaps {
			var picks []catalog.Camp
			for _, c := range ranked {
				if !c.FitsAge(childAge(child)) || !sessionTouches(c, gap) {
					continue
				}
				picks = append(picks, c)
				if len(picks) == k {
					break
				}
			}
			if len(picks) > 0 {
				out = append(out, GapSuggestion{Child: child, Week: gap, Camps: picks})
			}
		}
	}
	return out
}

// Section is one themed row of the personalized homepage.
type Section struct {
	Title string         `json:"title"`
	Camps []catalog.Camp `json:"camps"`
}

// Homepage is the personalized landing view.
type Homepage struct {
	Greeting string    `json:"greeting"`
	Sections []Section `json:"sections"`
}

const sectionSize = 6

// BuildHomepage assembles the personalized homepage from the snapshot.
// The clock is a parameter so the greeting stays a pure function.
func BuildHomepage(store *catalog.Store, ctx Context, now time.Time) Homepage {
	ranked := Rank(store.All(), ctx)

	home := Homepage{Greeting: greeting(ctx, now)}

	if len(ctx.Children) > 0 {
		home.Sections = append(home.Sections, Section{
			Title: "For your children",
			Camps: top(ranked, sectionSize),
		})
	}

	popular := make([]catalog.Camp, len(ranked))
	copy(popular, ranked)
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Popularity > popular[j].Popularity
	})
	home.Sections = append(home.Sections, Section{
		Title: "Popular nearby",
		Camps: top(popular, sectionSize),
	})

	if gaps := GapSuggestions(store, ctx, 2); len(gaps) > 0 {
		var fill []catalog.Camp
		seen := make(map[string]bool)
		for _, g := range gaps {
			for _, c := range g.Camps {
				if !seen[c.ID] {
					seen[c.ID] = true
					fill = append(fill, c)
				}
			}
		}
		home.Sections = append(home.Sections, Section{
			Title: "Fill your gaps",
			Camps: top(fill, sectionSize),
		})
	}

	if slice := budgetSlice(ctx); slice > 0 {
		var cheap []catalog.Camp
		for _, c := range ranked {
			if c.MinPrice != nil && *c.MinPrice <= slice {
				cheap = append(cheap, c)
			}
		}
		sort.SliceStable(cheap, func(i, j int) bool { return *cheap[i].MinPrice < *cheap[j].MinPrice })
		home.Sections = append(home.Sections, Section{
			Title: "Budget-friendly picks",
			Camps: top(cheap, sectionSize),
		})
	}

	return home
}

func greeting(ctx Context, now time.Time) string {
	var when string
	switch h := now.Hour(); {
	case h < 12:
		when = "Good morning"
	case h < 17:
		when = "Good afternoon"
	default:
		when = "Good evening"
	}
	if len(ctx.Children) == 0 {
		return when + "! Let's plan your summer."
	}
	names := make([]string, 0, len(ctx.Children))
	for _, c := range ctx.Children {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("%s! Let's plan the summer for %s.", when, joinNames(names))
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

func top(camps []catalog.Camp, n int) []catalog.Camp {
	if n > len(camps) {
		n = len(camps)
	}
	out := make([]catalog.Camp, n)
	copy(out, camps[:n])
	return out
}
