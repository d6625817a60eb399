package filter

import (
	"strconv"
	"strings"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/plan"
)

// Context is the optional environment a query runs in: the summer grid
// for week matching, the profile for the work-schedule stage, and the
// user location for distance sorting.
type Context struct {
	Weeks   []calendar.Week
	Profile *plan.Profile
}

// Apply runs the filter pipeline over the catalog and sorts the
// survivors. It is a pure function; the input slice is never mutated.
func Apply(camps []catalog.Camp, spec Spec, ctx *Context) []catalog.Camp {
	out := make([]catalog.Camp, 0, len(camps))
	for _, c := range camps {
		if keep(c, spec, ctx) {
			out = append(out, c)
		}
	}
	sortCamps(out, spec, ctx)
	return out
}

func keep(c catalog.Camp, spec Spec, ctx *Context) bool {
	// 1. Substring on name and category.
	if q := strings.ToLower(strings.TrimSpace(spec.Query)); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Category), q) {
			return false
		}
	}

	// 2. Category OR.
	if len(spec.Categories) > 0 {
		match := false
		for _, cat := range spec.Categories {
			if strings.EqualFold(cat, c.Category) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	// 3. Age.
	if spec.ChildAge != "" {
		age, err := strconv.Atoi(spec.ChildAge)
		if err != nil || !c.FitsAge(age) {
			return false
		}
	}

	// 4. Price. Camps without a price are retained only while the range
	// is at the full default; a narrowed range drops them.
	if !c.HasPrice() {
		if !spec.defaultPriceRange() {
			return false
		}
	} else if *c.MinPrice < spec.PriceMin || *c.MinPrice > spec.PriceMax {
		return false
	}

	// 5. Week availability. Absent session data is retained.
	if len(spec.SelectedWeeks) > 0 && !touchesSelectedWeeks(c, spec.SelectedWeeks, ctx) {
		return false
	}

	// 6. Openings. Unknown status is retained.
	if spec.HasOpenings && !hasOpenings(c) {
		return false
	}

	// 7. Feature booleans, strict AND.
	if spec.ExtendedCare && !c.Features.ExtendedCare {
		return false
	}
	if spec.FoodIncluded && !c.Features.FoodIncluded {
		return false
	}
	if spec.Transport && !c.Features.Transport {
		return false
	}
	if spec.SiblingDiscount && !c.Features.SiblingDiscount {
		return false
	}

	// 8. Work-schedule match: needs a profile and a parsed span of at
	// least six hours.
	if spec.MatchWork {
		if ctx == nil || ctx.Profile == nil {
			return true
		}
		if catalog.HoursSpan(c.Hours) < 6 {
			return false
		}
	}

	return true
}

// touchesSelectedWeeks reports whether any declared session overlaps any
// selected week of the grid.
func touchesSelectedWeeks(c catalog.Camp, selected []string, ctx *Context) bool {
	if c.Extracted == nil || len(c.Extracted.Sessions) == 0 {
		return true // no session data, keep
	}
	if ctx == nil || len(ctx.Weeks) == 0 {
		return true
	}

	wanted := make(map[int]bool, len(selected))
	for _, s := range selected {
		if n, err := strconv.Atoi(s); err == nil {
			wanted[n] = true
		}
	}
	if len(wanted) == 0 {
		return true
	}

	for _, session := range c.Extracted.Sessions {
		for _, w := range ctx.Weeks {
			if !wanted[w.Num] {
				continue
			}
			if session.StartDate <= w.EndDate && w.StartDate <= session.EndDate {
				return true
			}
		}
	}
	return false
}

// hasOpenings reads the registration status and structured availability.
// Unknown means open from the planner's point of view.
func hasOpenings(c catalog.Camp) bool {
	status := strings.ToLower(c.RegStatus)
	if c.Extracted != nil && c.Extracted.Availability != "" {
		status = strings.ToLower(c.Extracted.Availability)
	}
	if status == "" {
		return true
	}
	for _, closed := range []string{"closed", "full", "sold out", "waitlist"} {
		if strings.Contains(status, closed) {
			return false
		}
	}
	return true
}
