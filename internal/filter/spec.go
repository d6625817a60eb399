// Package filter applies a FilterSpec to the camp catalog and produces
// ordered results. It also owns the query-string codec that makes a
// FilterSpec deep-linkable.
package filter

// Price filter defaults. A camp without a published price survives the
// price stage only while the range sits at these defaults.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 1000
)

// Sort keys.
const (
	SortByName     = "name"
	SortByMinPrice = "min_price"
	SortByMinAge   = "min_age"
	SortByHours    = "hours"
)

// Spec is the full parameterization of a catalog query.
type Spec struct {
	Query           string   `json:"query"`
	Categories      []string `json:"categories"`
	ChildAge        string   `json:"child_age"` // single age, empty = any
	PriceMin        float64  `json:"price_min"`
	PriceMax        float64  `json:"price_max"`
	SelectedWeeks   []string `json:"selected_weeks"` // week numbers as strings
	ExtendedCare    bool     `json:"extended_care"`
	FoodIncluded    bool     `json:"food_included"`
	Transport       bool     `json:"transport"`
	SiblingDiscount bool     `json:"sibling_discount"`
	HasOpenings     bool     `json:"has_openings"`
	MatchWork       bool     `json:"match_work_schedule"`
	SortByDistance  bool     `json:"sort_by_distance"`
	SortBy          string   `json:"sort_by"`
	SortDir         string   `json:"sort_dir"`
}

// DefaultSpec returns the neutral spec that matches every camp.
func DefaultSpec() Spec {
	return Spec{
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		SortBy:   SortByName,
		SortDir:  "asc",
	}
}

// defaultPriceRange reports whether the price filter is untouched.
func (s Spec) defaultPriceRange() bool {
	return s.PriceMin == DefaultPriceMin && s.PriceMax == DefaultPriceMax
}

// ActiveFilterCount returns how many non-default fields are set,
// excluding the sort key and direction.
func (s Spec) ActiveFilterCount() int {
	n := 0
	if s.Query != "" {
		n++
	}
	if len(s.Categories) > 0 {
		n++
	}
	if s.ChildAge != "" {
		n++
	}
	if !s.defaultPriceRange() {
		n++
	}
	if len(s.SelectedWeeks) > 0 {
		n++
	}
	for _, flag := range []bool{
		s.ExtendedCare, s.FoodIncluded, s.Transport, s.SiblingDiscount,
		s.HasOpenings, s.MatchWork, s.SortByDistance,
	} {
		if flag {
			n++
		}
	}
	return n
}
