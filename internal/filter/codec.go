package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Short-key schema for deep links. Default values are omitted from the
// encoded form, and decoding falls back to defaults field-by-field on
// anything malformed.
const (
	keyQuery    = "q"
	keyCats     = "cat"
	keyAge      = "age"
	keyPriceMin = "pmin"
	keyPriceMax = "pmax"
	keyWeeks    = "weeks"
	keyExtCare  = "ec"
	keyFood     = "food"
	keyTrans    = "trans"
	keySibling  = "sib"
	keyOpen     = "open"
	keyWork     = "work"
	keyDist     = "dist"
	keySort     = "sort"
	keyDir      = "dir"
)

// Encode serializes a spec to a query string, omitting defaults.
func Encode(s Spec) string {
	def := DefaultSpec()
	v := url.Values{}

	if s.Query != "" {
		v.Set(keyQuery, s.Query)
	}
	if len(s.Categories) > 0 {
		v.Set(keyCats, strings.Join(s.Categories, ","))
	}
	if s.ChildAge != "" {
		v.Set(keyAge, s.ChildAge)
	}
	if s.PriceMin != def.PriceMin {
		v.Set(keyPriceMin, strconv.FormatFloat(s.PriceMin, 'f', -1, 64))
	}
	if s.PriceMax != def.PriceMax {
		v.Set(keyPriceMax, strconv.FormatFloat(s.PriceMax, 'f', -1, 64))
	}
	if len(s.SelectedWeeks) > 0 {
		v.Set(keyWeeks, strings.Join(s.SelectedWeeks, ","))
	}

	setFlag := func(key string, val bool) {
		if val {
			v.Set(key, "1")
		}
	}
	setFlag(keyExtCare, s.ExtendedCare)
	setFlag(keyFood, s.FoodIncluded)
	setFlag(keyTrans, s.Transport)
	setFlag(keySibling, s.SiblingDiscount)
	setFlag(keyOpen, s.HasOpenings)
	setFlag(keyWork, s.MatchWork)
	setFlag(keyDist, s.SortByDistance)

	if s.SortBy != def.SortBy {
		v.Set(keySort, s.SortBy)
	}
	if s.SortDir != def.SortDir {
		v.Set(keyDir, s.SortDir)
	}
	return v.Encode()
}

// Decode parses a query string back into a spec. Absent or malformed
// values fall back to the default for that field alone.
func Decode(query string) Spec {
	s := DefaultSpec()
	v, err := url.ParseQuery(query)
	if err != nil {
		return s
	}

	s.Query = v.Get(keyQuery)
	if raw := v.Get(keyCats); raw != "" {
		s.Categories = splitList(raw)
	}
	if raw := v.Get(keyAge); raw != "" {
		if _, err := strconv.Atoi(raw); err == nil {
			s.ChildAge = raw
		}
	}
	if raw := v.Get(keyPriceMin); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
			s.PriceMin = f
		}
	}
	if raw := v.Get(keyPriceMax); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
			s.PriceMax = f
		}
	}
	if raw := v.Get(keyWeeks); raw != "" {
		var weeks []string
		for _, w := range splitList(raw) {
			if _, err := strconv.Atoi(w); err == nil {
				weeks = append(weeks, w)
			}
		}
		s.SelectedWeeks = weeks
	}

	s.ExtendedCare = v.Get(keyExtCare) == "1"
	s.FoodIncluded = v.Get(keyFood) == "1"
	s.Transport = v.Get(keyTrans) == "1"
	s.SiblingDiscount = v.Get(keySibling) == "1"
	s.HasOpenings = v.Get(keyOpen) == "1"
	s.MatchWork = v.Get(keyWork) == "1"
	s.SortByDistance = v.Get(keyDist) == "1"

	switch v.Get(keySort) {
	case SortByMinPrice, SortByMinAge, SortByHours:
		s.SortBy = v.Get(keySort)
	}
	if v.Get(keyDir) == "desc" {
		s.SortDir = "desc"
	}
	return s
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
