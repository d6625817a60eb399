package filter

import (
	"math"
	"sort"
	"strings"

	"camp-planner/internal/catalog"
)

// Fallback viewpoint for distance sorting when the profile has no home
// location: downtown Seattle.
const (
	DefaultLat = 47.6062
	DefaultLng = -122.3321
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func sortCamps(camps []catalog.Camp, spec Spec, ctx *Context) {
	if spec.SortByDistance {
		lat, lng := DefaultLat, DefaultLng
		if ctx != nil && ctx.Profile != nil && ctx.Profile.HomeLat != nil && ctx.Profile.HomeLng != nil {
			lat, lng = *ctx.Profile.HomeLat, *ctx.Profile.HomeLng
		}
		sort.SliceStable(camps, func(i, j int) bool {
			di, dj := distanceFrom(camps[i], lat, lng), distanceFrom(camps[j], lat, lng)
			if di != dj {
				return di < dj
			}
			return nameLess(camps[i], camps[j])
		})
		return
	}

	desc := strings.EqualFold(spec.SortDir, "desc")

	switch spec.SortBy {
	case SortByMinPrice:
		sort.SliceStable(camps, func(i, j int) bool {
			pi, pj := priceKey(camps[i]), priceKey(camps[j])
			if pi != pj {
				if desc {
					return pi > pj
				}
				return pi < pj
			}
			return nameLess(camps[i], camps[j])
		})
	case SortByMinAge:
		sort.SliceStable(camps, func(i, j int) bool {
			if camps[i].MinAge != camps[j].MinAge {
				if desc {
					return camps[i].MinAge > camps[j].MinAge
				}
				return camps[i].MinAge < camps[j].MinAge
			}
			return nameLess(camps[i], camps[j])
		})
	case SortByHours:
		// Hours sorting is always longest-day-first; the direction flag
		// is ignored on purpose to match the catalog UI's behavior.
		sort.SliceStable(camps, func(i, j int) bool {
			si, sj := catalog.HoursSpan(camps[i].Hours), catalog.HoursSpan(camps[j].Hours)
			if si != sj {
				return si > sj
			}
			return nameLess(camps[i], camps[j])
		})
	default:
		sort.SliceStable(camps, func(i, j int) bool {
			if desc {
				return nameLess(camps[j], camps[i])
			}
			return nameLess(camps[i], camps[j])
		})
	}
}

func nameLess(a, b catalog.Camp) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// priceKey sorts camps without a price after every priced camp.
func priceKey(c catalog.Camp) float64 {
	if c.MinPrice == nil {
		return math.MaxFloat64
	}
	return *c.MinPrice
}

// distanceFrom computes the haversine distance to the camp; camps with
// no coordinates sort last.
func distanceFrom(c catalog.Camp, lat, lng float64) float64 {
	if c.Latitude == nil || c.Longitude == nil {
		return math.MaxFloat64
	}
	return Haversine(lat, lng, *c.Latitude, *c.Longitude)
}
