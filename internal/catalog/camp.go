// Package catalog holds the immutable camp catalog: the Camp model, the
// load-once Store, and parsing of catalog-supplied fields like hours.
package catalog

import (
	"fmt"
	"regexp"
)

// Session is one declared camp session extracted from the source listing.
type Session struct {
	Label     string `json:"label,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Extracted carries structured data pulled out of a camp's listing page.
type Extracted struct {
	Sessions     []Session `json:"sessions,omitempty"`
	Availability string    `json:"availability,omitempty"`
}

// Features are the boolean attributes a camp advertises.
type Features struct {
	ExtendedCare    bool `json:"extended_care"`
	FoodIncluded    bool `json:"food_included"`
	Transport       bool `json:"transport"`
	SiblingDiscount bool `json:"sibling_discount"`
}

// Camp is a single catalog entry. Camps are immutable once loaded; a
// given ID always resolves to the same instance for the session.
type Camp struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	MinAge      int      `json:"min_age"` // 0 means no lower bound
	MaxAge      int      `json:"max_age"` // 0 means no upper bound
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	RegStatus   string   `json:"registration_status,omitempty"`
	Website     string   `json:"website,omitempty"`
	Features    Features `json:"features"`
	Popularity  float64  `json:"popularity,omitempty"`
	Extracted   *Extracted `json:"extracted,omitempty"`
	Images      []string `json:"images,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// AgeRange returns the effective bounds, substituting 0 and 100 for
// absent ones.
func (c Camp) AgeRange() (min, max int) {
	min = c.MinAge
	max = c.MaxAge
	if max == 0 {
		max = 100
	}
	return min, max
}

// AgeLabel renders the age range for display, "5-12" or "5+" when no
// upper bound is published.
func (c Camp) AgeLabel() string {
	min, max := c.AgeRange()
	if max >= 100 {
		return fmt.Sprintf("%d+", min)
	}
	return fmt.Sprintf("%d-%d", min, max)
}

// FitsAge reports whether a child of the given age falls in the camp's
// age range.
func (c Camp) FitsAge(age int) bool {
	min, max := c.AgeRange()
	return age >= min && age <= max
}

// HasPrice reports whether the camp declares any pricing.
func (c Camp) HasPrice() bool {
	return c.MinPrice != nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,198}[a-z0-9])?$`)

// ValidateID checks the catalog slug format: lowercase alphanumerics and
// hyphens, no leading or trailing hyphen, 1–200 characters.
func ValidateID(id string) error {
	if !slugPattern.MatchString(id) {
		return fmt.Errorf("invalid camp id %q", id)
	}
	return nil
}
