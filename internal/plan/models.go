// Package plan holds the in-memory planning state for one user session:
// children, scheduled placements, the wish-list, week blocks, social
// interest flags, and the preview overlay.
package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// Status is the lifecycle state of a scheduled placement.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusRegistered Status = "registered"
	StatusConfirmed  Status = "confirmed"
	StatusWaitlisted Status = "waitlisted"
	StatusCancelled  Status = "cancelled"
	StatusTentative  Status = "tentative"
	StatusPaid       Status = "paid"
)

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPlanned, StatusRegistered, StatusConfirmed, StatusWaitlisted,
		StatusCancelled, StatusTentative, StatusPaid:
		return true
	}
	return false
}

// Child is one child in the family plan. Referenced by placements by id,
// never by ownership.
type Child struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"` // #RRGGBB
	BirthDate string   `json:"birth_date,omitempty"`
	Age       int      `json:"age,omitempty"`
	Interests []string `json:"interests,omitempty"`
	IsSample  bool     `json:"is_sample,omitempty"`
}

// PreviewIDPrefix marks placements that exist only in the preview
// overlay. A persisted id can never carry it, so preview ids cannot
// collide with real ones.
const PreviewIDPrefix = "preview-"

// Placement is a child attending a camp over a date range. Preview
// distinguishes the ephemeral what-if variant from the persisted one.
type Placement struct {
	ID        string   `json:"id"`
	ChildID   string   `json:"child_id"`
	CampID    string   `json:"camp_id"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Price     *float64 `json:"price,omitempty"`
	Status    Status   `json:"status"`
	Preview   bool     `json:"is_preview,omitempty"`
}

// Active reports whether the placement counts toward coverage and cost.
func (p Placement) Active() bool {
	return p.Status != StatusCancelled
}

// BlockKind enumerates the non-camp intents a week can be blocked with.
type BlockKind string

const (
	BlockVacation BlockKind = "vacation"
	BlockFamily   BlockKind = "family"
	BlockTravel   BlockKind = "travel"
	BlockOther    BlockKind = "other"
)

// BlockIcon returns the display icon and color for a block kind.
func BlockIcon(k BlockKind) (icon, color string) {
	switch k {
	case BlockVacation:
		return "🏖️", "#f59e0b"
	case BlockFamily:
		return "👨‍👩‍👧", "#8b5cf6"
	case BlockTravel:
		return "✈️", "#0ea5e9"
	default:
		return "📌", "#6b7280"
	}
}

// WeekBlock is a child-declared non-camp occupancy of a week.
type WeekBlock struct {
	ChildID string    `json:"child_id"`
	WeekNum int       `json:"week_num"`
	Kind    BlockKind `json:"kind"`
}

// Favorite is a wish-list entry, optionally scoped to a child.
type Favorite struct {
	CampID  string `json:"camp_id"`
	ChildID string `json:"child_id,omitempty"`
	Note    string `json:"note,omitempty"` // free text, at most 1000 chars
}

// CampInterest is a social signal: a child is interested in a camp for a
// week and may be looking for friends to join. The core treats the flag
// as opaque.
type CampInterest struct {
	CampID            string `json:"camp_id"`
	ChildID           string `json:"child_id"`
	WeekNum           int    `json:"week_num"`
	LookingForFriends bool   `json:"looking_for_friends"`
}

// Profile carries the user-level planning preferences.
type Profile struct {
	UserID              string   `json:"user_id"`
	Budget              *float64 `json:"budget,omitempty"`
	WorkHours           string   `json:"work_hours,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	SchoolEnd           string   `json:"school_end,omitempty"`
	SchoolStart         string   `json:"school_start,omitempty"`
	HomeLat             *float64 `json:"home_lat,omitempty"`
	HomeLng             *float64 `json:"home_lng,omitempty"`
}

// Squad is a shared planning group the user belongs to. Only its
// existence matters to the core.
type Squad struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SquadNotification is an unread social event surfaced to the user.
type SquadNotification struct {
	ID      string `json:"id"`
	SquadID string `json:"squad_id"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateChild checks the field constraints before a write.
func ValidateChild(c Child) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("child name is required")
	}
	if !colorPattern.MatchString(c.Color) {
		return fmt.Errorf("child color must be #RRGGBB, got %q", c.Color)
	}
	if c.BirthDate == "" && c.Age <= 0 {
		return fmt.Errorf("child needs a birth date or an age")
	}
	return nil
}

// ValidatePlacement checks the field constraints before a write.
func ValidatePlacement(p Placement) error {
	if p.ChildID == "" {
		return fmt.Errorf("placement child id is required")
	}
	if p.CampID == "" {
		return fmt.Errorf("placement camp id is required")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return fmt.Errorf("placement date range is required")
	}
	if p.StartDate > p.EndDate {
		return fmt.Errorf("placement start %s is after end %s", p.StartDate, p.EndDate)
	}
	if !ValidStatus(p.Status) {
		return fmt.Errorf("invalid placement status %q", p.Status)
	}
	return nil
}

// ValidateFavorite checks the field constraints before a write.
func ValidateFavorite(f Favorite) error {
	if f.CampID == "" {
		return fmt.Errorf("favorite camp id is required")
	}
	if len(f.Note) > 1000 {
		return fmt.Errorf("favorite note exceeds 1000 characters")
	}
	return nil
}
