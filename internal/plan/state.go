package plan

import (
	"context"
	"fmt"

	"camp-planner/internal/calendar"
)

// State is the session's single source of planning truth. All
// collections are owned exclusively by State and replaced wholesale on
// refresh; mutating operations write through the adapter and then
// refetch the affected collection so derived state always observes what
// the store has accepted.
//
// State is single-writer: it is driven from one goroutine per session.
type State struct {
	adapter Adapter
	userID  string

	Profile    *Profile
	Children   []Child
	Placements []Placement
	Favorites  []Favorite
	Interests  []CampInterest
	Blocks     []WeekBlock

	previews    []Placement
	previewMode bool

	// weeks is the session's summer grid, set once after the profile
	// loads.
	weeks []calendar.Week

	// inflight drops a second user-initiated write while the first for
	// the same operation is still pending.
	inflight map[string]bool
}

// NewState creates an empty State bound to a user and an adapter.
func NewState(adapter Adapter, userID string) *State {
	return &State{
		adapter:  adapter,
		userID:   userID,
		inflight: make(map[string]bool),
	}
}

// UserID returns the session's user id.
func (s *State) UserID() string { return s.userID }

// Load fetches every collection once at session start.
func (s *State) Load(ctx context.Context) error {
	profile, err := s.adapter.GetProfile(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	s.Profile = profile

	if err := s.RefreshChildren(ctx); err != nil {
		return err
	}
	if err := s.RefreshPlacements(ctx); err != nil {
		return err
	}
	if err := s.RefreshFavorites(ctx); err != nil {
		return err
	}
	if err := s.RefreshInterests(ctx); err != nil {
		return err
	}
	return s.RefreshBlocks(ctx)
}

// RefreshChildren replaces the children collection from the store.
func (s *State) RefreshChildren(ctx context.Context) error {
	children, err := s.adapter.GetChildren(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh children: %w", err)
	}
	s.Children = children
	return nil
}

// RefreshPlacements replaces the placements collection from the store.
func (s *State) RefreshPlacements(ctx context.Context) error {
	placements, err := s.adapter.GetScheduledCamps(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh placements: %w", err)
	}
	s.Placements = placements
	return nil
}

// RefreshFavorites replaces the wish-list from the store.
func (s *State) RefreshFavorites(ctx context.Context) error {
	favorites, err := s.adapter.GetFavorites(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh favorites: %w", err)
	}
	s.Favorites = favorites
	return nil
}

// RefreshInterests replaces the interest flags from the store.
func (s *State) RefreshInterests(ctx context.Context) error {
	interests, err := s.adapter.GetCampInterests(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh interests: %w", err)
	}
	s.Interests = interests
	return nil
}

// RefreshBlocks replaces the week blocks from the store.
func (s *State) RefreshBlocks(ctx context.Context) error {
	blocks, err := s.adapter.GetWeekBlocks(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh week blocks: %w", err)
	}
	s.Blocks = blocks
	return nil
}

// begin marks an operation in flight. It returns false when the same
// operation is already pending so a double-submit is dropped.
func (s *State) begin(op string) bool {
	if s.inflight[op] {
		return false
	}
	s.inflight[op] = true
	return true
}

func (s *State) end(op string) { delete(s.inflight, op) }

// ErrOperationPending is returned when a duplicate write is dropped.
var ErrOperationPending = fmt.Errorf("operation already in progress")

// AddChild validates and persists a new child, then refreshes.
func (s *State) AddChild(ctx context.Context, c Child) error {
	if !s.begin("add-child") {
		return ErrOperationPending
	}
	defer s.end("add-child")

	if err := ValidateChild(c); err != nil {
		return err
	}
	if _, err := s.adapter.AddChild(ctx, s.userID, c); err != nil {
		return err
	}
	return s.RefreshChildren(ctx)
}

// UpdateChild persists a child edit, then refreshes.
func (s *State) UpdateChild(ctx context.Context, c Child) error {
	if err := ValidateChild(c); err != nil {
		return err
	}
	if err := s.adapter.UpdateChild(ctx, c); err != nil {
		return err
	}
	return s.RefreshChildren(ctx)
}

// DeleteChild removes a child. The store cascades to its placements, so
// both collections are refreshed.
func (s *State) DeleteChild(ctx context.Context, childID string) error {
	if err := s.adapter.DeleteChild(ctx, childID); err != nil {
		return err
	}
	if err := s.RefreshChildren(ctx); err != nil {
		return err
	}
	return s.RefreshPlacements(ctx)
}

// AddPlacement runs the conflict check, persists, then refreshes. The
// block-exclusivity invariant is enforced here as well: a blocked week
// cannot also take a placement.
func (s *State) AddPlacement(ctx context.Context, p Placement) error {
	if !s.begin("add-placement") {
		return ErrOperationPending
	}
	defer s.end("add-placement")

	if err := ValidatePlacement(p); err != nil {
		return err
	}
	if s.weekBlocked(p.ChildID, p.StartDate) {
		return fmt.Errorf("week is blocked for this child; clear the block first")
	}

	conflict, err := s.adapter.CheckScheduleConflict(ctx, p.ChildID, p.StartDate, p.EndDate, "")
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("schedule conflict: child already has a camp in that date range")
	}

	if _, err := s.adapter.AddScheduledCamp(ctx, s.userID, p); err != nil {
		return err
	}
	return s.RefreshPlacements(ctx)
}

// UpdatePlacement persists a placement edit, then refreshes.
func (s *State) UpdatePlacement(ctx context.Context, p Placement) error {
	if err := ValidatePlacement(p); err != nil {
		return err
	}
	if p.Active() {
		conflict, err := s.adapter.CheckScheduleConflict(ctx, p.ChildID, p.StartDate, p.EndDate, p.ID)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("schedule conflict: child already has a camp in that date range")
		}
	}
	if err := s.adapter.UpdateScheduledCamp(ctx, p); err != nil {
		return err
	}
	return s.RefreshPlacements(ctx)
}

// DeletePlacement removes a placement, then refreshes.
func (s *State) DeletePlacement(ctx context.Context, placementID string) error {
	if err := s.adapter.DeleteScheduledCamp(ctx, placementID); err != nil {
		return err
	}
	return s.RefreshPlacements(ctx)
}

// ToggleFavorite adds or removes a wish-list entry, then refreshes.
func (s *State) ToggleFavorite(ctx context.Context, f Favorite) error {
	if !s.begin("toggle-favorite") {
		return ErrOperationPending
	}
	defer s.end("toggle-favorite")

	if err := ValidateFavorite(f); err != nil {
		return err
	}
	if s.IsFavorited(f.CampID) {
		if err := s.adapter.RemoveFavorite(ctx, s.userID, f.CampID); err != nil {
			return err
		}
	} else {
		if err := s.adapter.AddFavorite(ctx, s.userID, f); err != nil {
			return err
		}
	}
	return s.RefreshFavorites(ctx)
}

// SetWeekBlock declares a non-camp week for a child. Blocks and
// placements for the same (child, week) are mutually exclusive: the
// block is refused while a non-cancelled placement covers the week.
func (s *State) SetWeekBlock(ctx context.Context, b WeekBlock) error {
	for _, w := range s.weeks {
		if w.Num != b.WeekNum {
			continue
		}
		for _, p := range s.allDisplay() {
			if p.ChildID == b.ChildID && p.Active() && calendar.Covers(w, p.StartDate) {
				return fmt.Errorf("week %d already has a camp for this child; remove it first", b.WeekNum)
			}
		}
	}
	if err := s.adapter.SetWeekBlock(ctx, s.userID, b); err != nil {
		return err
	}
	return s.RefreshBlocks(ctx)
}

// ClearWeekBlock removes a block, then refreshes.
func (s *State) ClearWeekBlock(ctx context.Context, childID string, weekNum int) error {
	if err := s.adapter.ClearWeekBlock(ctx, s.userID, childID, weekNum); err != nil {
		return err
	}
	return s.RefreshBlocks(ctx)
}

// ToggleLookingForFriends flips the social flag for a (camp, child,
// week), then refreshes.
func (s *State) ToggleLookingForFriends(ctx context.Context, i CampInterest) error {
	if err := s.adapter.ToggleLookingForFriends(ctx, s.userID, i); err != nil {
		return err
	}
	return s.RefreshInterests(ctx)
}

// ClearSampleData removes seeded sample rows, then reloads everything.
func (s *State) ClearSampleData(ctx context.Context) error {
	if err := s.adapter.ClearSampleData(ctx, s.userID); err != nil {
		return err
	}
	return s.Load(ctx)
}

// IsFavorited reports whether a camp is on the wish-list.
func (s *State) IsFavorited(campID string) bool {
	for _, f := range s.Favorites {
		if f.CampID == campID {
			return true
		}
	}
	return false
}

// BlockFor returns the block for a (child, week), or nil.
func (s *State) BlockFor(childID string, weekNum int) *WeekBlock {
	for i := range s.Blocks {
		if s.Blocks[i].ChildID == childID && s.Blocks[i].WeekNum == weekNum {
			return &s.Blocks[i]
		}
	}
	return nil
}

// SetWeeks installs the session's summer grid. Block exclusivity checks
// are skipped until it is set.
func (s *State) SetWeeks(weeks []calendar.Week) { s.weeks = weeks }

// Weeks returns the session's summer grid.
func (s *State) Weeks() []calendar.Week { return s.weeks }

func (s *State) weekBlocked(childID, startDate string) bool {
	w := calendar.WeekOf(s.weeks, startDate)
	if w == nil {
		return false
	}
	return s.BlockFor(childID, w.Num) != nil
}

// ScheduleForWeek returns the non-cancelled display placements whose
// start date falls inside [startDate, endDate].
func (s *State) ScheduleForWeek(startDate, endDate string) []Placement {
	var out []Placement
	for _, p := range s.allDisplay() {
		if !p.Active() {
			continue
		}
		if p.StartDate >= startDate && p.StartDate <= endDate {
			out = append(out, p)
		}
	}
	return out
}

// TotalCost sums placement prices, excluding cancelled ones. A missing
// price counts as zero.
func (s *State) TotalCost() float64 {
	var total float64
	for _, p := range s.allDisplay() {
		if !p.Active() || p.Price == nil {
			continue
		}
		total += *p.Price
	}
	return total
}

// CoverageGaps returns the weeks where a child has neither a
// non-cancelled placement nor a block.
func (s *State) CoverageGaps(childID string, weeks []calendar.Week) []calendar.Week {
	var gaps []calendar.Week
	for _, w := range weeks {
		if s.BlockFor(childID, w.Num) != nil {
			continue
		}
		covered := false
		for _, p := range s.allDisplay() {
			if p.ChildID == childID && p.Active() && calendar.Covers(w, p.StartDate) {
				covered = true
				break
			}
		}
		if !covered {
			gaps = append(gaps, w)
		}
	}
	return gaps
}
