package plan

import "context"

// Adapter is the narrow interface to the persistence layer. The adapter
// enforces per-user authorization; the core never issues cross-user
// queries. Every method suspends on the network and returns either a
// value or a classified error.
type Adapter interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error

	GetChildren(ctx context.Context, userID string) ([]Child, error)
	AddChild(ctx context.Context, userID string, c Child) (*Child, error)
	UpdateChild(ctx context.Context, c Child) error
	DeleteChild(ctx context.Context, childID string) error

	GetFavorites(ctx context.Context, userID string) ([]Favorite, error)
	AddFavorite(ctx context.Context, userID string, f Favorite) error
	RemoveFavorite(ctx context.Context, userID, campID string) error

	GetScheduledCamps(ctx context.Context, userID string) ([]Placement, error)
	AddScheduledCamp(ctx context.Context, userID string, p Placement) (*Placement, error)
	UpdateScheduledCamp(ctx context.Context, p Placement) error
	DeleteScheduledCamp(ctx context.Context, placementID string) error

	GetCampInterests(ctx context.Context, userID string) ([]CampInterest, error)
	ToggleLookingForFriends(ctx context.Context, userID string, i CampInterest) error

	GetWeekBlocks(ctx context.Context, userID string) ([]WeekBlock, error)
	SetWeekBlock(ctx context.Context, userID string, b WeekBlock) error
	ClearWeekBlock(ctx context.Context, userID, childID string, weekNum int) error

	GetSquads(ctx context.Context, userID string) ([]Squad, error)
	GetSquadNotifications(ctx context.Context, userID string) ([]SquadNotification, error)

	ClearSampleData(ctx context.Context, userID string) error

	// CheckScheduleConflict reports whether a non-cancelled placement for
	// the child already overlaps the date range. excludeID skips one
	// placement, for updates.
	CheckScheduleConflict(ctx context.Context, childID, startDate, endDate, excludeID string) (bool, error)
}
