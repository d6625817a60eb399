// Package store is the SQLite persistence adapter behind the planning
// core, plus the error taxonomy that normalizes adapter failures for
// display.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"camp-planner/internal/plan"
)

// SQLiteAdapter implements plan.Adapter over a local SQLite database.
// Every method scopes its queries to the owning user; the planning
// core never sees cross-user rows.
type SQLiteAdapter struct {
	db *sql.DB
}

// NewSQLiteAdapter binds an adapter to an open database.
func NewSQLiteAdapter(db *sql.DB) *SQLiteAdapter {
	return &SQLiteAdapter{db: db}
}

var _ plan.Adapter = (*SQLiteAdapter)(nil)

// GetProfile returns the user's profile, creating an empty one on
// first access.
func (a *SQLiteAdapter) GetProfile(ctx context.Context, userID string) (*plan.Profile, error) {
	const q = `SELECT user_id, budget, work_hours, preferred_categories, school_end, school_start, home_lat, home_lng
		FROM profiles WHERE user_id = ?`

	var (
		p       plan.Profile
		budget  sql.NullFloat64
		cats    sql.NullString
		homeLat sql.NullFloat64
		homeLng sql.NullFloat64
	)
	err := a.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &budget, &p.WorkHours, &cats, &p.SchoolEnd, &p.SchoolStart, &homeLat, &homeLng,
	)
	if err == sql.ErrNoRows {
		p = plan.Profile{UserID: userID}
		if err := a.UpdateProfile(ctx, p); err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load profile: %w", err))
	}
	if budget.Valid {
		v := budget.Float64
		p.Budget = &v
	}
	if homeLat.Valid {
		v := homeLat.Float64
		p.HomeLat = &v
	}
	if homeLng.Valid {
		v := homeLng.Float64
		p.HomeLng = &v
	}
	if cats.Valid && cats.String != "" {
		if err := json.Unmarshal([]byte(cats.String), &p.PreferredCategories); err != nil {
			return nil, Classify(fmt.Errorf("failed to decode preferred categories: %w", err))
		}
	}
	return &p, nil
}

// UpdateProfile upserts the profile row.
func (a *SQLiteAdapter) UpdateProfile(ctx context.Context, p plan.Profile) error {
	cats, err := json.Marshal(p.PreferredCategories)
	if err != nil {
		return Classify(fmt.Errorf("failed to encode preferred categories: %w", err))
	}
	const q = `INSERT INTO profiles (user_id, budget, work_hours, preferred_categories, school_end, school_start, home_lat, home_lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			budget = excluded.budget,
			work_hours = excluded.work_hours,
			preferred_categories = excluded.preferred_categories,
			school_end = excluded.school_end,
			school_start = excluded.school_start,
			home_lat = excluded.home_lat,
			home_lng = excluded.home_lng`
	_, err = a.db.ExecContext(ctx, q,
		p.UserID, nullFloat(p.Budget), SanitizeText(p.WorkHours), string(cats),
		p.SchoolEnd, p.SchoolStart, nullFloat(p.HomeLat), nullFloat(p.HomeLng),
	)
	if err != nil {
		return Classify(fmt.Errorf("failed to update profile: %w", err))
	}
	return nil
}

// GetChildren returns the user's children ordered by creation.
func (a *SQLiteAdapter) GetChildren(ctx context.Context, userID string) ([]plan.Child, error) {
	const q = `SELECT id, name, color, birth_date, age, interests, is_sample
		FROM children WHERE user_id = ? ORDER BY created_at, id`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load children: %w", err))
	}
	defer rows.Close()

	var children []plan.Child
	for rows.Next() {
		var (
			c         plan.Child
			birth     sql.NullString
			age       sql.NullInt64
			interests sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &birth, &age, &interests, &c.IsSample); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan child: %w", err))
		}
		c.BirthDate = birth.String
		c.Age = int(age.Int64)
		if interests.Valid && interests.String != "" {
			if err := json.Unmarshal([]byte(interests.String), &c.Interests); err != nil {
				return nil, Classify(fmt.Errorf("failed to decode interests: %w", err))
			}
		}
		children = append(children, c)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return children, nil
}

// AddChild inserts a child and returns the stored row.
func (a *SQLiteAdapter) AddChild(ctx context.Context, userID string, c plan.Child) (*plan.Child, error) {
	if err := plan.ValidateChild(c); err != nil {
		return nil, NewError(CodeValidation, err)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = SanitizeText(c.Name)
	interests, err := json.Marshal(c.Interests)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to encode interests: %w", err))
	}
	const q = `INSERT INTO children (id, user_id, name, color, birth_date, age, interests, is_sample)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = a.db.ExecContext(ctx, q, c.ID, userID, c.Name, c.Color, c.BirthDate, c.Age, string(interests), c.IsSample)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to add child: %w", err))
	}
	return &c, nil
}

// UpdateChild rewrites the mutable child fields.
func (a *SQLiteAdapter) UpdateChild(ctx context.Context, c plan.Child) error {
	if err := plan.ValidateChild(c); err != nil {
		return NewError(CodeValidation, err)
	}
	interests, err := json.Marshal(c.Interests)
	if err != nil {
		return Classify(fmt.Errorf("failed to encode interests: %w", err))
	}
	const q = `UPDATE children SET name = ?, color = ?, birth_date = ?, age = ?, interests = ? WHERE id = ?`
	res, err := a.db.ExecContext(ctx, q, SanitizeText(c.Name), c.Color, c.BirthDate, c.Age, string(interests), c.ID)
	if err != nil {
		return Classify(fmt.Errorf("failed to update child: %w", err))
	}
	return noneAffectedIsNotFound(res)
}

// DeleteChild removes a child. Dependent placements, blocks, and
// interests cascade at the schema level.
func (a *SQLiteAdapter) DeleteChild(ctx context.Context, childID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, childID)
	if err != nil {
		return Classify(fmt.Errorf("failed to delete child: %w", err))
	}
	return noneAffectedIsNotFound(res)
}

// GetFavorites returns the user's wish-list.
func (a *SQLiteAdapter) GetFavorites(ctx context.Context, userID string) ([]plan.Favorite, error) {
	const q = `SELECT camp_id, child_id, note FROM favorites WHERE user_id = ? ORDER BY created_at`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load favorites: %w", err))
	}
	defer rows.Close()

	var favorites []plan.Favorite
	for rows.Next() {
		var (
			f       plan.Favorite
			childID sql.NullString
			note    sql.NullString
		)
		if err := rows.Scan(&f.CampID, &childID, &note); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan favorite: %w", err))
		}
		f.ChildID = childID.String
		f.Note = note.String
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return favorites, nil
}

// AddFavorite inserts a wish-list entry.
func (a *SQLiteAdapter) AddFavorite(ctx context.Context, userID string, f plan.Favorite) error {
	if err := plan.ValidateFavorite(f); err != nil {
		return NewError(CodeValidation, err)
	}
	const q = `INSERT INTO favorites (user_id, camp_id, child_id, note) VALUES (?, ?, ?, ?)`
	_, err := a.db.ExecContext(ctx, q, userID, f.CampID, nullString(f.ChildID), SanitizeText(f.Note))
	if err != nil {
		return Classify(fmt.Errorf("failed to add favorite: %w", err))
	}
	return nil
}

// RemoveFavorite deletes a wish-list entry by camp.
func (a *SQLiteAdapter) RemoveFavorite(ctx context.Context, userID, campID string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND camp_id = ?`, userID, campID)
	if err != nil {
		return Classify(fmt.Errorf("failed to remove favorite: %w", err))
	}
	return nil
}

// GetScheduledCamps returns all placements for the user's children.
func (a *SQLiteAdapter) GetScheduledCamps(ctx context.Context, userID string) ([]plan.Placement, error) {
	const q = `SELECT id, child_id, camp_id, start_date, end_date, price, status
		FROM scheduled_camps WHERE user_id = ? ORDER BY start_date, id`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load scheduled camps: %w", err))
	}
	defer rows.Close()

	var placements []plan.Placement
	for rows.Next() {
		var (
			p     plan.Placement
			price sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.ChildID, &p.CampID, &p.StartDate, &p.EndDate, &price, &p.Status); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan scheduled camp: %w", err))
		}
		if price.Valid {
			v := price.Float64
			p.Price = &v
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return placements, nil
}

// AddScheduledCamp inserts a placement after a conflict check and
// returns the stored row.
func (a *SQLiteAdapter) AddScheduledCamp(ctx context.Context, userID string, p plan.Placement) (*plan.Placement, error) {
	if err := plan.ValidatePlacement(p); err != nil {
		return nil, NewError(CodeValidation, err)
	}
	conflict, err := a.CheckScheduleConflict(ctx, p.ChildID, p.StartDate, p.EndDate, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, NewError(CodeConflict, fmt.Errorf("placement overlaps an existing one for child %s", p.ChildID))
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const q = `INSERT INTO scheduled_camps (id, user_id, child_id, camp_id, start_date, end_date, price, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = a.db.ExecContext(ctx, q, p.ID, userID, p.ChildID, p.CampID, p.StartDate, p.EndDate, nullFloat(p.Price), string(p.Status))
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to add scheduled camp: %w", err))
	}
	return &p, nil
}

// UpdateScheduledCamp rewrites a placement, re-checking conflicts
// against every other placement.
func (a *SQLiteAdapter) UpdateScheduledCamp(ctx context.Context, p plan.Placement) error {
	if err := plan.ValidatePlacement(p); err != nil {
		return NewError(CodeValidation, err)
	}
	if p.Active() {
		conflict, err := a.CheckScheduleConflict(ctx, p.ChildID, p.StartDate, p.EndDate, p.ID)
		if err != nil {
			return err
		}
		if conflict {
			return NewError(CodeConflict, fmt.Errorf("placement overlaps an existing one for child %s", p.ChildID))
		}
	}
	const q = `UPDATE scheduled_camps SET child_id = ?, camp_id = ?, start_date = ?, end_date = ?, price = ?, status = ?
		WHERE id = ?`
	res, err := a.db.ExecContext(ctx, q, p.ChildID, p.CampID, p.StartDate, p.EndDate, nullFloat(p.Price), string(p.Status), p.ID)
	if err != nil {
		return Classify(fmt.Errorf("failed to update scheduled camp: %w", err))
	}
	return noneAffectedIsNotFound(res)
}

// DeleteScheduledCamp removes a placement.
func (a *SQLiteAdapter) DeleteScheduledCamp(ctx context.Context, placementID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM scheduled_camps WHERE id = ?`, placementID)
	if err != nil {
		return Classify(fmt.Errorf("failed to delete scheduled camp: %w", err))
	}
	return noneAffectedIsNotFound(res)
}

// GetCampInterests returns the social interest flags for the user's
// children.
func (a *SQLiteAdapter) GetCampInterests(ctx context.Context, userID string) ([]plan.CampInterest, error) {
	const q = `SELECT camp_id, child_id, week_num, looking_for_friends
		FROM camp_interests WHERE user_id = ? ORDER BY week_num, camp_id`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load camp interests: %w", err))
	}
	defer rows.Close()

	var interests []plan.CampInterest
	for rows.Next() {
		var i plan.CampInterest
		if err := rows.Scan(&i.CampID, &i.ChildID, &i.WeekNum, &i.LookingForFriends); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan camp interest: %w", err))
		}
		interests = append(interests, i)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return interests, nil
}

// ToggleLookingForFriends upserts the interest row with the new flag.
func (a *SQLiteAdapter) ToggleLookingForFriends(ctx context.Context, userID string, i plan.CampInterest) error {
	const q = `INSERT INTO camp_interests (user_id, camp_id, child_id, week_num, looking_for_friends)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, camp_id, child_id, week_num) DO UPDATE SET
			looking_for_friends = excluded.looking_for_friends`
	_, err := a.db.ExecContext(ctx, q, userID, i.CampID, i.ChildID, i.WeekNum, i.LookingForFriends)
	if err != nil {
		return Classify(fmt.Errorf("failed to toggle looking-for-friends: %w", err))
	}
	return nil
}

// GetWeekBlocks returns the user's week blocks.
func (a *SQLiteAdapter) GetWeekBlocks(ctx context.Context, userID string) ([]plan.WeekBlock, error) {
	const q = `SELECT child_id, week_num, kind FROM week_blocks WHERE user_id = ? ORDER BY week_num`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load week blocks: %w", err))
	}
	defer rows.Close()

	var blocks []plan.WeekBlock
	for rows.Next() {
		var b plan.WeekBlock
		if err := rows.Scan(&b.ChildID, &b.WeekNum, &b.Kind); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan week block: %w", err))
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return blocks, nil
}

// SetWeekBlock upserts a block for a child and week.
func (a *SQLiteAdapter) SetWeekBlock(ctx context.Context, userID string, b plan.WeekBlock) error {
	const q = `INSERT INTO week_blocks (user_id, child_id, week_num, kind)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, child_id, week_num) DO UPDATE SET kind = excluded.kind`
	_, err := a.db.ExecContext(ctx, q, userID, b.ChildID, b.WeekNum, string(b.Kind))
	if err != nil {
		return Classify(fmt.Errorf("failed to set week block: %w", err))
	}
	return nil
}

// ClearWeekBlock removes a block.
func (a *SQLiteAdapter) ClearWeekBlock(ctx context.Context, userID, childID string, weekNum int) error {
	const q = `DELETE FROM week_blocks WHERE user_id = ? AND child_id = ? AND week_num = ?`
	_, err := a.db.ExecContext(ctx, q, userID, childID, weekNum)
	if err != nil {
		return Classify(fmt.Errorf("failed to clear week block: %w", err))
	}
	return nil
}

// GetSquads returns the squads the user belongs to.
func (a *SQLiteAdapter) GetSquads(ctx context.Context, userID string) ([]plan.Squad, error) {
	const q = `SELECT s.id, s.name FROM squads s
		JOIN squad_members m ON m.squad_id = s.id
		WHERE m.user_id = ? ORDER BY s.name`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load squads: %w", err))
	}
	defer rows.Close()

	var squads []plan.Squad
	for rows.Next() {
		var s plan.Squad
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan squad: %w", err))
		}
		squads = append(squads, s)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return squads, nil
}

// GetSquadNotifications returns the user's squad notifications, unread
// first.
func (a *SQLiteAdapter) GetSquadNotifications(ctx context.Context, userID string) ([]plan.SquadNotification, error) {
	const q = `SELECT id, squad_id, message, read FROM squad_notifications
		WHERE user_id = ? ORDER BY read, created_at DESC`
	rows, err := a.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to load squad notifications: %w", err))
	}
	defer rows.Close()

	var notifications []plan.SquadNotification
	for rows.Next() {
		var n plan.SquadNotification
		if err := rows.Scan(&n.ID, &n.SquadID, &n.Message, &n.Read); err != nil {
			return nil, Classify(fmt.Errorf("failed to scan squad notification: %w", err))
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return notifications, nil
}

// ClearSampleData removes demo children and everything hanging off
// them in one transaction.
func (a *SQLiteAdapter) ClearSampleData(ctx context.Context, userID string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	const sampleChildren = `SELECT id FROM children WHERE user_id = ? AND is_sample = 1`
	statements := []string{
		`DELETE FROM scheduled_camps WHERE user_id = ? AND child_id IN (` + sampleChildren + `)`,
		`DELETE FROM week_blocks WHERE user_id = ? AND child_id IN (` + sampleChildren + `)`,
		`DELETE FROM camp_interests WHERE user_id = ? AND child_id IN (` + sampleChildren + `)`,
		`DELETE FROM children WHERE user_id = ? AND is_sample = 1`,
	}
	for _, stmt := range statements {
		args := []any{userID, userID}
		if stmt == statements[len(statements)-1] {
			args = []any{userID}
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return Classify(fmt.Errorf("failed to clear sample data: %w", err))
		}
	}
	if err := tx.Commit(); err != nil {
		return Classify(fmt.Errorf("failed to commit sample-data cleanup: %w", err))
	}
	return nil
}

// CheckScheduleConflict reports whether a non-cancelled placement for
// the child overlaps [startDate, endDate]. excludeID skips one
// placement so updates do not conflict with themselves.
func (a *SQLiteAdapter) CheckScheduleConflict(ctx context.Context, childID, startDate, endDate, excludeID string) (bool, error) {
	const q = `SELECT COUNT(1) FROM scheduled_camps
		WHERE child_id = ? AND status != 'cancelled' AND id != ?
		AND start_date <= ? AND end_date >= ?`
	var count int
	err := a.db.QueryRowContext(ctx, q, childID, excludeID, endDate, startDate).Scan(&count)
	if err != nil {
		return false, Classify(fmt.Errorf("failed to check schedule conflict: %w", err))
	}
	return count > 0, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func noneAffectedIsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return Classify(err)
	}
	if n == 0 {
		return NewError(CodeNotFound, sql.ErrNoRows)
	}
	return nil
}
