// Package session stores small per-user key/value state: unlocked
// achievements, dismissed tips, visit streaks, view counters. Values
// are opaque strings; callers encode as they see fit.
package session

import (
	"database/sql"
	"fmt"
	"time"
)

// KV is a user-scoped key/value store backed by the session_kv table.
// Writes are last-writer-wins.
type KV struct {
	db     *sql.DB
	userID string
}

// NewKV binds a store to a user.
func NewKV(db *sql.DB, userID string) *KV {
	return &KV{db: db, userID: userID}
}

// Get returns the stored value, or "" when the key is absent.
func (k *KV) Get(key string) (string, error) {
	const q = `SELECT value FROM session_kv WHERE user_id = ? AND key = ?`
	var value string
	err := k.db.QueryRow(q, k.userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return value, nil
}

// Put writes or replaces the value.
func (k *KV) Put(key, value string) error {
	const q = `INSERT INTO session_kv (user_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := k.db.Exec(q, k.userID, key, value); err != nil {
		return fmt.Errorf("failed to write session key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (k *KV) Remove(key string) error {
	const q = `DELETE FROM session_kv WHERE user_id = ? AND key = ?`
	if _, err := k.db.Exec(q, k.userID, key); err != nil {
		return fmt.Errorf("failed to remove session key %s: %w", key, err)
	}
	return nil
}

// Purge drops every key for the user.
func (k *KV) Purge() error {
	const q = `DELETE FROM session_kv WHERE user_id = ?`
	if _, err := k.db.Exec(q, k.userID); err != nil {
		return fmt.Errorf("failed to purge session state: %w", err)
	}
	return nil
}

// CleanupStale removes rows across all users that have not been written
// for maxAge. updated_at holds CURRENT_TIMESTAMP, a UTC
// "YYYY-MM-DD HH:MM:SS" string, so the cutoff compares lexically.
func CleanupStale(db *sql.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")
	const q = `DELETE FROM session_kv WHERE updated_at < ?`
	res, err := db.Exec(q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up stale session rows: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned session rows: %w", err)
	}
	return removed, nil
}
