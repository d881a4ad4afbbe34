package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSlot reads a slot payload. found is false when the slot is absent.
func (db *DB) GetSlot(key string) (value []byte, found bool, err error) {
	err = db.conn.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return value, true, nil
}

// SetSlot writes a slot payload, replacing any previous value.
func (db *DB) SetSlot(key string, value []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

// DeleteSlot removes a slot. Deleting an absent slot is not an error.
func (db *DB) DeleteSlot(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

// Slot binds one slot key into the three-operation interface the
// record store persists through.
type Slot struct {
	db  *DB
	key string
}

// Slot returns a bound slot for key.
func (db *DB) Slot(key string) *Slot {
	return &Slot{db: db, key: key}
}

// Read returns the slot payload, or found=false when absent.
func (s *Slot) Read() ([]byte, bool, error) {
	return s.db.GetSlot(s.key)
}

// Write replaces the slot payload.
func (s *Slot) Write(value []byte) error {
	return s.db.SetSlot(s.key, value)
}

// Clear removes the slot.
func (s *Slot) Clear() error {
	return s.db.DeleteSlot(s.key)
}
