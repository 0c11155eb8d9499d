// Package store persists message history, room passwords and the feed
// in a single sqlite database. It is the source of truth; live presence
// never touches it.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks a failed read or write against the database.
	// Callers decide whether to fail open or closed.
	ErrUnavailable = errors.New("store unavailable")
)

// Open connects to the sqlite database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(
		&MessageRecord{},
		&RoomPassword{},
		&ProfileRecord{},
		&PostRecord{},
		&GroupRecord{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return db, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
