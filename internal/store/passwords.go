package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nezumiya/chat/internal/domain"
)

// Passwords is the room password registry. A room's password is written
// at most once; later writes for the same room never overwrite it.
type Passwords struct {
	db *gorm.DB
}

func NewPasswords(db *gorm.DB) *Passwords {
	return &Passwords{db: db}
}

// Get returns the stored password for room, or ErrNotFound if the room
// is unprotected.
func (r *Passwords) Get(ctx context.Context, room domain.RoomKey) (string, error) {
	var rec RoomPassword
	err := r.db.WithContext(ctx).First(&rec, "room = ?", string(room)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", unavailable("get password", err)
	}
	return rec.Password, nil
}

// SetIfAbsent stores password for room only if no password exists yet
// and reports whether the row was created. The conflict-ignoring insert
// makes concurrent writers resolve to exactly one logical winner.
func (r *Passwords) SetIfAbsent(ctx context.Context, room domain.RoomKey, password string) (bool, error) {
	rec := RoomPassword{Room: string(room), Password: password}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return false, unavailable("set password", res.Error)
	}
	return res.RowsAffected > 0, nil
}
