package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/nezumiya/chat/internal/domain"
)

// Messages is the durable per-room message log.
type Messages struct {
	db *gorm.DB
}

func NewMessages(db *gorm.DB) *Messages {
	return &Messages{db: db}
}

// Append durably records one message for room.
func (r *Messages) Append(ctx context.Context, room domain.RoomKey, m domain.Message) error {
	rec := MessageRecord{
		Room:   string(room),
		Sender: m.Sender,
		Name:   m.Name,
		Text:   m.Text,
		TS:     m.TS,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return unavailable("append message", err)
	}
	return nil
}

// ReadRecent returns up to limit most recent messages for room in
// chronological order, oldest first. Ties on timestamp keep insertion
// order via the row id.
func (r *Messages) ReadRecent(ctx context.Context, room domain.RoomKey, limit int) ([]domain.Message, error) {
	var recs []MessageRecord
	err := r.db.WithContext(ctx).
		Where("room = ?", string(room)).
		Order("ts DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, unavailable("read recent messages", err)
	}
	out := make([]domain.Message, len(recs))
	for i, rec := range recs {
		out[len(recs)-1-i] = domain.Message{
			Text:   rec.Text,
			Sender: rec.Sender,
			Name:   rec.Name,
			TS:     rec.TS,
		}
	}
	return out, nil
}

// Clear deletes all stored messages for room. Irreversible.
func (r *Messages) Clear(ctx context.Context, room domain.RoomKey) error {
	if err := r.db.WithContext(ctx).
		Where("room = ?", string(room)).
		Delete(&MessageRecord{}).Error; err != nil {
		return unavailable("clear messages", err)
	}
	return nil
}
