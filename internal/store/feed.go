package store

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nezumiya/chat/internal/domain"
)

// Feed persists the social surface: posts, profiles and groups. It is
// room-independent and shares the database with the chat log.
type Feed struct {
	db *gorm.DB
}

func NewFeed(db *gorm.DB) *Feed {
	return &Feed{db: db}
}

// UpsertProfile stores a profile, overwriting any previous record with
// the same id. Last write wins.
func (r *Feed) UpsertProfile(ctx context.Context, p domain.Profile) error {
	rec := ProfileRecord{ID: p.ID, Name: p.Name, Avatar: p.Avatar, Bio: p.Bio}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return unavailable("upsert profile", err)
	}
	return nil
}

func (r *Feed) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	var recs []ProfileRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, unavailable("list profiles", err)
	}
	out := make([]domain.Profile, len(recs))
	for i, rec := range recs {
		out[i] = domain.Profile{ID: rec.ID, Name: rec.Name, Avatar: rec.Avatar, Bio: rec.Bio}
	}
	return out, nil
}

func (r *Feed) CreatePost(ctx context.Context, p domain.Post) error {
	rec := PostRecord{
		ID:         p.ID,
		AuthorID:   p.Author.ID,
		AuthorName: p.Author.Name,
		Text:       p.Text,
		TS:         p.TS,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return unavailable("create post", err)
	}
	return nil
}

// ListPosts returns up to limit posts, newest first.
func (r *Feed) ListPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	var recs []PostRecord
	err := r.db.WithContext(ctx).
		Order("ts DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, unavailable("list posts", err)
	}
	out := make([]domain.Post, len(recs))
	for i, rec := range recs {
		out[i] = domain.Post{
			ID:     rec.ID,
			Text:   rec.Text,
			Author: domain.Author{ID: rec.AuthorID, Name: rec.AuthorName},
			TS:     rec.TS,
		}
	}
	return out, nil
}

func (r *Feed) CreateGroup(ctx context.Context, g domain.Group) error {
	members, err := json.Marshal(g.Members)
	if err != nil {
		return unavailable("create group", err)
	}
	rec := GroupRecord{ID: g.ID, Name: g.Name, Members: string(members), TS: g.TS}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return unavailable("create group", err)
	}
	return nil
}

func (r *Feed) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var recs []GroupRecord
	if err := r.db.WithContext(ctx).Order("ts ASC").Find(&recs).Error; err != nil {
		return nil, unavailable("list groups", err)
	}
	out := make([]domain.Group, len(recs))
	for i, rec := range recs {
		g := domain.Group{ID: rec.ID, Name: rec.Name, TS: rec.TS}
		if rec.Members != "" {
			_ = json.Unmarshal([]byte(rec.Members), &g.Members)
		}
		out[i] = g
	}
	return out, nil
}
