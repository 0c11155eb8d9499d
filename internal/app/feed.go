package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

// FeedStore is the durable backing for posts, profiles and groups.
type FeedStore interface {
	UpsertProfile(ctx context.Context, p domain.Profile) error
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	CreatePost(ctx context.Context, p domain.Post) error
	ListPosts(ctx context.Context, limit int) ([]domain.Post, error)
	CreateGroup(ctx context.Context, g domain.Group) error
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

// FeedService handles the social surface that shares the chat
// transport: posts, profiles and named groups. It is independent of
// rooms; creations are broadcast to every connection.
type FeedService struct {
	Store     FeedStore
	Gateway   *Gateway
	PostLimit int
}

// CreateProfile validates and stores a profile, replying to the
// requester only. Malformed requests get a structured error event and
// no broadcast.
func (s *FeedService) CreateProfile(ctx context.Context, sid core.SessionID, p domain.Profile) {
	if err := p.Validate(); err != nil {
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: err.Error()})
		return
	}
	if err := s.Store.UpsertProfile(ctx, p); err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("profile not stored")
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: "profile unavailable"})
		return
	}
	s.Gateway.Send(sid, core.ProfileEvent{Type: core.EventProfileCreated, Profile: p})
}

func (s *FeedService) ListProfiles(ctx context.Context, sid core.SessionID) {
	profiles, err := s.Store.ListProfiles(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("profile list failed")
		profiles = nil
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	s.Gateway.Send(sid, core.ProfilesEvent{Type: core.EventProfiles, Profiles: profiles})
}

// CreatePost stores a post and announces it to every connection.
func (s *FeedService) CreatePost(ctx context.Context, sid core.SessionID, author domain.Author, text string) {
	if text == "" {
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: domain.ErrPostTextEmpty.Error()})
		return
	}
	if len(text) > domain.MaxPostLen {
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: domain.ErrPostTextTooLong.Error()})
		return
	}
	post := domain.Post{
		ID:     uuid.NewString(),
		Text:   text,
		Author: author,
		TS:     time.Now().UnixMilli(),
	}
	if err := s.Store.CreatePost(ctx, post); err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("post not stored")
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: "post unavailable"})
		return
	}
	s.Gateway.BroadcastAll(core.PostEvent{Type: core.EventNewPost, Post: post})
}

// ListPosts replies with the most recent posts, newest first, capped at
// the feed window.
func (s *FeedService) ListPosts(ctx context.Context, sid core.SessionID) {
	posts, err := s.Store.ListPosts(ctx, s.PostLimit)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("post list failed")
		posts = nil
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	s.Gateway.Send(sid, core.PostsEvent{Type: core.EventPosts, Posts: posts})
}

// CreateGroup stores a named group and announces it to every
// connection. Joining the group means joining the room keyed by its id.
func (s *FeedService) CreateGroup(ctx context.Context, sid core.SessionID, name string, members []string) {
	if name == "" {
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: domain.ErrGroupNameEmpty.Error()})
		return
	}
	if len(name) > domain.MaxGroupNameLen {
		name = name[:domain.MaxGroupNameLen]
	}
	group := domain.Group{
		ID:      uuid.NewString(),
		Name:    name,
		Members: members,
		TS:      time.Now().UnixMilli(),
	}
	if err := s.Store.CreateGroup(ctx, group); err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("group not stored")
		s.Gateway.Send(sid, core.ErrorEvent{Type: core.EventError, Error: "group unavailable"})
		return
	}
	s.Gateway.BroadcastAll(core.GroupEvent{Type: core.EventGroupCreated, Group: group})
}

func (s *FeedService) ListGroups(ctx context.Context, sid core.SessionID) {
	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.feed").Msg("group list failed")
		groups = nil
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	s.Gateway.Send(sid, core.GroupsEvent{Type: core.EventGroups, Groups: groups})
}
