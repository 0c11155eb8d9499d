package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
	"github.com/nezumiya/chat/internal/store"
)

// MessageLog is what the coordinator needs from the durable message
// store.
type MessageLog interface {
	Append(ctx context.Context, room domain.RoomKey, m domain.Message) error
	ReadRecent(ctx context.Context, room domain.RoomKey, limit int) ([]domain.Message, error)
	Clear(ctx context.Context, room domain.RoomKey) error
}

// PasswordRegistry is the durable room→password mapping.
type PasswordRegistry interface {
	Get(ctx context.Context, room domain.RoomKey) (string, error)
	SetIfAbsent(ctx context.Context, room domain.RoomKey, password string) (bool, error)
}

// Coordinator is the room session state machine. It owns admission,
// join/leave, message ingestion, typing relay and history replay.
// Presence mutations go through here and nowhere else.
type Coordinator struct {
	Presence     *Presence
	Gateway      *Gateway
	Messages     MessageLog
	Passwords    PasswordRegistry
	HistoryLimit int
}

// JoinRequest is the decoded join payload.
type JoinRequest struct {
	Profile  domain.Profile `json:"profile"`
	Room     string         `json:"room"`
	Password string         `json:"password"`
}

// Join admits a session into a room. On a wrong password the requester
// gets join_error and nothing else changes. On success the room's
// roster is broadcast and the requester alone receives the history
// window. The first non-empty password offered for an unprotected room
// becomes the room's password (first writer wins).
func (c *Coordinator) Join(ctx context.Context, sid core.SessionID, req JoinRequest) {
	room := domain.NormalizeRoom(req.Room)
	profile := req.Profile
	if profile.ID == "" {
		profile = domain.GuestProfile()
	}

	if err := c.admit(ctx, room, req.Password); err != nil {
		reason := "Incorrect password"
		if !errors.Is(err, ErrAdmissionDenied) {
			// Registry unreadable: fail closed rather than admit the
			// join as if the room were unprotected.
			log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(room)).Msg("admission check failed")
			reason = "Room unavailable, try again"
		}
		c.Gateway.Send(sid, core.ErrorEvent{Type: core.EventJoinError, Error: reason})
		return
	}

	// A re-join overwrites the room attachment; refresh the old room's
	// roster so it never shows a stale occupant.
	if prev, ok := c.Presence.RoomOf(sid); ok && prev != room {
		c.Presence.Leave(sid)
		c.broadcastUsers(prev)
	}

	if !c.Presence.Join(room, sid, profile) {
		return // session vanished while the store was consulted
	}
	c.broadcastUsers(room)

	history, err := c.Messages.ReadRecent(ctx, room, c.HistoryLimit)
	if err != nil {
		// Fail open: an empty replay beats blocking the join.
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(room)).Msg("history read failed")
		history = nil
	}
	if history == nil {
		history = []domain.Message{}
	}
	c.Gateway.Send(sid, core.HistoryEvent{Type: core.EventHistory, Messages: history})
}

func (c *Coordinator) admit(ctx context.Context, room domain.RoomKey, attempt string) error {
	stored, err := c.Passwords.Get(ctx, room)
	switch {
	case err == nil:
		if stored != attempt {
			return ErrAdmissionDenied
		}
		return nil
	case errors.Is(err, store.ErrNotFound):
		// Unprotected so far; fall through.
	default:
		return err
	}

	if attempt == "" {
		return nil
	}
	created, err := c.Passwords.SetIfAbsent(ctx, room, attempt)
	if err != nil {
		return err
	}
	if !created {
		// Lost the set race; only the winner's value gates the room.
		stored, err := c.Passwords.Get(ctx, room)
		if err != nil {
			return err
		}
		if stored != attempt {
			return ErrAdmissionDenied
		}
	}
	return nil
}

// ChatMessage broadcasts a message to the sender's room, sender
// included, and appends it to the durable log best-effort. Live
// delivery is not gated on persistence, so durable order can differ
// from broadcast order under concurrent senders.
func (c *Coordinator) ChatMessage(ctx context.Context, sid core.SessionID, m domain.Message) {
	room := c.roomOrDefault(sid)
	if m.TS == 0 {
		m.TS = time.Now().UnixMilli()
	}
	c.Gateway.BroadcastRoom(room, core.ChatEvent{Type: core.EventChatMessage, Message: m}, NoExclude)
	if err := c.Messages.Append(ctx, room, m); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(room)).Msg("message not persisted")
	}
}

// Typing relays a typing indicator to every other member of the
// sender's room. A nil profile means "stopped typing" and is relayed
// identically.
func (c *Coordinator) Typing(sid core.SessionID, profile *domain.Profile) {
	room := c.roomOrDefault(sid)
	c.Gateway.BroadcastRoom(room, core.TypingEvent{Type: core.EventTyping, Profile: profile}, sid)
}

// ProfileUpdate overwrites the session's announced profile and
// broadcasts the refreshed roster.
func (c *Coordinator) ProfileUpdate(sid core.SessionID, profile domain.Profile) {
	room := c.roomOrDefault(sid)
	c.Presence.UpdateProfile(room, sid, profile)
	c.broadcastUsers(room)
}

// ClearChat wipes the room's durable history and tells every member to
// clear its view. The broadcast is not gated on the delete succeeding.
func (c *Coordinator) ClearChat(ctx context.Context, sid core.SessionID) {
	room := c.roomOrDefault(sid)
	if err := c.Messages.Clear(ctx, room); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(room)).Msg("clear failed")
	}
	c.Gateway.BroadcastRoom(room, core.ClearedEvent{Type: core.EventCleared}, NoExclude)
}

// Disconnect removes the session from presence and refreshes the roster
// of the room it was in, if any.
func (c *Coordinator) Disconnect(sid core.SessionID) {
	room, ok := c.Presence.Leave(sid)
	c.Presence.Unbind(sid)
	if ok {
		c.broadcastUsers(room)
	}
}

// roomOrDefault resolves the session's room, falling back to the
// default room for sessions that never joined.
func (c *Coordinator) roomOrDefault(sid core.SessionID) domain.RoomKey {
	if room, ok := c.Presence.RoomOf(sid); ok {
		return room
	}
	return domain.DefaultRoom
}

func (c *Coordinator) broadcastUsers(room domain.RoomKey) {
	c.Gateway.BroadcastRoom(room, core.UsersEvent{
		Type:  core.EventUsers,
		Users: c.Presence.Occupants(room),
	}, NoExclude)
}
