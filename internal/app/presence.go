package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

type sessionEntry struct {
	conn    core.SignalConnection
	room    domain.RoomKey // "" until the session joins a room
	profile domain.Profile
}

// Presence is the process-local index of live sessions. It owns the
// connection→room attachment; the connection itself stores nothing.
// Rebuilt from live connections only, never persisted.
type Presence struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewPresence() *Presence {
	return &Presence{sessions: make(map[core.SessionID]*sessionEntry)}
}

// Bind registers a live transport session before any join.
func (p *Presence) Bind(sid core.SessionID, conn core.SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sid] = &sessionEntry{conn: conn}
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Msg("bound session")
}

// Unbind forgets the session entirely. Call Leave first if the roster
// of its room must be refreshed.
func (p *Presence) Unbind(sid core.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, sid)
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Msg("unbound session")
}

// Conn returns the transport endpoint for a session.
func (p *Presence) Conn(sid core.SessionID) (core.SignalConnection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.sessions[sid]; ok {
		return e.conn, true
	}
	return nil, false
}

// Join attaches the session to room with the announced profile,
// overwriting any previous attachment. Reports false if the session is
// no longer bound.
func (p *Presence) Join(room domain.RoomKey, sid core.SessionID, profile domain.Profile) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.sessions[sid]
	if !ok {
		return false
	}
	e.room = room
	e.profile = profile
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	return true
}

// Leave detaches the session from whichever room it is in and returns
// that room. No-op if the session is absent or unjoined.
func (p *Presence) Leave(sid core.SessionID) (domain.RoomKey, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.sessions[sid]
	if !ok || e.room == "" {
		return "", false
	}
	room := e.room
	e.room = ""
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	return room, true
}

// UpdateProfile overwrites the profile for an occupant of room. A
// session not yet in the room is treated as a late join; an unknown
// session is a no-op.
func (p *Presence) UpdateProfile(room domain.RoomKey, sid core.SessionID, profile domain.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.sessions[sid]
	if !ok {
		return
	}
	if e.room == "" {
		e.room = room
	}
	e.profile = profile
}

// RoomOf returns the room the session is currently attached to.
func (p *Presence) RoomOf(sid core.SessionID) (domain.RoomKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.sessions[sid]
	if !ok || e.room == "" {
		return "", false
	}
	return e.room, true
}

// Occupants returns a snapshot of the profiles currently in room.
// Element order is not significant.
func (p *Presence) Occupants(room domain.RoomKey) []domain.Profile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Profile, 0, len(p.sessions))
	for _, e := range p.sessions {
		if e.room == room {
			out = append(out, e.profile)
		}
	}
	return out
}

// memberSnap pairs a session with its endpoint for fan-out.
type memberSnap struct {
	SID  core.SessionID
	Conn core.SignalConnection
}

// Members returns a fan-out snapshot of the sessions in room.
func (p *Presence) Members(room domain.RoomKey) []memberSnap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]memberSnap, 0, len(p.sessions))
	for sid, e := range p.sessions {
		if e.room == room {
			out = append(out, memberSnap{SID: sid, Conn: e.conn})
		}
	}
	return out
}

// RoomInfo is a read-only view of a live room for the REST API.
type RoomInfo struct {
	Key           domain.RoomKey `json:"key"`
	OccupantCount int            `json:"occupant_count"`
}

// Rooms lists the rooms that currently have occupants. Empty rooms are
// invisible here; their history and password live only in the store.
func (p *Presence) Rooms() []RoomInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	counts := make(map[domain.RoomKey]int)
	for _, e := range p.sessions {
		if e.room != "" {
			counts[e.room]++
		}
	}
	out := make([]RoomInfo, 0, len(counts))
	for room, n := range counts {
		out = append(out, RoomInfo{Key: room, OccupantCount: n})
	}
	return out
}

// All returns a fan-out snapshot of every bound session, joined or not.
func (p *Presence) All() []memberSnap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]memberSnap, 0, len(p.sessions))
	for sid, e := range p.sessions {
		out = append(out, memberSnap{SID: sid, Conn: e.conn})
	}
	return out
}
