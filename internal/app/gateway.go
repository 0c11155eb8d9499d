package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

// NoExclude broadcasts to every member of the room.
const NoExclude core.SessionID = ""

// Gateway fans events out to live connections. Delivery is best effort:
// a full send buffer or a closed peer drops the frame and is never
// surfaced to the caller as an error.
type Gateway struct {
	presence *Presence
}

func NewGateway(p *Presence) *Gateway {
	return &Gateway{presence: p}
}

// Send delivers one event to one session. Unknown sessions are dropped
// silently.
func (g *Gateway) Send(sid core.SessionID, v any) {
	conn, ok := g.presence.Conn(sid)
	if !ok {
		return
	}
	frame, err := marshal(v)
	if err != nil {
		return
	}
	_ = conn.TrySend(frame)
}

// BroadcastRoom delivers one event to every session currently in room,
// optionally excluding one (NoExclude for none).
func (g *Gateway) BroadcastRoom(room domain.RoomKey, v any, exclude core.SessionID) {
	frame, err := marshal(v)
	if err != nil {
		return
	}
	var dropped int
	for _, m := range g.presence.Members(room) {
		if m.SID == exclude {
			continue
		}
		if err := m.Conn.TrySend(frame); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("module", "app.gateway").Str("room", string(room)).Int("dropped", dropped).Msg("broadcast drops")
	}
}

// BroadcastAll delivers one event to every bound session, joined to a
// room or not. Used by the room-independent feed surface.
func (g *Gateway) BroadcastAll(v any) {
	frame, err := marshal(v)
	if err != nil {
		return
	}
	for _, m := range g.presence.All() {
		_ = m.Conn.TrySend(frame)
	}
}

func marshal(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.gateway").Msg("event marshal")
		return nil, err
	}
	return core.Frame(b), nil
}
