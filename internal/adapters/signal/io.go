package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drives the per-connection event loop. Events from one
// connection are processed in the order received; its exit is the
// transport-level disconnect.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Coord.Disconnect(sid)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read end")
				return
			}
			ctl.handleEvent(ctx, sid, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendJSON(c, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}

	switch env.Type {
	case core.EventJoin:
		ctl.handleJoin(ctx, sid, c, data)
	case core.EventChatMessage:
		ctl.handleChat(ctx, sid, c, data)
	case core.EventTyping:
		ctl.handleTyping(sid, c, data)
	case core.EventProfileUpdate:
		ctl.handleProfileUpdate(sid, c, data)
	case core.EventClearChat:
		ctl.Coord.ClearChat(ctx, sid)
	case core.EventPing:
		ctl.handlePing(c)
	case core.EventCreateProfile:
		ctl.handleCreateProfile(ctx, sid, c, data)
	case core.EventListProfiles:
		ctl.Feed.ListProfiles(ctx, sid)
	case core.EventCreatePost:
		ctl.handleCreatePost(ctx, sid, c, data)
	case core.EventListPosts:
		ctl.Feed.ListPosts(ctx, sid)
	case core.EventCreateGroup:
		ctl.handleCreateGroup(ctx, sid, c, data)
	case core.EventListGroups:
		ctl.Feed.ListGroups(ctx, sid)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
