package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/app"
	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

func (ctl *Controller) handleJoin(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type string `json:"type"`
		app.JoinRequest
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}

	if !ctl.joinLimiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventJoinError, Error: "Too many join attempts"})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room).Msg("join")
	ctl.Coord.Join(ctx, sid, p.JoinRequest)
}

func (ctl *Controller) handleChat(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type string `json:"type"`
		domain.Message
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	ctl.Coord.ChatMessage(ctx, sid, p.Message)
}

func (ctl *Controller) handleTyping(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	// profile is null when the sender stopped typing; the relay keeps
	// that distinction.
	var p struct {
		Type    string          `json:"type"`
		Profile *domain.Profile `json:"profile"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad typing payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	ctl.Coord.Typing(sid, p.Profile)
}
