package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

func (ctl *Controller) handleCreateProfile(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type    string         `json:"type"`
		Profile domain.Profile `json:"profile"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_profile payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	ctl.Feed.CreateProfile(ctx, sid, p.Profile)
}

func (ctl *Controller) handleCreatePost(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type   string        `json:"type"`
		Author domain.Author `json:"author"`
		Text   string        `json:"text"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_post payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	ctl.Feed.CreatePost(ctx, sid, p.Author, p.Text)
}

func (ctl *Controller) handleCreateGroup(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type    string   `json:"type"`
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create_group payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	ctl.Feed.CreateGroup(ctx, sid, p.Name, p.Members)
}
