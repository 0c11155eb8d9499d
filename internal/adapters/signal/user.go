package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

func (ctl *Controller) handleProfileUpdate(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type    string         `json:"type"`
		Profile domain.Profile `json:"profile"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad profile payload")
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: "bad_payload"})
		return
	}
	if p.Profile.ID == "" {
		ctl.sendJSON(conn, core.ErrorEvent{Type: core.EventError, Error: domain.ErrProfileIDEmpty.Error()})
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("profile", p.Profile.ID).Msg("profile update")
	ctl.Coord.ProfileUpdate(sid, p.Profile)
}
