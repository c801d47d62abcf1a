package signal

import (
	"encoding/json"

	"github.com/dkeye/Parley/internal/core"
	"github.com/rs/zerolog/log"
)

// handlePing answers on the connection directly without touching shared state.
func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	b, err := json.Marshal(core.RoomFrame{Type: core.EventPong})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("marshal pong")
		return
	}
	_ = c.TrySend(b)
}
