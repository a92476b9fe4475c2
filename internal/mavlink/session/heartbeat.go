package session

import "time"

// DefaultHeartbeatInterval is the period ground stations expect.
const DefaultHeartbeatInterval = time.Second

// HeartbeatTicker triggers periodic heartbeat sends. It is decoupled
// from the Session: the caller's loop forwards each trigger into
// Send(Heartbeat()).
//
// The first trigger fires one full period after creation, not
// immediately. If consumption lags, intermediate ticks are coalesced;
// there is no backlog.
type HeartbeatTicker struct {
	C <-chan time.Time

	t *time.Ticker
}

// NewHeartbeatTicker creates a ticker with the given period.
// Non-positive intervals fall back to DefaultHeartbeatInterval.
func NewHeartbeatTicker(interval time.Duration) *HeartbeatTicker {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	t := time.NewTicker(interval)
	return &HeartbeatTicker{C: t.C, t: t}
}

// Stop releases the ticker. It does not close C.
func (h *HeartbeatTicker) Stop() {
	h.t.Stop()
}
