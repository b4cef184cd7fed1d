package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// handleStream upgrades to a websocket and pushes the symbol's quote
// immediately and then on every tick, replacing client-side polling.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Drain client frames so closes are noticed.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.deps.StreamInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		quote, err := s.deps.Quotes.Quote(ctx, symbol)
		if err != nil {
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "quote unavailable")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}
		if err := conn.WriteJSON(quote); err != nil {
			return
		}

		select {
		case <-clientGone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
