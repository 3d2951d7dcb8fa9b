package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const keepAliveEvery = 25 * time.Second

// StreamEvents relays hub events of one game as Server-Sent Events until the client leaves
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	events, unsub, err := h.games.Subscribe(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer unsub()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.log.Warn("stream not flushable", "game", name, "err", err)
		return
	}

	tick := time.NewTicker(keepAliveEvery)
	defer tick.Stop()
	for {
		select {
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("encode event", "game", name, "type", ev.Type, "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
		case <-tick.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
