package httphandler

import "net/http"

// ShowStats returns the results of a player; "me" resolves to the session player
func (h *Handler) ShowStats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "me" {
		pid, err := h.playerID(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		id = pid
	}
	st, err := h.games.Stats(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
