package httphandler

import "net/http"

// Rematch records the session player's consent and restarts the game once every player agreed
func (h *Handler) Rematch(w http.ResponseWriter, r *http.Request) {
	pid, err := h.playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	g, err := h.games.Rematch(r.Context(), r.PathValue("name"), pid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(g))
}
