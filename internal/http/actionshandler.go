package httphandler

import (
	"net/http"

	"quintro/internal/game"
)

type playReq struct {
	Position *game.Position `json:"position"`
}

type playResp struct {
	game.MoveResult
	Game gameResp `json:"game"`
}

// Play places the session player's marble
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	pid, err := h.playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req playReq
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Position == nil {
		h.writeError(w, r, game.ErrStartCellRequired)
		return
	}

	res, g, err := h.games.PlaceMarble(r.Context(), r.PathValue("name"), pid, *req.Position)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playResp{MoveResult: res, Game: h.view(g)})
}
