package httphandler

import (
	"fmt"
	"net/http"
	"strconv"

	"quintro/internal/game"
)

type quintrosResp struct {
	Quintros *game.QuintroSet `json:"quintros"`
}

func (h *Handler) ShowQuintros(w http.ResponseWriter, r *http.Request) {
	qs, err := h.games.Quintros(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quintrosResp{Quintros: qs})
}

// positionQuery reads ?column=&row=; both or neither must be present
func positionQuery(r *http.Request) (*game.Position, error) {
	q := r.URL.Query()
	cs, rs := q.Get("column"), q.Get("row")
	if cs == "" && rs == "" {
		return nil, nil
	}
	col, err := strconv.Atoi(cs)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q", errBadRequest, cs)
	}
	row, err := strconv.Atoi(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: row %q", errBadRequest, rs)
	}
	p := game.Pos(col, row)
	return &p, nil
}

// ShowPotentialQuintros lists potential quintros of the board or through one position
func (h *Handler) ShowPotentialQuintros(w http.ResponseWriter, r *http.Request) {
	p, err := positionQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	qs, err := h.games.PotentialQuintros(r.Context(), r.PathValue("name"), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quintrosResp{Quintros: qs})
}

// PreviewDelta reports what placing the posted cell would change
func (h *Handler) PreviewDelta(w http.ResponseWriter, r *http.Request) {
	var cell game.Cell
	if err := decodeJSON(r, &cell); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.games.Delta(r.Context(), r.PathValue("name"), cell)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) ShowSuggestion(w http.ResponseWriter, r *http.Request) {
	pid, err := h.playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.games.Suggest(r.Context(), r.PathValue("name"), pid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]game.Position{"position": p})
}
