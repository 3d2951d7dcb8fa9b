package httphandler

import (
	"net/http"

	"quintro/internal/game"
	"quintro/internal/service"
)

// gameResp is the public view of a game
type gameResp struct {
	*game.Game
	Locked   bool `json:"locked"`
	Watchers int  `json:"watchers"`
}

func (h *Handler) view(g *game.Game) gameResp {
	return gameResp{Game: g, Locked: len(g.PasscodeHash) > 0, Watchers: h.games.Watchers(g.Name)}
}

// CreateGame creates a game from optional settings
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateParams
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	g, err := h.games.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(g))
}

// ListGames lists public games, filtered by ?state=
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	state := game.State(r.URL.Query().Get("state"))
	switch state {
	case "", game.StateOpen, game.StateStarted, game.StateOver:
	default:
		h.writeError(w, r, errBadRequest)
		return
	}
	games, err := h.games.List(r.Context(), state)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]gameResp, 0, len(games))
	for _, g := range games {
		out = append(out, h.view(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}

func (h *Handler) ShowGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(g))
}

type joinResp struct {
	Player game.Player `json:"player"`
	Game   gameResp    `json:"game"`
}

// JoinGame seats the session player, issuing a session on first contact
func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	var req service.JoinParams
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.PlayerID = h.sessions.Ensure(w, r)

	p, g, err := h.games.Join(r.Context(), r.PathValue("name"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, joinResp{Player: p, Game: h.view(g)})
}

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	pid, err := h.playerID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	g, err := h.games.Start(r.Context(), r.PathValue("name"), pid)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(g))
}
