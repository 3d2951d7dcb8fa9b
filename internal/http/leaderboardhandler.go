package httphandler

import (
	"net/http"
	"strconv"
)

type leaderboardRow struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	WinRate  int    `json:"winRate"`
}

// ShowLeaderboard ranks players, filtered by ?q= on the name and capped by ?limit=
func (h *Handler) ShowLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.writeError(w, r, errBadRequest)
			return
		}
		limit = n
	}

	list, err := h.games.Leaderboard(r.Context(), q.Get("q"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows := make([]leaderboardRow, 0, len(list))
	for i, st := range list {
		wr := 0
		if st.Games > 0 {
			wr = int((float64(st.Wins) / float64(st.Games)) * 100)
		}
		rows = append(rows, leaderboardRow{
			Rank:     i + 1,
			PlayerID: st.PlayerID,
			Name:     st.Name,
			Games:    st.Games,
			Wins:     st.Wins,
			Losses:   st.Losses,
			Draws:    st.Draws,
			WinRate:  wr,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": rows})
}
