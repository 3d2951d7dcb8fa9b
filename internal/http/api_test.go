package httphandler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quintro/internal/auth"
	"quintro/internal/game"
	"quintro/internal/realtime"
	"quintro/internal/service"
	"quintro/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	games := service.New(st, st, realtime.NewHub(), log, service.Defaults{Width: 10, Height: 10, PlayerLimit: 2})
	sessions := auth.NewSessions([]byte("0123456789abcdef0123456789abcdef"))

	srv := httptest.NewServer(NewRouter(New(games, sessions, log)))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// call sends body as JSON and decodes the response into out when given
func call(t *testing.T, c *http.Client, method, url string, body, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type createdGame struct {
	Name        string        `json:"name"`
	State       game.State    `json:"state"`
	Players     []game.Player `json:"players"`
	Locked      bool          `json:"locked"`
	Board       game.Board    `json:"board"`
	PlayerLimit int           `json:"playerLimit"`
}

func TestAPI_GameLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ann, bob := newClient(t), newClient(t)

	var g createdGame
	require.Equal(t, http.StatusCreated, call(t, ann, "POST", srv.URL+"/api/games", map[string]any{"width": 9, "height": 7}, &g))
	assert.Equal(t, game.StateOpen, g.State)
	assert.Equal(t, 9, g.Board.Width())
	base := srv.URL + "/api/games/" + g.Name

	var joined struct {
		Player game.Player `json:"player"`
		Game   createdGame `json:"game"`
	}
	require.Equal(t, http.StatusCreated, call(t, ann, "POST", base+"/players", map[string]string{"name": "Ann"}, &joined))
	assert.Equal(t, "red", joined.Player.Color)
	annID := joined.Player.ID

	var errBody errorResp
	assert.Equal(t, http.StatusConflict, call(t, ann, "POST", base+"/start", nil, &errBody))
	assert.Contains(t, errBody.Error, "not enough players")
	assert.Equal(t, http.StatusConflict, call(t, ann, "POST", base+"/players", nil, &errBody))
	assert.Contains(t, errBody.Error, "already joined")

	require.Equal(t, http.StatusCreated, call(t, bob, "POST", base+"/players", map[string]string{"name": "Bob"}, &joined))
	assert.Equal(t, "blue", joined.Player.Color)
	assert.Len(t, joined.Game.Players, 2)

	assert.Equal(t, http.StatusUnauthorized, call(t, http.DefaultClient, "POST", base+"/start", nil, &errBody))
	require.Equal(t, http.StatusOK, call(t, ann, "POST", base+"/start", nil, &g))
	assert.Equal(t, game.StateStarted, g.State)

	assert.Equal(t, http.StatusConflict, call(t, bob, "POST", base+"/marbles", map[string]any{"position": []int{0, 0}}, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, ann, "POST", base+"/marbles", map[string]any{"position": []int{9, 0}}, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, ann, "POST", base+"/marbles", map[string]any{}, &errBody))

	type moveResp struct {
		Cell     game.Cell   `json:"cell"`
		Winner   string      `json:"winner"`
		Quintros []any       `json:"quintros"`
		Game     createdGame `json:"game"`
	}
	var move moveResp
	for c := 0; c < 4; c++ {
		require.Equal(t, http.StatusOK, call(t, ann, "POST", base+"/marbles", map[string]any{"position": []int{c, 2}}, &move))
		require.Equal(t, http.StatusOK, call(t, bob, "POST", base+"/marbles", map[string]any{"position": []int{c, 4}}, &move))
	}

	var suggestion struct {
		Position game.Position `json:"position"`
	}
	require.Equal(t, http.StatusOK, call(t, ann, "GET", base+"/suggestion", nil, &suggestion))
	assert.Equal(t, game.Pos(4, 2), suggestion.Position)

	var preview game.Delta
	require.Equal(t, http.StatusOK, call(t, bob, "POST", base+"/delta", map[string]any{"position": []int{4, 2}, "color": "red"}, &preview))
	assert.NotEmpty(t, preview.Changed)
	assert.Equal(t, http.StatusConflict, call(t, bob, "POST", base+"/delta", map[string]any{"position": []int{0, 2}, "color": "red"}, &errBody))

	require.Equal(t, http.StatusOK, call(t, ann, "POST", base+"/marbles", map[string]any{"position": []int{4, 2}}, &move))
	assert.Equal(t, "red", move.Winner)
	assert.Len(t, move.Quintros, 1)
	assert.Equal(t, game.StateOver, move.Game.State)

	var quintros struct {
		Quintros []struct {
			Color string `json:"color"`
		} `json:"quintros"`
	}
	require.Equal(t, http.StatusOK, call(t, bob, "GET", base+"/quintros", nil, &quintros))
	require.Len(t, quintros.Quintros, 1)
	assert.Equal(t, "red", quintros.Quintros[0].Color)

	var rematch createdGame
	require.Equal(t, http.StatusOK, call(t, bob, "POST", base+"/rematch", nil, &rematch))
	assert.Equal(t, game.StateOver, rematch.State)
	require.Equal(t, http.StatusOK, call(t, ann, "POST", base+"/rematch", nil, &rematch))
	assert.Equal(t, game.StateStarted, rematch.State)
	assert.Equal(t, 0, rematch.Board.NumFilled())
	assert.Equal(t, http.StatusConflict, call(t, ann, "POST", base+"/rematch", nil, &errBody))

	var stats store.PlayerStats
	require.Equal(t, http.StatusOK, call(t, ann, "GET", srv.URL+"/api/players/me/stats", nil, &stats))
	assert.Equal(t, annID, stats.PlayerID)
	assert.Equal(t, 1, stats.Wins)
	require.Equal(t, http.StatusOK, call(t, ann, "GET", srv.URL+"/api/players/"+annID+"/stats", nil, &stats))
	assert.Equal(t, "Ann", stats.Name)

	var board struct {
		Players []leaderboardRow `json:"players"`
	}
	require.Equal(t, http.StatusOK, call(t, bob, "GET", srv.URL+"/api/leaderboard", nil, &board))
	require.Len(t, board.Players, 2)
	assert.Equal(t, leaderboardRow{Rank: 1, PlayerID: annID, Name: "Ann", Games: 1, Wins: 1, WinRate: 100}, board.Players[0])
	assert.Equal(t, "Bob", board.Players[1].Name)
	assert.Equal(t, 0, board.Players[1].WinRate)

	require.Equal(t, http.StatusOK, call(t, bob, "GET", srv.URL+"/api/leaderboard?q=bo&limit=5", nil, &board))
	require.Len(t, board.Players, 1)
	assert.Equal(t, http.StatusBadRequest, call(t, bob, "GET", srv.URL+"/api/leaderboard?limit=x", nil, &errBody))
}

func TestAPI_PotentialQuintros(t *testing.T) {
	srv := newTestServer(t)
	ann, bob := newClient(t), newClient(t)

	var g createdGame
	require.Equal(t, http.StatusCreated, call(t, ann, "POST", srv.URL+"/api/games", nil, &g))
	base := srv.URL + "/api/games/" + g.Name
	require.Equal(t, http.StatusCreated, call(t, ann, "POST", base+"/players", nil, nil))
	require.Equal(t, http.StatusCreated, call(t, bob, "POST", base+"/players", nil, nil))
	require.Equal(t, http.StatusOK, call(t, bob, "POST", base+"/start", nil, nil))
	require.Equal(t, http.StatusOK, call(t, ann, "POST", base+"/marbles", map[string]any{"position": []int{5, 5}}, nil))

	var all quintrosResp
	require.Equal(t, http.StatusOK, call(t, ann, "GET", base+"/potential-quintros", nil, &all))
	assert.NotZero(t, all.Quintros.Len())

	var through quintrosResp
	require.Equal(t, http.StatusOK, call(t, ann, "GET", base+"/potential-quintros?column=5&row=5", nil, &through))
	assert.True(t, through.Quintros.Equals(all.Quintros))

	var errBody errorResp
	assert.Equal(t, http.StatusBadRequest, call(t, ann, "GET", base+"/potential-quintros?column=x&row=1", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, ann, "GET", base+"/potential-quintros?column=40&row=1", nil, &errBody))
}

func TestAPI_ListAndErrors(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	require.Equal(t, http.StatusCreated, call(t, c, "POST", srv.URL+"/api/games", map[string]any{"name": "public"}, nil))
	var locked createdGame
	require.Equal(t, http.StatusCreated, call(t, c, "POST", srv.URL+"/api/games",
		map[string]any{"name": "hidden", "private": true, "passcode": "pw"}, &locked))
	assert.True(t, locked.Locked)

	var list struct {
		Games []createdGame `json:"games"`
	}
	require.Equal(t, http.StatusOK, call(t, c, "GET", srv.URL+"/api/games", nil, &list))
	require.Len(t, list.Games, 1)
	assert.Equal(t, "public", list.Games[0].Name)

	var errBody errorResp
	assert.Equal(t, http.StatusBadRequest, call(t, c, "GET", srv.URL+"/api/games?state=nope", nil, &errBody))
	assert.Equal(t, http.StatusNotFound, call(t, c, "GET", srv.URL+"/api/games/missing", nil, &errBody))
	assert.Equal(t, http.StatusConflict, call(t, c, "POST", srv.URL+"/api/games", map[string]any{"name": "public"}, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, c, "POST", srv.URL+"/api/games", map[string]any{"width": 2}, &errBody))
	assert.Equal(t, http.StatusBadRequest, call(t, c, "POST", srv.URL+"/api/games", map[string]any{"bogus": 1}, &errBody))
	assert.Equal(t, http.StatusForbidden, call(t, c, "POST", srv.URL+"/api/games/hidden/players", map[string]any{"passcode": "no"}, &errBody))
	assert.Equal(t, http.StatusCreated, call(t, c, "POST", srv.URL+"/api/games/hidden/players", map[string]any{"passcode": "pw"}, nil))
	assert.Equal(t, http.StatusNotFound, call(t, c, "GET", srv.URL+"/api/players/nobody/stats", nil, &errBody))

	var health map[string]string
	require.Equal(t, http.StatusOK, call(t, c, "GET", srv.URL+"/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])
}

func TestAPI_StreamEvents(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	var g createdGame
	require.Equal(t, http.StatusCreated, call(t, c, "POST", srv.URL+"/api/games", nil, &g))

	resp, err := http.Get(srv.URL + "/api/games/" + g.Name + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() realtime.Event {
		t.Helper()
		var typ string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				typ = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				var ev realtime.Event
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
				assert.Equal(t, typ, ev.Type)
				return ev
			}
		}
		t.Fatal("stream ended")
		return realtime.Event{}
	}

	ev := next()
	assert.Equal(t, realtime.EventWatchersCount, ev.Type)
	assert.JSONEq(t, `{"count":1}`, string(ev.Payload))

	require.Equal(t, http.StatusCreated, call(t, c, "POST", srv.URL+"/api/games/"+g.Name+"/players", map[string]string{"name": "Ann"}, nil))

	ev = next()
	assert.Equal(t, realtime.EventGameJoined, ev.Type)
	assert.Equal(t, g.Name, ev.Game)
	var p game.Player
	require.NoError(t, json.Unmarshal(ev.Payload, &p))
	assert.Equal(t, "Ann", p.Name)

	assert.Equal(t, realtime.EventGameUpdated, next().Type)

	missing, err := http.Get(srv.URL + "/api/games/missing/events")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
