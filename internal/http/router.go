package httphandler

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"quintro/internal/auth"
	"quintro/internal/service"
)

type Handler struct {
	games    *service.Games
	sessions *auth.Sessions
	log      *slog.Logger
}

func New(games *service.Games, sessions *auth.Sessions, log *slog.Logger) *Handler {
	return &Handler{games: games, sessions: sessions, log: newLogger(log)}
}

// Register wires all API routes onto mux
func (h *Handler) Register(mux *nethttp.ServeMux) {
	// games
	mux.HandleFunc("POST /api/games", h.CreateGame)
	mux.HandleFunc("GET /api/games", h.ListGames)
	mux.HandleFunc("GET /api/games/{name}", h.ShowGame)
	mux.HandleFunc("POST /api/games/{name}/players", h.JoinGame)
	mux.HandleFunc("POST /api/games/{name}/start", h.StartGame)

	// gameplay
	mux.HandleFunc("POST /api/games/{name}/marbles", h.Play)
	mux.HandleFunc("POST /api/games/{name}/rematch", h.Rematch)

	// board analysis
	mux.HandleFunc("GET /api/games/{name}/quintros", h.ShowQuintros)
	mux.HandleFunc("GET /api/games/{name}/potential-quintros", h.ShowPotentialQuintros)
	mux.HandleFunc("POST /api/games/{name}/delta", h.PreviewDelta)
	mux.HandleFunc("GET /api/games/{name}/suggestion", h.ShowSuggestion)

	// live updates
	mux.HandleFunc("GET /api/games/{name}/events", h.StreamEvents)

	// players
	mux.HandleFunc("GET /api/players/{id}/stats", h.ShowStats)
	mux.HandleFunc("GET /api/leaderboard", h.ShowLeaderboard)

	mux.HandleFunc("GET /healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewRouter builds the API mux wrapped in request logging
func NewRouter(h *Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	h.Register(mux)
	return requestLogger(h.log, mux)
}

// statusWriter captures HTTP status and bytes written
type statusWriter struct {
	nethttp.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = nethttp.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the flusher of the underlying writer
func (w *statusWriter) Unwrap() nethttp.ResponseWriter { return w.ResponseWriter }

// requestLogger logs method, path, status, bytes, and duration
func requestLogger(logger *slog.Logger, next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", time.Since(start).Round(time.Millisecond),
		)
	})
}
