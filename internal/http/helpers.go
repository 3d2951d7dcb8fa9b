package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"quintro/internal/game"
	"quintro/internal/service"
	"quintro/internal/store"
)

var (
	errBadRequest = errors.New("bad request")
	errNoSession  = errors.New("no player session")
)

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into v; an empty body leaves v untouched
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrWrongPasscode),
		errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusForbidden
	case errors.Is(err, store.ErrExists),
		errors.Is(err, game.ErrGameNotOpen),
		errors.Is(err, game.ErrGameNotStarted),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrGameNotOver),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrCellFilled),
		errors.Is(err, game.ErrDuplicateCell),
		errors.Is(err, game.ErrColorTaken),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, service.ErrNoSuggestion):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, game.ErrInvalidSettings),
		errors.Is(err, game.ErrInvalidDimensions),
		errors.Is(err, game.ErrCellOutOfBounds),
		errors.Is(err, game.ErrInvalidColor),
		errors.Is(err, game.ErrEmptyFilledCell),
		errors.Is(err, game.ErrStartCellRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResp{Error: msg})
}

// playerID returns the session player or errNoSession
func (h *Handler) playerID(r *http.Request) (string, error) {
	id, ok := h.sessions.PlayerID(r)
	if !ok {
		return "", errNoSession
	}
	return id, nil
}

func newLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
