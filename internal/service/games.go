// Package service runs game operations against the store and publishes their events.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quintro/internal/game"
	"quintro/internal/realtime"
	"quintro/internal/store"
	"quintro/internal/util"
)

var (
	ErrWrongPasscode = errors.New("wrong passcode")
	ErrNoSuggestion  = errors.New("no move available")
)

const (
	nameLength   = 8
	nameAttempts = 5
)

// Defaults fill in settings a create request leaves unset
type Defaults struct {
	Width       int
	Height      int
	PlayerLimit int
}

// Games coordinates the engine, persistence and events for every game
type Games struct {
	games    store.GameRepository
	stats    store.StatsRepository
	hub      *realtime.Hub
	log      *slog.Logger
	defaults Defaults

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

func New(games store.GameRepository, stats store.StatsRepository, hub *realtime.Hub, log *slog.Logger, d Defaults) *Games {
	if log == nil {
		log = slog.Default()
	}
	return &Games{
		games:    games,
		stats:    stats,
		hub:      hub,
		log:      log,
		defaults: d,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lock serializes mutations of one game and returns its unlock
func (s *Games) lock(name string) func() {
	s.mu.Lock()
	m := s.locks[name]
	if m == nil {
		m = &sync.Mutex{}
		s.locks[name] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func (s *Games) publish(name, typ string, payload any) {
	ev, err := realtime.NewEvent(name, typ, payload)
	if err != nil {
		s.log.Error("encode event", "game", name, "type", typ, "err", err)
		return
	}
	s.hub.Publish(name, ev)
}

// CreateParams describes a new game; zero sizes take the defaults
type CreateParams struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PlayerLimit int    `json:"playerLimit"`
	Private     bool   `json:"private"`
	Passcode    string `json:"passcode"`
}


func (s *Games) Create(ctx context.Context, p CreateParams) (*game.Game, error) {
	if p.Width == 0 {
		p.Width = s.defaults.Width
	}
	if p.Height == 0 {
		p.Height = s.defaults.Height
	}
	if p.PlayerLimit == 0 {
		p.PlayerLimit = s.defaults.PlayerLimit
	}

	g, err := game.NewGame(strings.TrimSpace(p.Name), p.Width, p.Height, p.PlayerLimit)
	if err != nil {
		return nil, err
	}
	g.Private = p.Private
	if p.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash passcode: %w", err)
		}
		g.PasscodeHash = hash
	}

	if g.Name != "" {
		if err := s.games.Create(ctx, g); err != nil {
			return nil, err
		}
	} else {
		for i := 0; ; i++ {
			if g.Name, err = util.Code(nameLength); err != nil {
				return nil, fmt.Errorf("failed to generate name: %w", err)
			}
			err = s.games.Create(ctx, g)
			if err == nil {
				break
			}
			if !errors.Is(err, store.ErrExists) || i == nameAttempts-1 {
				return nil, err
			}
		}
	}

	s.log.Info("game created", "game", g.Name, "width", p.Width, "height", p.Height, "limit", p.PlayerLimit, "private", g.Private)
	return g, nil
}

func (s *Games) Get(ctx context.Context, name string) (*game.Game, error) {
	return s.games.Get(ctx, name)
}

// List returns public games, optionally only those in state
func (s *Games) List(ctx context.Context, state game.State) ([]*game.Game, error) {
	all, err := s.games.List(ctx, store.ListFilter{State: state})
	if err != nil {
		return nil, err
	}
	out := make([]*game.Game, 0, len(all))
	for _, g := range all {
		if !g.Private {
			out = append(out, g)
		}
	}
	return out, nil
}

// JoinParams identifies who joins; an empty PlayerID gets a fresh one
type JoinParams struct {
	PlayerID string `json:"-"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Passcode string `json:"passcode"`
}

func (s *Games) Join(ctx context.Context, name string, p JoinParams) (game.Player, *game.Game, error) {
	unlock := s.lock(name)
	defer unlock()

	g, err := s.games.Get(ctx, name)
	if err != nil {
		return game.Player{}, nil, err
	}
	if len(g.PasscodeHash) > 0 {
		if bcrypt.CompareHashAndPassword(g.PasscodeHash, []byte(p.Passcode)) != nil {
			return game.Player{}, nil, ErrWrongPasscode
		}
	}
	if p.PlayerID == "" {
		p.PlayerID = uuid.NewString()
	}

	player, err := game.Join(g, game.Player{ID: p.PlayerID, Name: strings.TrimSpace(p.Name), Color: p.Color})
	if err != nil {
		return game.Player{}, nil, err
	}
	if err := s.games.Update(ctx, g); err != nil {
		return game.Player{}, nil, err
	}

	s.log.Info("player joined", "game", name, "player", player.ID, "color", player.Color)
	s.publish(name, realtime.EventGameJoined, player)
	s.publish(name, realtime.EventGameUpdated, g)
	return player, g, nil
}

// Start begins play; only a seated player may start
func (s *Games) Start(ctx context.Context, name, playerID string) (*game.Game, error) {
	unlock := s.lock(name)
	defer unlock()

	g, err := s.games.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, ok := game.PlayerByID(g, playerID); !ok {
		return nil, game.ErrUnknownPlayer
	}
	if err := game.Start(g); err != nil {
		return nil, err
	}
	if err := s.games.Update(ctx, g); err != nil {
		return nil, err
	}

	s.log.Info("game started", "game", name, "players", len(g.Players))
	s.publish(name, realtime.EventGameStarted, g)
	return g, nil
}

// MarblePlaced is the payload of a placement event
type MarblePlaced struct {
	Cell   game.Cell  `json:"cell"`
	Delta  game.Delta `json:"delta"`
	Winner string     `json:"winner,omitempty"`
}

// GameOver is the payload sent when a game ends
type GameOver struct {
	Winner   string           `json:"winner,omitempty"`
	Draw     bool             `json:"draw"`
	Quintros *game.QuintroSet `json:"quintros"`
}

func (s *Games) PlaceMarble(ctx context.Context, name, playerID string, p game.Position) (game.MoveResult, *game.Game, error) {
	unlock := s.lock(name)
	defer unlock()

	g, err := s.games.Get(ctx, name)
	if err != nil {
		return game.MoveResult{}, nil, err
	}
	res, err := game.PlaceMarble(g, playerID, p)
	if err != nil {
		return game.MoveResult{}, nil, err
	}
	if err := s.games.Update(ctx, g); err != nil {
		return game.MoveResult{}, nil, err
	}

	s.log.Debug("marble placed", "game", name, "player", playerID, "cell", res.Cell.String())
	s.publish(name, realtime.EventMarblePlaced, MarblePlaced{Cell: res.Cell, Delta: res.Delta, Winner: res.Winner})
	s.publish(name, realtime.EventGameUpdated, g)

	if g.State == game.StateOver {
		s.log.Info("game over", "game", name, "winner", res.Winner, "draw", res.Draw)
		s.publish(name, realtime.EventGameOver, GameOver{Winner: res.Winner, Draw: res.Draw, Quintros: res.Quintros})
		if err := s.stats.RecordResult(ctx, g.Players, res.Winner); err != nil {
			s.log.Error("record result", "game", name, "err", err)
		}
	}
	return res, g, nil
}

// Rematch records playerID's wish to play again and restarts the game once everyone agreed
func (s *Games) Rematch(ctx context.Context, name, playerID string) (*game.Game, error) {
	unlock := s.lock(name)
	defer unlock()

	g, err := s.games.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	restarted, err := game.RequestRematch(g, playerID)
	if err != nil {
		return nil, err
	}
	if err := s.games.Update(ctx, g); err != nil {
		return nil, err
	}

	s.publish(name, realtime.EventGameUpdated, g)
	if restarted {
		s.log.Info("rematch started", "game", name, "round", g.Round)
		s.publish(name, realtime.EventGameStarted, g)
	}
	return g, nil
}

// PotentialQuintros lists potential quintros through start, or across the whole board when start is nil
func (s *Games) PotentialQuintros(ctx context.Context, name string, start *game.Position) (*game.QuintroSet, error) {
	g, err := s.games.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return game.GetAllPotentialQuintros(g.Board), nil
	}
	return game.GetPotentialQuintros(g.Board, &game.Cell{Position: *start})
}

// Quintros lists every complete quintro on the board
func (s *Games) Quintros(ctx context.Context, name string) (*game.QuintroSet, error) {
	g, err := s.games.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return game.GetAllPotentialQuintros(g.Board, game.WithNoEmptyCells()), nil
}

// Delta previews what placing cell would change without touching the game
func (s *Games) Delta(ctx context.Context, name string, cell game.Cell) (game.Delta, error) {
	g, err := s.games.Get(ctx, name)
	if err != nil {
		return game.Delta{}, err
	}
	return game.GetPotentialQuintroDelta(g.Board, cell)
}

// Suggest proposes a move for playerID
func (s *Games) Suggest(ctx context.Context, name, playerID string) (game.Position, error) {
	g, err := s.games.Get(ctx, name)
	if err != nil {
		return game.Position{}, err
	}
	player, ok := game.PlayerByID(g, playerID)
	if !ok {
		return game.Position{}, game.ErrUnknownPlayer
	}
	p, ok := game.SuggestMove(g.Board, player.Color, game.Opponents(g, playerID))
	if !ok {
		return game.Position{}, ErrNoSuggestion
	}
	return p, nil
}

// Stats returns the recorded results of a player
func (s *Games) Stats(ctx context.Context, playerID string) (store.PlayerStats, error) {
	return s.stats.Stats(ctx, playerID)
}

// Leaderboard ranks players whose name contains query
func (s *Games) Leaderboard(ctx context.Context, query string, limit int) ([]store.PlayerStats, error) {
	return s.stats.Leaderboard(ctx, strings.TrimSpace(query), limit)
}

// Subscribe follows the events of an existing game
func (s *Games) Subscribe(ctx context.Context, name string) (<-chan realtime.Event, func(), error) {
	if _, err := s.games.Get(ctx, name); err != nil {
		return nil, nil, err
	}
	ch, unsub := s.hub.Subscribe(name)
	return ch, unsub, nil
}

// Watchers returns how many clients follow a game
func (s *Games) Watchers(name string) int {
	return s.hub.Watchers(name)
}
