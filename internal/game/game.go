package game

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrGameNotOpen      = errors.New("game is not open for joining")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrGameOver         = errors.New("game over")
	ErrGameFull         = errors.New("game is full")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCellFilled       = errors.New("cell already filled")
	ErrColorTaken       = errors.New("color already taken")
	ErrInvalidColor     = errors.New("invalid color")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrUnknownPlayer    = errors.New("player is not in this game")
	ErrInvalidSettings  = errors.New("invalid game settings")
	ErrGameNotOver      = errors.New("game is still in progress")
)

const (
	MinPlayers     = 2
	MaxPlayerLimit = 8
)

// Colors is the palette handed out, in order, to players who do not pick one
var Colors = []string{"red", "blue", "green", "yellow", "purple", "orange", "black", "white"}

type State string

const (
	StateOpen    State = "open"
	StateStarted State = "started"
	StateOver    State = "over"
)

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Game struct {
	Name               string    `json:"name"`
	Board              Board     `json:"board"`
	PlayerLimit        int       `json:"playerLimit"`
	Players            []Player  `json:"players"`
	State              State     `json:"state"`
	Winner             string    `json:"winner,omitempty"` // winning color, empty while playing or on a draw
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	Round              int       `json:"round"`                  // completed rematches, rotates the first player
	RematchVotes       []string  `json:"rematchVotes,omitempty"` // ids of players asking for a rematch
	Private            bool      `json:"private"`
	PasscodeHash       []byte    `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// MoveResult is what a successful placement produced
type MoveResult struct {
	Cell     Cell        `json:"cell"`
	Delta    Delta       `json:"delta"`
	Quintros *QuintroSet `json:"quintros"`
	Winner   string      `json:"winner,omitempty"`
	Draw     bool        `json:"draw"`
}

// NewGame creates an open game with an empty width x height board
func NewGame(name string, width, height, playerLimit int) (*Game, error) {
	if width < MinBoardSize || width > MaxBoardSize || height < MinBoardSize || height > MaxBoardSize {
		return nil, fmt.Errorf("%w: board %dx%d must be between %d and %d", ErrInvalidSettings, width, height, MinBoardSize, MaxBoardSize)
	}
	if playerLimit < MinPlayers || playerLimit > MaxPlayerLimit {
		return nil, fmt.Errorf("%w: player limit %d must be between %d and %d", ErrInvalidSettings, playerLimit, MinPlayers, MaxPlayerLimit)
	}
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Game{
		Name:        name,
		Board:       b,
		PlayerLimit: playerLimit,
		Players:     []Player{},
		State:       StateOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PlayerByID returns the player with id
func PlayerByID(g *Game, id string) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// CurrentPlayer returns the player expected to move
func CurrentPlayer(g *Game) (Player, bool) {
	if g.State != StateStarted || len(g.Players) == 0 {
		return Player{}, false
	}
	return g.Players[g.CurrentPlayerIndex%len(g.Players)], true
}

// Opponents returns the colors of every player but the one with id
func Opponents(g *Game, id string) []string {
	var out []string
	for _, p := range g.Players {
		if p.ID != id {
			out = append(out, p.Color)
		}
	}
	return out
}

// Join adds p to an open game, picking the first free palette color if p has none
func Join(g *Game, p Player) (Player, error) {
	if g.State != StateOpen {
		return Player{}, ErrGameNotOpen
	}
	if _, ok := PlayerByID(g, p.ID); ok {
		return Player{}, ErrAlreadyJoined
	}
	if len(g.Players) >= g.PlayerLimit {
		return Player{}, ErrGameFull
	}

	taken := make([]string, 0, len(g.Players))
	for _, other := range g.Players {
		taken = append(taken, other.Color)
	}
	if p.Color == "" {
		for _, c := range Colors {
			if !slices.Contains(taken, c) {
				p.Color = c
				break
			}
		}
	} else if slices.Contains(taken, p.Color) {
		return Player{}, ErrColorTaken
	}

	g.Players = append(g.Players, p)
	g.UpdatedAt = time.Now().UTC()
	return p, nil
}

// Start moves an open game with enough players to started
func Start(g *Game) error {
	if g.State != StateOpen {
		return ErrGameNotOpen
	}
	if len(g.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	g.State = StateStarted
	g.CurrentPlayerIndex = g.Round % len(g.Players)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// advanceTurn passes the move to the next player in join order
func advanceTurn(g *Game) {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
}

// PlaceMarble drops the current player's marble at p and checks for a quintro through it
func PlaceMarble(g *Game, playerID string, p Position) (MoveResult, error) {
	switch g.State {
	case StateOpen:
		return MoveResult{}, ErrGameNotStarted
	case StateOver:
		return MoveResult{}, ErrGameOver
	}
	player, ok := PlayerByID(g, playerID)
	if !ok {
		return MoveResult{}, ErrUnknownPlayer
	}
	if cur, _ := CurrentPlayer(g); cur.ID != player.ID {
		return MoveResult{}, ErrNotYourTurn
	}

	nb, cell, err := addMarble(g.Board, p, player.Color)
	if err != nil {
		return MoveResult{}, err
	}
	delta, err := GetPotentialQuintroDelta(g.Board, cell)
	if err != nil {
		return MoveResult{}, err
	}
	quintros, err := GetQuintros(nb, &cell)
	if err != nil {
		return MoveResult{}, err
	}

	g.Board = nb
	g.UpdatedAt = time.Now().UTC()
	res := MoveResult{Cell: cell, Delta: delta, Quintros: quintros}
	switch {
	case quintros.Len() > 0:
		g.State = StateOver
		g.Winner = cell.Color
		res.Winner = cell.Color
	case nb.IsFull():
		g.State = StateOver
		res.Draw = true
	default:
		advanceTurn(g)
	}
	return res, nil
}

// RequestRematch records playerID's consent on a finished game and, once every
// player agreed, clears the board and starts the next round with the next first player
func RequestRematch(g *Game, playerID string) (bool, error) {
	if g.State != StateOver {
		return false, ErrGameNotOver
	}
	if _, ok := PlayerByID(g, playerID); !ok {
		return false, ErrUnknownPlayer
	}
	if !slices.Contains(g.RematchVotes, playerID) {
		g.RematchVotes = append(g.RematchVotes, playerID)
	}
	g.UpdatedAt = time.Now().UTC()
	if len(g.RematchVotes) < len(g.Players) {
		return false, nil
	}

	b, err := NewBoard(g.Board.Width(), g.Board.Height())
	if err != nil {
		return false, err
	}
	g.Board = b
	g.Winner = ""
	g.RematchVotes = nil
	g.Round++
	g.State = StateStarted
	g.CurrentPlayerIndex = g.Round % len(g.Players)
	return true, nil
}
