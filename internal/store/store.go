// Package store persists games and player results in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"quintro/internal/game"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	name TEXT PRIMARY KEY,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	player_limit INTEGER NOT NULL,
	players TEXT NOT NULL DEFAULT '[]',
	board TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT 'open',
	winner TEXT,
	current_player INTEGER NOT NULL DEFAULT 0,
	round INTEGER NOT NULL DEFAULT 0,
	rematch_votes TEXT NOT NULL DEFAULT '[]',
	private INTEGER NOT NULL DEFAULT 0,
	passcode_hash BLOB,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_state ON games(state);

CREATE TABLE IF NOT EXISTS player_stats (
	player_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	games INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0
);
`

// GameRepository persists games by name
type GameRepository interface {
	Create(ctx context.Context, g *game.Game) error
	Get(ctx context.Context, name string) (*game.Game, error)
	Update(ctx context.Context, g *game.Game) error
	List(ctx context.Context, f ListFilter) ([]*game.Game, error)
	Delete(ctx context.Context, name string) error
}

// StatsRepository keeps per-player results of finished games
type StatsRepository interface {
	RecordResult(ctx context.Context, players []game.Player, winnerColor string) error
	Stats(ctx context.Context, playerID string) (PlayerStats, error)
	Leaderboard(ctx context.Context, query string, limit int) ([]PlayerStats, error)
}

var (
	_ GameRepository  = (*Store)(nil)
	_ StatsRepository = (*Store)(nil)
)

// Store implements game and stats persistence on a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path; ":memory:" gives a private in-memory database
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ListFilter narrows List; zero values match everything
type ListFilter struct {
	State game.State
	Limit int
}

// Create persists a new game
func (s *Store) Create(ctx context.Context, g *game.Game) error {
	players, board, votes, err := encodeGame(g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (name, width, height, player_limit, players, board, state, winner, current_player, round, rematch_votes, private, passcode_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Name, g.Board.Width(), g.Board.Height(), g.PlayerLimit, players, board, string(g.State),
		nullString(g.Winner), g.CurrentPlayerIndex, g.Round, votes, g.Private, g.PasscodeHash,
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("game %s: %w", g.Name, ErrExists)
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

const selectGame = `SELECT name, player_limit, players, board, state, winner, current_player, round, rematch_votes, private, passcode_hash, created_at, updated_at FROM games`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*game.Game, error) {
	var (
		g                    game.Game
		players, board       string
		votes                string
		state                string
		winner               sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&g.Name, &g.PlayerLimit, &players, &board, &state, &winner,
		&g.CurrentPlayerIndex, &g.Round, &votes, &g.Private, &g.PasscodeHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(players), &g.Players); err != nil {
		return nil, fmt.Errorf("failed to decode players of %s: %w", g.Name, err)
	}
	if err := json.Unmarshal([]byte(board), &g.Board); err != nil {
		return nil, fmt.Errorf("failed to decode board of %s: %w", g.Name, err)
	}
	if err := json.Unmarshal([]byte(votes), &g.RematchVotes); err != nil {
		return nil, fmt.Errorf("failed to decode rematch votes of %s: %w", g.Name, err)
	}
	if len(g.RematchVotes) == 0 {
		g.RematchVotes = nil
	}
	g.State = game.State(state)
	g.Winner = winner.String
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}

// Get retrieves a game by name
func (s *Store) Get(ctx context.Context, name string) (*game.Game, error) {
	g, err := scanGame(s.db.QueryRowContext(ctx, selectGame+" WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// List retrieves games, newest first
func (s *Store) List(ctx context.Context, f ListFilter) ([]*game.Game, error) {
	query := selectGame + " WHERE 1=1"
	args := []any{}
	if f.State != "" {
		query += " AND state = ?"
		args = append(args, string(f.State))
	}
	query += " ORDER BY created_at DESC, name"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var out []*game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update overwrites the mutable state of an existing game
func (s *Store) Update(ctx context.Context, g *game.Game) error {
	players, board, votes, err := encodeGame(g)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET players = ?, board = ?, state = ?, winner = ?, current_player = ?, round = ?, rematch_votes = ?, updated_at = ? WHERE name = ?`,
		players, board, string(g.State), nullString(g.Winner), g.CurrentPlayerIndex, g.Round, votes, formatTime(g.UpdatedAt), g.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %s: %w", g.Name, ErrNotFound)
	}
	return nil
}

// Delete removes a game
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %s: %w", name, ErrNotFound)
	}
	return nil
}

func encodeGame(g *game.Game) (players, board, votes string, err error) {
	p, err := json.Marshal(g.Players)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode players: %w", err)
	}
	b, err := json.Marshal(g.Board)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode board: %w", err)
	}
	v := g.RematchVotes
	if v == nil {
		v = []string{}
	}
	rv, err := json.Marshal(v)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode rematch votes: %w", err)
	}
	return string(p), string(b), string(rv), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
