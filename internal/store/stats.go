package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quintro/internal/game"
)

// PlayerStats aggregates finished games for one player
type PlayerStats struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// RecordResult counts a finished game for every player in one transaction.
// An empty winner color records a draw.
func (s *Store) RecordResult(ctx context.Context, players []game.Player, winnerColor string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, p := range players {
		var win, loss, draw int
		switch {
		case winnerColor == "":
			draw = 1
		case p.Color == winnerColor:
			win = 1
		default:
			loss = 1
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO player_stats (player_id, name, games, wins, losses, draws) VALUES (?, ?, 1, ?, ?, ?)
			 ON CONFLICT(player_id) DO UPDATE SET
				name = excluded.name,
				games = games + 1,
				wins = wins + excluded.wins,
				losses = losses + excluded.losses,
				draws = draws + excluded.draws`,
			p.ID, p.Name, win, loss, draw,
		)
		if err != nil {
			return fmt.Errorf("failed to record result for %s: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}
	return nil
}

// Stats retrieves the aggregate for a player
func (s *Store) Stats(ctx context.Context, playerID string) (PlayerStats, error) {
	st := PlayerStats{PlayerID: playerID}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, games, wins, losses, draws FROM player_stats WHERE player_id = ?", playerID,
	).Scan(&st.Name, &st.Games, &st.Wins, &st.Losses, &st.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerStats{}, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return PlayerStats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return st, nil
}

// Leaderboard returns players matching query by name, ordered by wins, then
// fewer losses, then name
func (s *Store) Leaderboard(ctx context.Context, query string, limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, name, games, wins, losses, draws FROM player_stats
		 WHERE ? = '' OR name LIKE '%' || ? || '%'
		 ORDER BY wins DESC, losses ASC, name ASC, player_id ASC
		 LIMIT ?`,
		query, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []PlayerStats{}
	for rows.Next() {
		var st PlayerStats
		if err := rows.Scan(&st.PlayerID, &st.Name, &st.Games, &st.Wins, &st.Losses, &st.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
