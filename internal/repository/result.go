package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/connect4-arena/internal/entity"
)

// ResultRepository is the durable store of finished matches, read back in
// insertion order for the leaderboard.
type ResultRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, result entity.Result) error
	ListAll(ctx context.Context) ([]entity.Result, error)
}

type dbResult struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		red_player TEXT NOT NULL,
		yellow_player TEXT NOT NULL,
		winner TEXT NOT NULL,
		played_at TEXT NOT NULL
	)`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create results table: %w", err)
	}

	return nil
}

func (that *dbResult) Save(ctx context.Context, result entity.Result) error {
	query := `INSERT INTO results (red_player, yellow_player, winner, played_at) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.RedPlayer, result.YellowPlayer, result.Winner, result.When.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *dbResult) ListAll(ctx context.Context) ([]entity.Result, error) {
	query := `SELECT red_player, yellow_player, winner, played_at FROM results ORDER BY id`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't query results: %w", err)
	}
	defer rows.Close()

	var results []entity.Result
	for rows.Next() {
		var result entity.Result
		var playedAt string

		if err = rows.Scan(&result.RedPlayer, &result.YellowPlayer, &result.Winner, &playedAt); err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		result.When, err = time.Parse(time.RFC3339, playedAt)
		if err != nil {
			return nil, fmt.Errorf("can't parse result timestamp: %w", err)
		}

		results = append(results, result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}
