// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/telephone/internal/ports/secondary"
)

// GameRepository implements secondary.GameRepository with SQLite.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new SQLite game repository.
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create persists a new game and returns its assigned ID.
func (r *GameRepository) Create(ctx context.Context, game *secondary.GameRecord) (int64, error) {
	var name sql.NullString
	if game.Name != "" {
		name = sql.NullString{String: game.Name, Valid: true}
	}

	chainOrder := game.ChainOrder
	if chainOrder == "" {
		chainOrder = "sequential"
	}
	status := game.Status
	if status == "" {
		status = "active"
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO games (name, chain_order, status) VALUES (?, ?, ?)`,
		name, chainOrder, status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new game id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a game by its ID.
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*secondary.GameRecord, error) {
	var name sql.NullString

	record := &secondary.GameRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, chain_order, status, created_at, updated_at FROM games WHERE id = ?`,
		id,
	).Scan(&record.ID, &name, &record.ChainOrder, &record.Status, &record.CreatedAt, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	record.Name = name.String

	return record, nil
}

// List retrieves games matching the given filters, newest first.
func (r *GameRepository) List(ctx context.Context, filters secondary.GameFilters) ([]*secondary.GameRecord, error) {
	query := `SELECT id, name, chain_order, status, created_at, updated_at FROM games WHERE 1=1`
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*secondary.GameRecord
	for rows.Next() {
		var name sql.NullString

		record := &secondary.GameRecord{}
		err := rows.Scan(&record.ID, &name, &record.ChainOrder, &record.Status, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		record.Name = name.String

		games = append(games, record)
	}

	return games, nil
}

// UpdateStatus updates the lifecycle status of a game.
func (r *GameRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE games SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("game %d not found", id)
	}

	return nil
}

// CountChains returns the number of chains owned by a game.
func (r *GameRepository) CountChains(ctx context.Context, gameID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chains WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chains: %w", err)
	}
	return count, nil
}

// Ensure GameRepository implements the interface
var _ secondary.GameRepository = (*GameRepository)(nil)
