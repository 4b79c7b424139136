package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/telephone/internal/ports/secondary"
)

// ChainRepository implements secondary.ChainRepository with SQLite.
type ChainRepository struct {
	db *sql.DB
}

// NewChainRepository creates a new SQLite chain repository.
func NewChainRepository(db *sql.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

// Create persists a new chain and returns its assigned ID.
func (r *ChainRepository) Create(ctx context.Context, chain *secondary.ChainRecord) (int64, error) {
	method := chain.SelectionMethod
	if method == "" {
		method = "youngest"
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO chains (game_id, selection_method) VALUES (?, ?)`,
		chain.GameID, method,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create chain: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new chain id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a chain by its ID.
func (r *ChainRepository) GetByID(ctx context.Context, id int64) (*secondary.ChainRecord, error) {
	record := &secondary.ChainRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, selection_method, created_at FROM chains WHERE id = ?`,
		id,
	).Scan(&record.ID, &record.GameID, &record.SelectionMethod, &record.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chain %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chain: %w", err)
	}

	return record, nil
}

// ListByGame retrieves a game's chains in creation order.
func (r *ChainRepository) ListByGame(ctx context.Context, gameID int64) ([]*secondary.ChainRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, selection_method, created_at FROM chains WHERE game_id = ? ORDER BY id ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	defer rows.Close()

	var chains []*secondary.ChainRecord
	for rows.Next() {
		record := &secondary.ChainRecord{}
		err := rows.Scan(&record.ID, &record.GameID, &record.SelectionMethod, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chain: %w", err)
		}
		chains = append(chains, record)
	}

	return chains, nil
}

// GameExists checks if a game exists.
func (r *ChainRepository) GameExists(ctx context.Context, gameID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games WHERE id = ?", gameID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check game existence: %w", err)
	}
	return count > 0, nil
}

// Ensure ChainRepository implements the interface
var _ secondary.ChainRepository = (*ChainRepository)(nil)
