package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/telephone/internal/ports/secondary"
)

// MessageRepository implements secondary.MessageRepository with SQLite.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new SQLite message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = "id, chain_id, parent_id, name, generation, audio, created_at"

func scanMessage(scan func(...any) error) (*secondary.MessageRecord, error) {
	var (
		parentID sql.NullInt64
		name     sql.NullString
		audio    sql.NullString
	)

	record := &secondary.MessageRecord{}
	err := scan(&record.ID, &record.ChainID, &parentID, &name, &record.Generation, &audio, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	record.ParentID = parentID.Int64
	record.Name = name.String
	record.Audio = audio.String

	return record, nil
}

// Create persists a new message slot and returns its assigned ID.
// The partial unique index on (chain_id) WHERE parent_id IS NULL rejects
// a second parent-less message in the same chain.
func (r *MessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) (int64, error) {
	var parentID sql.NullInt64
	if message.ParentID != 0 {
		parentID = sql.NullInt64{Int64: message.ParentID, Valid: true}
	}
	var name sql.NullString
	if message.Name != "" {
		name = sql.NullString{String: message.Name, Valid: true}
	}
	var audio sql.NullString
	if message.Audio != "" {
		audio = sql.NullString{String: message.Audio, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (chain_id, parent_id, name, generation, audio) VALUES (?, ?, ?, ?, ?)`,
		message.ChainID, parentID, name, message.Generation, audio,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new message id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*secondary.MessageRecord, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM messages WHERE id = ?", messageColumns), id,
	)

	record, err := scanMessage(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return record, nil
}

// ListByChain retrieves all of a chain's messages in insertion order.
func (r *MessageRepository) ListByChain(ctx context.Context, chainID int64) ([]*secondary.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM messages WHERE chain_id = ? ORDER BY id ASC", messageColumns),
		chainID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.MessageRecord
	for rows.Next() {
		record, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, record)
	}

	return messages, nil
}

// ListEmptyByChain retrieves a chain's empty slots ordered by generation,
// then insertion order.
func (r *MessageRepository) ListEmptyByChain(ctx context.Context, chainID int64) ([]*secondary.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM messages WHERE chain_id = ? AND audio IS NULL ORDER BY generation ASC, id ASC", messageColumns),
		chainID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list empty messages: %w", err)
	}
	defer rows.Close()

	var messages []*secondary.MessageRecord
	for rows.Next() {
		record, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, record)
	}

	return messages, nil
}

// Fill sets the audio path on a message only if the slot is still empty.
// The conditional update is the single atomic check-and-set the concurrency
// model relies on: two racing fills produce exactly one winner.
func (r *MessageRepository) Fill(ctx context.Context, id int64, audioPath string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE messages SET audio = ? WHERE id = ? AND audio IS NULL",
		audioPath, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to fill message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read fill result: %w", err)
	}
	return rowsAffected == 1, nil
}

// CountChildren returns the number of children of a message.
func (r *MessageRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages WHERE parent_id = ?", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

// Delete removes a message from persistence.
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("message %d not found", id)
	}

	return nil
}

// Ensure MessageRepository implements the interface
var _ secondary.MessageRepository = (*MessageRepository)(nil)
