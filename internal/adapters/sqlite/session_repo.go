package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/telephone/internal/ports/secondary"
)

// SessionRepository implements secondary.SessionRepository with SQLite.
// Receipts and messages are stored as JSON arrays so the whole progress
// record reads and writes in one row.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves a session by its token.
func (r *SessionRepository) Get(ctx context.Context, token string) (*secondary.SessionRecord, error) {
	var (
		instructed   int
		receiptsJSON string
		messagesJSON string
	)

	record := &secondary.SessionRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT token, game_id, instructed, receipts, messages, created_at, updated_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&record.Token, &record.GameID, &instructed, &receiptsJSON, &messagesJSON, &record.CreatedAt, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	record.Instructed = instructed != 0
	if err := json.Unmarshal([]byte(receiptsJSON), &record.Receipts); err != nil {
		return nil, fmt.Errorf("failed to decode session receipts: %w", err)
	}
	if err := json.Unmarshal([]byte(messagesJSON), &record.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode session messages: %w", err)
	}

	return record, nil
}

// Put creates or replaces a session.
func (r *SessionRepository) Put(ctx context.Context, session *secondary.SessionRecord) error {
	receiptsJSON, err := encodeIDs(session.Receipts)
	if err != nil {
		return fmt.Errorf("failed to encode session receipts: %w", err)
	}
	messagesJSON, err := encodeIDs(session.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode session messages: %w", err)
	}

	instructed := 0
	if session.Instructed {
		instructed = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, game_id, instructed, receipts, messages) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET
			instructed = excluded.instructed,
			receipts = excluded.receipts,
			messages = excluded.messages,
			updated_at = CURRENT_TIMESTAMP`,
		session.Token, session.GameID, instructed, receiptsJSON, messagesJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes a session from persistence.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("session %s not found", token)
	}

	return nil
}

// encodeIDs marshals an id list, mapping nil to the empty JSON array so
// stored sessions always round-trip to a non-null list.
func encodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Ensure SessionRepository implements the interface
var _ secondary.SessionRepository = (*SessionRepository)(nil)
