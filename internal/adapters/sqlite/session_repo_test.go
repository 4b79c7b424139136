package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/telephone/internal/adapters/sqlite"
	"github.com/example/telephone/internal/ports/secondary"
)

func TestSessionRepository_PutGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	gameID := seedGame(t, db)

	t.Run("round-trips a fresh session", func(t *testing.T) {
		err := repo.Put(ctx, &secondary.SessionRecord{
			Token:  "tok-1",
			GameID: gameID,
		})
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := repo.Get(ctx, "tok-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.GameID != gameID {
			t.Errorf("GameID = %d, want %d", got.GameID, gameID)
		}
		if got.Instructed {
			t.Error("fresh session should not be instructed")
		}
		if len(got.Receipts) != 0 || len(got.Messages) != 0 {
			t.Errorf("fresh session has receipts=%v messages=%v, want empty", got.Receipts, got.Messages)
		}
	})

	t.Run("upserts progress in place", func(t *testing.T) {
		err := repo.Put(ctx, &secondary.SessionRecord{
			Token:      "tok-1",
			GameID:     gameID,
			Instructed: true,
			Receipts:   []int64{4, 7},
			Messages:   []int64{10, 11},
		})
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := repo.Get(ctx, "tok-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.Instructed {
			t.Error("expected instructed after upsert")
		}
		if len(got.Receipts) != 2 || got.Receipts[0] != 4 || got.Receipts[1] != 7 {
			t.Errorf("Receipts = %v, want [4 7]", got.Receipts)
		}
		if len(got.Messages) != 2 || got.Messages[0] != 10 || got.Messages[1] != 11 {
			t.Errorf("Messages = %v, want [10 11]", got.Messages)
		}
	})

	t.Run("missing token errors", func(t *testing.T) {
		if _, err := repo.Get(ctx, "missing"); err == nil {
			t.Error("expected error for missing session, got nil")
		}
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	gameID := seedGame(t, db)
	repo.Put(ctx, &secondary.SessionRecord{Token: "tok-1", GameID: gameID})

	if err := repo.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "tok-1"); err == nil {
		t.Error("expected deleted session to be gone")
	}
	if err := repo.Delete(ctx, "tok-1"); err == nil {
		t.Error("expected error deleting missing session, got nil")
	}
}
