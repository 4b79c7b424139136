// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/telephone/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedGame inserts a test game and returns its ID.
func seedGame(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO games (chain_order, status) VALUES ('sequential', 'active')")
	if err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedChain inserts a test chain and returns its ID.
func seedChain(t *testing.T, db *sql.DB, gameID int64) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO chains (game_id, selection_method) VALUES (?, 'youngest')", gameID)
	if err != nil {
		t.Fatalf("failed to seed chain: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedMessage inserts a test message and returns its ID. parentID 0 means
// the seed (parent-less) message; audio "" means an empty slot.
func seedMessage(t *testing.T, db *sql.DB, chainID, parentID int64, generation int, audio string) int64 {
	t.Helper()

	var parent any
	if parentID != 0 {
		parent = parentID
	}
	var audioVal any
	if audio != "" {
		audioVal = audio
	}

	result, err := db.Exec(
		"INSERT INTO messages (chain_id, parent_id, generation, audio) VALUES (?, ?, ?, ?)",
		chainID, parent, generation, audioVal,
	)
	if err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}
