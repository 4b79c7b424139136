package db

// SchemaSQL is the complete modern schema for fresh telephone installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Games (top-level control over calls)
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	chain_order TEXT NOT NULL CHECK(chain_order IN ('sequential', 'random')) DEFAULT 'sequential',
	status TEXT NOT NULL CHECK(status IN ('active', 'inactive')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chains (a rooted tree of messages descending from one seed slot)
CREATE TABLE IF NOT EXISTS chains (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id INTEGER NOT NULL,
	selection_method TEXT NOT NULL CHECK(selection_method IN ('youngest', 'random')) DEFAULT 'youngest',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
);

-- Messages (audio recording slots; audio IS NULL means empty)
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chain_id INTEGER NOT NULL,
	parent_id INTEGER,
	name TEXT,
	generation INTEGER NOT NULL DEFAULT 0 CHECK(generation >= 0),
	audio TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (chain_id) REFERENCES chains(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_id) REFERENCES messages(id)
);

-- Exactly one parent-less (seed) message per chain
CREATE UNIQUE INDEX IF NOT EXISTS messages_one_seed_per_chain
	ON messages(chain_id) WHERE parent_id IS NULL;

CREATE INDEX IF NOT EXISTS messages_chain_idx ON messages(chain_id);
CREATE INDEX IF NOT EXISTS messages_parent_idx ON messages(parent_id);

-- Sessions (per-player progress: receipts and filled messages)
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	game_id INTEGER NOT NULL,
	instructed INTEGER NOT NULL DEFAULT 0,
	receipts TEXT NOT NULL DEFAULT '[]',
	messages TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
);
`

// InitSchema initializes the database schema for fresh installs and runs
// pending migrations on existing databases.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create modern schema directly and mark
		// all migrations as applied so they never run
		if _, err = db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, migration := range migrations {
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
