package ledger

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the ledger database and ensures all necessary tables are created.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	recordsSchema := `CREATE TABLE IF NOT EXISTS infraction_records (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          leve_count INTEGER NOT NULL DEFAULT 0,
	          media_count INTEGER NOT NULL DEFAULT 0,
	          grave_count INTEGER NOT NULL DEFAULT 0,
	          extrema_count INTEGER NOT NULL DEFAULT 0,
	          warnings INTEGER NOT NULL DEFAULT 0,
	          mutes INTEGER NOT NULL DEFAULT 0,
	          history TEXT NOT NULL DEFAULT '[]',
	          updated_at INTEGER NOT NULL DEFAULT 0,
	          PRIMARY KEY (guild_id, user_id)
	      );`
	if _, err = db.Exec(recordsSchema); err != nil {
		return nil, fmt.Errorf("failed to create infraction_records table: %w", err)
	}

	sanctionsSchema := `CREATE TABLE IF NOT EXISTS sanctions (
	          sanction_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          message_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          user_username TEXT NOT NULL,
	          guild_id TEXT NOT NULL,
	          channel_id TEXT NOT NULL,
	          tier TEXT NOT NULL,
	          kind TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          duration_minutes INTEGER NOT NULL DEFAULT 0,
	          requires_review INTEGER NOT NULL DEFAULT 0,
	          timestamp INTEGER NOT NULL,
	          expires_at INTEGER NOT NULL DEFAULT 0,
	          status TEXT NOT NULL DEFAULT 'active'
	      );`
	if _, err = db.Exec(sanctionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create sanctions table: %w", err)
	}

	return db, nil
}
