package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"automod-bot/model"

	"github.com/jmoiron/sqlx"
)

// infractionRow is the database shape of an infraction record. The
// history column carries the snapshot list as JSON; the whole record is
// read and written as one document per user.
type infractionRow struct {
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	LeveCount    int    `db:"leve_count"`
	MediaCount   int    `db:"media_count"`
	GraveCount   int    `db:"grave_count"`
	ExtremaCount int    `db:"extrema_count"`
	Warnings     int    `db:"warnings"`
	Mutes        int    `db:"mutes"`
	History      string `db:"history"`
	UpdatedAt    int64  `db:"updated_at"`
}

func (row *infractionRow) toRecord() (*model.InfractionRecord, error) {
	rec := model.NewInfractionRecord(row.GuildID, row.UserID)
	rec.Counts[model.TierLeve] = row.LeveCount
	rec.Counts[model.TierMedia] = row.MediaCount
	rec.Counts[model.TierGrave] = row.GraveCount
	rec.Counts[model.TierExtrema] = row.ExtremaCount
	rec.Warnings = row.Warnings
	rec.Mutes = row.Mutes

	if row.History != "" && row.History != "[]" {
		if err := json.Unmarshal([]byte(row.History), &rec.History); err != nil {
			return nil, fmt.Errorf("failed to parse history for user %s: %w", row.UserID, err)
		}
	}
	if len(rec.History) > 0 {
		last := rec.History[len(rec.History)-1]
		rec.LastInfraction = &last
	}
	return rec, nil
}

func rowFromRecord(rec *model.InfractionRecord) (*infractionRow, error) {
	history := rec.History
	if history == nil {
		history = []model.InfractionSnapshot{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history for user %s: %w", rec.UserID, err)
	}
	return &infractionRow{
		GuildID:      rec.GuildID,
		UserID:       rec.UserID,
		LeveCount:    rec.Counts[model.TierLeve],
		MediaCount:   rec.Counts[model.TierMedia],
		GraveCount:   rec.Counts[model.TierGrave],
		ExtremaCount: rec.Counts[model.TierExtrema],
		Warnings:     rec.Warnings,
		Mutes:        rec.Mutes,
		History:      string(historyJSON),
		UpdatedAt:    time.Now().Unix(),
	}, nil
}

// GetInfractionRecord retrieves a user's infraction record. It returns
// (nil, nil) when the user has no record yet; records are created
// lazily on first infraction.
func GetInfractionRecord(db *sqlx.DB, guildID, userID string) (*model.InfractionRecord, error) {
	var row infractionRow
	query := "SELECT * FROM infraction_records WHERE guild_id = ? AND user_id = ?"
	err := db.Get(&row, query, guildID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get infraction record for user %s: %w", userID, err)
	}
	return row.toRecord()
}

// SaveInfractionRecord writes a user's infraction record as a whole document.
func SaveInfractionRecord(db *sqlx.DB, rec *model.InfractionRecord) error {
	row, err := rowFromRecord(rec)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO infraction_records (guild_id, user_id, leve_count, media_count, grave_count, extrema_count, warnings, mutes, history, updated_at)
			  VALUES (:guild_id, :user_id, :leve_count, :media_count, :grave_count, :extrema_count, :warnings, :mutes, :history, :updated_at)`
	if _, err := db.NamedExec(query, row); err != nil {
		return fmt.Errorf("failed to save infraction record for user %s: %w", rec.UserID, err)
	}
	return nil
}

// AddSanctionRecord adds a new sanction record to the audit table and returns the new record's ID.
func AddSanctionRecord(db *sqlx.DB, record model.SanctionRecord) (int64, error) {
	query := `INSERT INTO sanctions (message_id, user_id, user_username, guild_id, channel_id, tier, kind, reason, duration_minutes, requires_review, timestamp, expires_at, status)
			  VALUES (:message_id, :user_id, :user_username, :guild_id, :channel_id, :tier, :kind, :reason, :duration_minutes, :requires_review, :timestamp, :expires_at, :status)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sanction record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetSanctionsByUserID retrieves sanction records for a specific user in a guild.
func GetSanctionsByUserID(db *sqlx.DB, guildID, userID string) ([]model.SanctionRecord, error) {
	var records []model.SanctionRecord
	query := "SELECT * FROM sanctions WHERE guild_id = ? AND user_id = ? ORDER BY timestamp DESC"
	err := db.Select(&records, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sanction records for user %s in guild %s: %w", userID, guildID, err)
	}
	return records, nil
}

// GetSanctionStats retrieves the sanction count per kind for a guild within a given time range.
func GetSanctionStats(db *sqlx.DB, guildID string, since time.Time) (map[string]int, error) {
	query := `SELECT kind, COUNT(*) as count FROM sanctions WHERE guild_id = ? AND timestamp >= ? GROUP BY kind ORDER BY count DESC`
	rows, err := db.Query(query, guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get sanction stats for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sanction stats row: %w", err)
		}
		stats[kind] = count
	}
	return stats, nil
}

// GetTotalSanctionCount retrieves the total number of sanctions within a given time range.
func GetTotalSanctionCount(db *sqlx.DB, guildID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sanctions WHERE guild_id = ? AND timestamp >= ?`
	err := db.Get(&count, query, guildID, since.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to get total sanction count for guild %s: %w", guildID, err)
	}
	return count, nil
}

// GetExpiredActiveMutes retrieves active mute sanctions whose duration has elapsed.
func GetExpiredActiveMutes(db *sqlx.DB, now time.Time) ([]model.SanctionRecord, error) {
	var records []model.SanctionRecord
	query := `SELECT * FROM sanctions
			  WHERE status = 'active'
			  AND kind = 'mute'
			  AND expires_at > 0
			  AND expires_at <= ?`
	err := db.Select(&records, query, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get expired active mutes: %w", err)
	}
	return records, nil
}

// UpdateSanctionStatus updates the status of a sanction record.
func UpdateSanctionStatus(db *sqlx.DB, sanctionID int64, status string) error {
	query := "UPDATE sanctions SET status = ? WHERE sanction_id = ?"
	result, err := db.Exec(query, status, sanctionID)
	if err != nil {
		return fmt.Errorf("failed to update sanction status for ID %d: %w", sanctionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for sanction ID %d: %w", sanctionID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no sanction found with ID %d", sanctionID)
	}
	return nil
}

// Store adapts the ledger database to the moderation pipeline's
// LedgerStore dependency.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRecord(guildID, userID string) (*model.InfractionRecord, error) {
	return GetInfractionRecord(s.db, guildID, userID)
}

func (s *Store) SaveRecord(rec *model.InfractionRecord) error {
	return SaveInfractionRecord(s.db, rec)
}

func (s *Store) AppendSanction(record model.SanctionRecord) (int64, error) {
	return AddSanctionRecord(s.db, record)
}
