// Package sqlite implements the procuration storage contracts on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/collectif-citoyen/plateforme/internal/platform/storage/sqlitemigrate"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/storage"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for procuration state.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a procuration SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureForeignKeysEnabled(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func ensureForeignKeysEnabled(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("sqlite db is required")
	}
	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("check sqlite foreign key pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("sqlite foreign keys are disabled")
	}
	return nil
}

// PutParticipant inserts one participant row.
func (s *Store) PutParticipant(ctx context.Context, record storage.ParticipantRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeParticipantRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO participants (
	id, type, first_name, last_name, elector_id, phone, email,
	voting_bureau, support_committee, newsletter, status, disabled,
	created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		normalized.ID,
		normalized.Type,
		normalized.FirstName,
		normalized.LastName,
		normalized.ElectorID,
		normalized.Phone,
		normalized.Email,
		normalized.VotingBureau,
		boolToInt(normalized.SupportCommittee),
		boolToInt(normalized.Newsletter),
		normalized.Status,
		boolToInt(normalized.Disabled),
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put participant: %w", err)
	}
	return nil
}

// GetParticipant loads one participant row by id.
func (s *Store) GetParticipant(ctx context.Context, participantID string) (storage.ParticipantRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ParticipantRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ParticipantRecord{}, fmt.Errorf("storage is not configured")
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return storage.ParticipantRecord{}, fmt.Errorf("participant id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, type, first_name, last_name, elector_id, phone, email,
	voting_bureau, support_committee, newsletter, status, disabled,
	created_at, updated_at
FROM participants
WHERE id = ?
`, participantID)
	record, err := scanParticipant(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ParticipantRecord{}, storage.ErrNotFound
		}
		return storage.ParticipantRecord{}, fmt.Errorf("get participant: %w", err)
	}
	return record, nil
}

// UpdateParticipant rewrites one participant row's editable fields.
func (s *Store) UpdateParticipant(ctx context.Context, record storage.ParticipantRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeParticipantRecord(record)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE participants
SET first_name = ?, last_name = ?, elector_id = ?, phone = ?, email = ?,
	voting_bureau = ?, support_committee = ?, newsletter = ?, updated_at = ?
WHERE id = ?
`,
		normalized.FirstName,
		normalized.LastName,
		normalized.ElectorID,
		normalized.Phone,
		normalized.Email,
		normalized.VotingBureau,
		boolToInt(normalized.SupportCommittee),
		boolToInt(normalized.Newsletter),
		toMillis(normalized.UpdatedAt),
		normalized.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("update participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participant rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetParticipantStatus updates one participant's match status.
func (s *Store) SetParticipantStatus(ctx context.Context, participantID string, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	participantID = strings.TrimSpace(participantID)
	status = strings.TrimSpace(status)
	if participantID == "" {
		return fmt.Errorf("participant id is required")
	}
	if status == "" {
		return fmt.Errorf("participant status is required")
	}

	now := time.Now().UTC()
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE participants
SET status = ?, updated_at = ?
WHERE id = ?
`, status, toMillis(now), participantID)
	if err != nil {
		return fmt.Errorf("set participant status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set participant status rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetParticipantDisabled updates one participant's disabled flag.
func (s *Store) SetParticipantDisabled(ctx context.Context, participantID string, disabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return fmt.Errorf("participant id is required")
	}

	now := time.Now().UTC()
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE participants
SET disabled = ?, updated_at = ?
WHERE id = ?
`, boolToInt(disabled), toMillis(now), participantID)
	if err != nil {
		return fmt.Errorf("set participant disabled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set participant disabled rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListParticipants lists one population newest-first.
func (s *Store) ListParticipants(ctx context.Context, participantType string) ([]storage.ParticipantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	participantType = strings.TrimSpace(participantType)
	if participantType == "" {
		return nil, fmt.Errorf("participant type is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, type, first_name, last_name, elector_id, phone, email,
	voting_bureau, support_committee, newsletter, status, disabled,
	created_at, updated_at
FROM participants
WHERE type = ?
ORDER BY created_at DESC, id DESC
`, participantType)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var results []storage.ParticipantRecord
	for rows.Next() {
		record, scanErr := scanParticipant(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan participant row: %w", scanErr)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}
	return results, nil
}

// PutMatch inserts one active match row. The unique participant indexes
// reject a second active match for either side.
func (s *Store) PutMatch(ctx context.Context, record storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeMatchRecord(record)
	if err != nil {
		return err
	}

	var confirmedAt sql.NullInt64
	if normalized.ConfirmedAt != nil {
		confirmedAt = sql.NullInt64{Int64: toMillis(*normalized.ConfirmedAt), Valid: true}
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO matches (
	id, requester_id, volunteer_id, status, confirmed_at, confirmed_by, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		normalized.ID,
		normalized.RequesterID,
		normalized.VolunteerID,
		normalized.Status,
		confirmedAt,
		normalized.ConfirmedBy,
		toMillis(normalized.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) || isForeignKeyConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put match: %w", err)
	}
	return nil
}

// GetMatch loads one match row by id.
func (s *Store) GetMatch(ctx context.Context, matchID string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return storage.MatchRecord{}, fmt.Errorf("match id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, requester_id, volunteer_id, status, confirmed_at, confirmed_by, created_at
FROM matches
WHERE id = ?
`, matchID)
	record, err := scanMatch(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MatchRecord{}, storage.ErrNotFound
		}
		return storage.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	return record, nil
}

// GetMatchByParticipant loads the active match referencing one participant
// on either side.
func (s *Store) GetMatchByParticipant(ctx context.Context, participantID string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return storage.MatchRecord{}, fmt.Errorf("participant id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, requester_id, volunteer_id, status, confirmed_at, confirmed_by, created_at
FROM matches
WHERE requester_id = ? OR volunteer_id = ?
`, participantID, participantID)
	record, err := scanMatch(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MatchRecord{}, storage.ErrNotFound
		}
		return storage.MatchRecord{}, fmt.Errorf("get match by participant: %w", err)
	}
	return record, nil
}

// ConfirmMatch records one match confirmation.
func (s *Store) ConfirmMatch(ctx context.Context, matchID string, confirmedAt time.Time, confirmedBy string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID = strings.TrimSpace(matchID)
	confirmedBy = strings.TrimSpace(confirmedBy)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	if confirmedAt.IsZero() {
		return fmt.Errorf("confirmed at is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE matches
SET status = 'confirmed', confirmed_at = ?, confirmed_by = ?
WHERE id = ?
`, toMillis(confirmedAt.UTC()), confirmedBy, matchID)
	if err != nil {
		return fmt.Errorf("confirm match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("confirm match rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMatch removes one match row.
func (s *Store) DeleteMatch(ctx context.Context, matchID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete match rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListMatches lists all active matches newest-first.
func (s *Store) ListMatches(ctx context.Context) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, requester_id, volunteer_id, status, confirmed_at, confirmed_by, created_at
FROM matches
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var results []storage.MatchRecord
	for rows.Next() {
		record, scanErr := scanMatch(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan match row: %w", scanErr)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}
	return results, nil
}

type scanner func(dest ...any) error

func normalizeParticipantRecord(record storage.ParticipantRecord) (storage.ParticipantRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.Type = strings.TrimSpace(record.Type)
	record.FirstName = strings.TrimSpace(record.FirstName)
	record.LastName = strings.TrimSpace(record.LastName)
	record.ElectorID = strings.TrimSpace(record.ElectorID)
	record.Phone = strings.TrimSpace(record.Phone)
	record.Email = strings.TrimSpace(record.Email)
	record.VotingBureau = strings.TrimSpace(record.VotingBureau)
	record.Status = strings.TrimSpace(record.Status)
	if record.ID == "" {
		return storage.ParticipantRecord{}, fmt.Errorf("participant id is required")
	}
	if record.Type == "" {
		return storage.ParticipantRecord{}, fmt.Errorf("participant type is required")
	}
	if record.Status == "" {
		return storage.ParticipantRecord{}, fmt.Errorf("participant status is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.ParticipantRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.ParticipantRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func normalizeMatchRecord(record storage.MatchRecord) (storage.MatchRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.RequesterID = strings.TrimSpace(record.RequesterID)
	record.VolunteerID = strings.TrimSpace(record.VolunteerID)
	record.Status = strings.TrimSpace(record.Status)
	record.ConfirmedBy = strings.TrimSpace(record.ConfirmedBy)
	if record.ID == "" {
		return storage.MatchRecord{}, fmt.Errorf("match id is required")
	}
	if record.RequesterID == "" || record.VolunteerID == "" {
		return storage.MatchRecord{}, fmt.Errorf("match participant ids are required")
	}
	if record.Status == "" {
		return storage.MatchRecord{}, fmt.Errorf("match status is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.MatchRecord{}, fmt.Errorf("created_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	if record.ConfirmedAt != nil {
		confirmedAt := record.ConfirmedAt.UTC()
		record.ConfirmedAt = &confirmedAt
	}
	return record, nil
}

func scanParticipant(scan scanner) (storage.ParticipantRecord, error) {
	var record storage.ParticipantRecord
	var supportCommittee int
	var newsletter int
	var disabled int
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Type,
		&record.FirstName,
		&record.LastName,
		&record.ElectorID,
		&record.Phone,
		&record.Email,
		&record.VotingBureau,
		&supportCommittee,
		&newsletter,
		&record.Status,
		&disabled,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.ParticipantRecord{}, err
	}
	record.SupportCommittee = supportCommittee != 0
	record.Newsletter = newsletter != 0
	record.Disabled = disabled != 0
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func scanMatch(scan scanner) (storage.MatchRecord, error) {
	var record storage.MatchRecord
	var confirmedAt sql.NullInt64
	var createdAt int64
	if err := scan(
		&record.ID,
		&record.RequesterID,
		&record.VolunteerID,
		&record.Status,
		&confirmedAt,
		&record.ConfirmedBy,
		&createdAt,
	); err != nil {
		return storage.MatchRecord{}, err
	}
	if confirmedAt.Valid {
		value := fromMillis(confirmedAt.Int64)
		record.ConfirmedAt = &value
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}

func isForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "foreign key constraint failed")
}
