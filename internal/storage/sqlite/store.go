// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/samlindsay4/cricket-game/internal/platform/storage/sqlitemigrate"
	"github.com/samlindsay4/cricket-game/internal/storage"
	"github.com/samlindsay4/cricket-game/internal/storage/cursor"
	"github.com/samlindsay4/cricket-game/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists match and journal records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutMatch inserts or replaces a match record.
func (s *Store) PutMatch(ctx context.Context, record storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("match id is required")
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO matches (
		   id, format, home_team, away_team, seed,
		   winner, result, scorelines, created_at, completed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   winner = excluded.winner,
		   result = excluded.result,
		   scorelines = excluded.scorelines,
		   completed_at = excluded.completed_at`,
		id,
		record.Format,
		record.HomeTeam,
		record.AwayTeam,
		record.Seed,
		record.Winner,
		record.Result,
		record.Scorelines,
		toMillis(createdAt),
		toMillis(record.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// GetMatch fetches a match record by id.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, format, home_team, away_team, seed,
		        winner, result, scorelines, created_at, completed_at
		 FROM matches WHERE id = ?`,
		strings.TrimSpace(id),
	)
	return scanMatch(row)
}

// ListMatches returns up to limit records, most recent first.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, format, home_team, away_team, seed,
		        winner, result, scorelines, created_at, completed_at
		 FROM matches ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var records []storage.MatchRecord
	for rows.Next() {
		record, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (storage.MatchRecord, error) {
	var record storage.MatchRecord
	var createdAt, completedAt int64
	err := row.Scan(
		&record.ID,
		&record.Format,
		&record.HomeTeam,
		&record.AwayTeam,
		&record.Seed,
		&record.Winner,
		&record.Result,
		&record.Scorelines,
		&createdAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return storage.MatchRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.CompletedAt = fromMillis(completedAt)
	return record, nil
}

// AppendDelivery appends one delivery to the match journal.
func (s *Store) AppendDelivery(ctx context.Context, record storage.DeliveryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID := strings.TrimSpace(record.MatchID)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO deliveries (
		   match_id, innings, over, ball, batter, bowler,
		   outcome, runs, wicket, score, wickets, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		matchID,
		record.Innings,
		record.Over,
		record.Ball,
		record.Batter,
		record.Bowler,
		record.Outcome,
		record.Runs,
		record.Wicket,
		record.Score,
		record.Wickets,
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ListDeliveries returns the journal for a match in append order.
func (s *Store) ListDeliveries(ctx context.Context, matchID string) ([]storage.DeliveryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT match_id, innings, over, ball, batter, bowler,
		        outcome, runs, wicket, score, wickets, created_at
		 FROM deliveries WHERE match_id = ? ORDER BY seq ASC`,
		strings.TrimSpace(matchID),
	)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var records []storage.DeliveryRecord
	for rows.Next() {
		var record storage.DeliveryRecord
		var createdAt int64
		err := rows.Scan(
			&record.MatchID,
			&record.Innings,
			&record.Over,
			&record.Ball,
			&record.Batter,
			&record.Bowler,
			&record.Outcome,
			&record.Runs,
			&record.Wicket,
			&record.Score,
			&record.Wickets,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records, nil
}

// ListDeliveryPage returns one page of the journal in append order.
func (s *Store) ListDeliveryPage(ctx context.Context, matchID string, limit int, token string) (storage.DeliveryPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeliveryPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DeliveryPage{}, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = storage.DefaultPageSize
	}
	matchID = strings.TrimSpace(matchID)

	var after uint64
	if token != "" {
		c, err := cursor.Decode(token)
		if err != nil {
			return storage.DeliveryPage{}, err
		}
		if err := cursor.Validate(c, matchID); err != nil {
			return storage.DeliveryPage{}, err
		}
		after = c.Seq
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, match_id, innings, over, ball, batter, bowler,
		        outcome, runs, wicket, score, wickets, created_at
		 FROM deliveries WHERE match_id = ? AND seq > ?
		 ORDER BY seq ASC LIMIT ?`,
		matchID,
		after,
		limit+1,
	)
	if err != nil {
		return storage.DeliveryPage{}, fmt.Errorf("list delivery page: %w", err)
	}
	defer rows.Close()

	var page storage.DeliveryPage
	var lastSeq uint64
	for rows.Next() {
		var record storage.DeliveryRecord
		var seq uint64
		var createdAt int64
		err := rows.Scan(
			&seq,
			&record.MatchID,
			&record.Innings,
			&record.Over,
			&record.Ball,
			&record.Batter,
			&record.Bowler,
			&record.Outcome,
			&record.Runs,
			&record.Wicket,
			&record.Score,
			&record.Wickets,
			&createdAt,
		)
		if err != nil {
			return storage.DeliveryPage{}, fmt.Errorf("scan delivery: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		if len(page.Deliveries) < limit {
			page.Deliveries = append(page.Deliveries, record)
			lastSeq = seq
			continue
		}
		// An extra row means the journal continues past this page.
		next, err := cursor.Encode(cursor.New(lastSeq, matchID))
		if err != nil {
			return storage.DeliveryPage{}, err
		}
		page.NextToken = next
	}
	if err := rows.Err(); err != nil {
		return storage.DeliveryPage{}, fmt.Errorf("iterate deliveries: %w", err)
	}
	if len(page.Deliveries) == 0 && token == "" {
		return storage.DeliveryPage{}, storage.ErrNotFound
	}
	return page, nil
}
