// Package storage defines the persistence contracts for simulated matches
// and their ball-by-ball journals.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// MatchRecord is the archived summary of one simulated match.
type MatchRecord struct {
	ID          string
	Format      string
	HomeTeam    string
	AwayTeam    string
	Seed        int64
	Winner      string // empty for ties and draws
	Result      string // human-readable result line
	Scorelines  string // newline-joined innings scorelines
	CreatedAt   time.Time
	CompletedAt time.Time
}

// DeliveryRecord is one journaled delivery.
type DeliveryRecord struct {
	MatchID   string
	Innings   int // 1-based
	Over      int // completed overs before this delivery
	Ball      int // legal balls into the over after this delivery
	Batter    string
	Bowler    string
	Outcome   string
	Runs      int
	Wicket    string // empty unless a wicket fell
	Score     int    // team score after this delivery
	Wickets   int
	CreatedAt time.Time
}

// MatchStore persists match records.
type MatchStore interface {
	PutMatch(ctx context.Context, record MatchRecord) error
	GetMatch(ctx context.Context, id string) (MatchRecord, error)
	ListMatches(ctx context.Context, limit int) ([]MatchRecord, error)
}

// DeliveryPage is one page of a match journal. NextToken is empty on the
// last page; otherwise it resumes the listing after the last delivery in
// Deliveries.
type DeliveryPage struct {
	Deliveries []DeliveryRecord
	NextToken  string
}

// DefaultPageSize caps journal pages when the caller asks for no limit.
const DefaultPageSize = 120

// JournalStore persists the delivery journal.
type JournalStore interface {
	AppendDelivery(ctx context.Context, record DeliveryRecord) error
	ListDeliveries(ctx context.Context, matchID string) ([]DeliveryRecord, error)
	// ListDeliveryPage returns up to limit deliveries in append order,
	// starting after the position encoded in token. An empty token starts
	// from the beginning of the journal.
	ListDeliveryPage(ctx context.Context, matchID string, limit int, token string) (DeliveryPage, error)
}

// Store combines both stores behind one handle.
type Store interface {
	MatchStore
	JournalStore
	Close() error
}
