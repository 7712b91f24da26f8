// Package memory provides an in-process storage implementation, used by
// tests and by runs that do not need persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samlindsay4/cricket-game/internal/storage"
	"github.com/samlindsay4/cricket-game/internal/storage/cursor"
)

// Store keeps records in memory. The zero value is not usable; call New.
type Store struct {
	mu         sync.Mutex
	matches    map[string]storage.MatchRecord
	deliveries map[string][]storage.DeliveryRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		matches:    make(map[string]storage.MatchRecord),
		deliveries: make(map[string][]storage.DeliveryRecord),
	}
}

// PutMatch inserts or replaces a match record.
func (s *Store) PutMatch(ctx context.Context, record storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[record.ID] = record
	return nil
}

// GetMatch fetches a match record by id.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.matches[id]
	if !ok {
		return storage.MatchRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// ListMatches returns up to limit records, most recent first.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]storage.MatchRecord, 0, len(s.matches))
	for _, record := range s.matches {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// AppendDelivery appends one delivery to the match journal.
func (s *Store) AppendDelivery(ctx context.Context, record storage.DeliveryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[record.MatchID] = append(s.deliveries[record.MatchID], record)
	return nil
}

// ListDeliveries returns the journal for a match in append order.
func (s *Store) ListDeliveries(ctx context.Context, matchID string) ([]storage.DeliveryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.deliveries[matchID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]storage.DeliveryRecord, len(journal))
	copy(out, journal)
	return out, nil
}

// ListDeliveryPage returns one page of the journal in append order.
func (s *Store) ListDeliveryPage(ctx context.Context, matchID string, limit int, token string) (storage.DeliveryPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeliveryPage{}, err
	}
	if limit <= 0 {
		limit = storage.DefaultPageSize
	}

	var start uint64
	if token != "" {
		c, err := cursor.Decode(token)
		if err != nil {
			return storage.DeliveryPage{}, err
		}
		if err := cursor.Validate(c, matchID); err != nil {
			return storage.DeliveryPage{}, err
		}
		start = c.Seq
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.deliveries[matchID]
	if !ok {
		return storage.DeliveryPage{}, storage.ErrNotFound
	}
	if start > uint64(len(journal)) {
		start = uint64(len(journal))
	}

	end := int(start) + limit
	if end > len(journal) {
		end = len(journal)
	}
	page := storage.DeliveryPage{
		Deliveries: append([]storage.DeliveryRecord(nil), journal[start:end]...),
	}
	if end < len(journal) {
		next, err := cursor.Encode(cursor.New(uint64(end), matchID))
		if err != nil {
			return storage.DeliveryPage{}, err
		}
		page.NextToken = next
	}
	return page, nil
}

// Close satisfies storage.Store; there is nothing to release.
func (s *Store) Close() error { return nil }
