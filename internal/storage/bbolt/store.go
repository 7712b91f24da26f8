// Package bbolt provides a BoltDB-backed storage implementation. It is the
// single-file embedded alternative to the SQLite store.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samlindsay4/cricket-game/internal/storage"
	"github.com/samlindsay4/cricket-game/internal/storage/cursor"
	"go.etcd.io/bbolt"
)

const (
	matchBucket   = "match"
	journalBucket = "journal"
)

// Store provides a BoltDB-backed match and journal store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutMatch inserts or replaces a match record.
func (s *Store) PutMatch(ctx context.Context, record storage.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("match id is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(matchBucket))
		if bucket == nil {
			return fmt.Errorf("match bucket is missing")
		}
		return bucket.Put([]byte(id), payload)
	})
}

// GetMatch fetches a match record by id.
func (s *Store) GetMatch(ctx context.Context, id string) (storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MatchRecord{}, err
	}
	if s == nil || s.db == nil {
		return storage.MatchRecord{}, fmt.Errorf("storage is not configured")
	}

	var record storage.MatchRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(matchBucket))
		if bucket == nil {
			return fmt.Errorf("match bucket is missing")
		}
		payload := bucket.Get([]byte(strings.TrimSpace(id)))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal match: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.MatchRecord{}, err
	}
	return record, nil
}

// ListMatches returns up to limit records, most recent first.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]storage.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	var records []storage.MatchRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(matchBucket))
		if bucket == nil {
			return fmt.Errorf("match bucket is missing")
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var record storage.MatchRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal match: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// AppendDelivery appends one delivery to the match journal.
func (s *Store) AppendDelivery(ctx context.Context, record storage.DeliveryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	matchID := strings.TrimSpace(record.MatchID)
	if matchID == "" {
		return fmt.Errorf("match id is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		parent := tx.Bucket([]byte(journalBucket))
		if parent == nil {
			return fmt.Errorf("journal bucket is missing")
		}
		bucket, err := parent.CreateBucketIfNotExists([]byte(matchID))
		if err != nil {
			return fmt.Errorf("create journal bucket: %w", err)
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next journal sequence: %w", err)
		}
		return bucket.Put(seqKey(seq), payload)
	})
}

// ListDeliveries returns the journal for a match in append order.
func (s *Store) ListDeliveries(ctx context.Context, matchID string) ([]storage.DeliveryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var records []storage.DeliveryRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := journalFor(tx, matchID)
		if bucket == nil {
			return storage.ErrNotFound
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var record storage.DeliveryRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal delivery: %w", err)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListDeliveryPage returns one page of the journal in append order.
func (s *Store) ListDeliveryPage(ctx context.Context, matchID string, limit int, token string) (storage.DeliveryPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeliveryPage{}, err
	}
	if s == nil || s.db == nil {
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

	var page storage.DeliveryPage
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := journalFor(tx, matchID)
		if bucket == nil {
			if token == "" {
				return storage.ErrNotFound
			}
			return nil
		}

		var lastSeq uint64
		c := bucket.Cursor()
		for key, payload := c.Seek(seqKey(after + 1)); key != nil; key, payload = c.Next() {
			if len(page.Deliveries) == limit {
				next, err := cursor.Encode(cursor.New(lastSeq, matchID))
				if err != nil {
					return err
				}
				page.NextToken = next
				return nil
			}
			var record storage.DeliveryRecord
			if err := json.Unmarshal(payload, &record); err != nil {
				return fmt.Errorf("unmarshal delivery: %w", err)
			}
			page.Deliveries = append(page.Deliveries, record)
			lastSeq = binary.BigEndian.Uint64(key)
		}
		return nil
	})
	if err != nil {
		return storage.DeliveryPage{}, err
	}
	return page, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{matchBucket, journalBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func journalFor(tx *bbolt.Tx, matchID string) *bbolt.Bucket {
	parent := tx.Bucket([]byte(journalBucket))
	if parent == nil {
		return nil
	}
	return parent.Bucket([]byte(strings.TrimSpace(matchID)))
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
