package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samlindsay4/cricket-game/internal/storage"
)

func TestMatchRoundTrip(t *testing.T) {
	store := New()
	record := storage.MatchRecord{
		ID:        "match-1",
		Format:    "odi",
		HomeTeam:  "Alpha",
		AwayTeam:  "Beta",
		CreatedAt: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
	}
	if err := store.PutMatch(context.Background(), record); err != nil {
		t.Fatalf("put match: %v", err)
	}
	got, err := store.GetMatch(context.Background(), "match-1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if got != record {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if _, err := store.GetMatch(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing err = %v, want ErrNotFound", err)
	}
}

func TestJournalAppendOrder(t *testing.T) {
	store := New()
	for i := 0; i < 3; i++ {
		record := storage.DeliveryRecord{MatchID: "m", Innings: 1, Ball: i + 1}
		if err := store.AppendDelivery(context.Background(), record); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	journal, err := store.ListDeliveries(context.Background(), "m")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, record := range journal {
		if record.Ball != i+1 {
			t.Fatalf("journal out of order: %+v", journal)
		}
	}
}

func TestListDeliveryPageWalksJournal(t *testing.T) {
	store := New()
	for i := 1; i <= 7; i++ {
		record := storage.DeliveryRecord{MatchID: "m", Innings: 1, Score: i}
		if err := store.AppendDelivery(context.Background(), record); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	first, err := store.ListDeliveryPage(context.Background(), "m", 5, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Deliveries) != 5 || first.NextToken == "" {
		t.Fatalf("first page = %d deliveries, token %q", len(first.Deliveries), first.NextToken)
	}

	second, err := store.ListDeliveryPage(context.Background(), "m", 5, first.NextToken)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Deliveries) != 2 || second.NextToken != "" {
		t.Fatalf("second page = %d deliveries, token %q", len(second.Deliveries), second.NextToken)
	}
	if second.Deliveries[0].Score != 6 {
		t.Fatalf("expected resume at score 6, got %d", second.Deliveries[0].Score)
	}

	if _, err := store.ListDeliveryPage(context.Background(), "missing", 5, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing journal err = %v, want ErrNotFound", err)
	}
}

func TestCancelledContext(t *testing.T) {
	store := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.PutMatch(ctx, storage.MatchRecord{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
