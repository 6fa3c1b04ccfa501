package memstore

import (
	"context"
	"testing"

	"leasewarden/internal/ledger"
)

func entry(index int, prev string) ledger.Entry {
	return ledger.Entry{Index: index, Timestamp: "2026-01-01T00:00:00.000Z", PrevHash: prev}
}

func TestPutEnforcesSequence(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Put(ctx, "ns", "id", entry(0, ledger.Genesis)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "ns", "id", entry(0, ledger.Genesis)); err == nil {
		t.Fatal("duplicate index must be rejected")
	}
	if err := s.Put(ctx, "ns", "id", entry(5, "x")); err == nil {
		t.Fatal("index gap must be rejected")
	}
	if err := s.Put(ctx, "ns", "id", entry(1, "x")); err != nil {
		t.Fatalf("next index rejected: %v", err)
	}
}

func TestHeadAndEntries(t *testing.T) {
	s := New()
	ctx := context.Background()

	head, err := s.Head(ctx, "ns", "id")
	if err != nil || head != nil {
		t.Fatalf("empty head = (%+v, %v), want (nil, nil)", head, err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, "ns", "id", entry(i, "p")); err != nil {
			t.Fatal(err)
		}
	}
	head, err = s.Head(ctx, "ns", "id")
	if err != nil {
		t.Fatal(err)
	}
	if head.Index != 2 {
		t.Errorf("head index = %d, want 2", head.Index)
	}

	entries, err := s.Entries(ctx, "ns", "id")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
	// Entries must be a copy, not a view into the store.
	entries[0].PrevHash = "mutated"
	fresh, _ := s.Entries(ctx, "ns", "id")
	if fresh[0].PrevHash == "mutated" {
		t.Error("Entries leaked internal slice")
	}
}
