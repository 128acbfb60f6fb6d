package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesSchema(t *testing.T) {
	s := newTestStore(t)

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("New store should be empty, got %d records", n)
	}
}

func TestAdd_AssignsDefaults(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Add(Record{Query: "golang developer"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if rec.ID == "" {
		t.Error("Add should assign an ID")
	}
	if rec.SearchedAt.IsZero() {
		t.Error("Add should assign a timestamp")
	}
	if rec.Status != StatusInProgress {
		t.Errorf("Add should default status to in-progress, got %s", rec.Status)
	}
}

func TestAdd_RejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(Record{Query: "x", Status: Status("archived")}); err == nil {
		t.Error("Add should reject an unknown status")
	}
}

func TestAddGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := Record{
		Query:        "senior backend engineer",
		Location:     "Berlin",
		JobType:      "full-time",
		SalaryRange:  "80k-120k",
		PostedWithin: "7d",
		ResultCount:  42,
		SearchedAt:   time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		Status:       StatusCompleted,
		Tags:         []string{"remote", "go"},
	}

	stored, err := s.Add(in)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := s.Get(stored.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if diff := cmp.Diff(stored, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Record round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get of missing ID should return ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"oldest", "middle", "newest"} {
		_, err := s.Add(Record{
			Query:      q,
			SearchedAt: base.Add(time.Duration(i) * time.Hour),
			Status:     StatusCompleted,
		})
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", q, err)
		}
	}

	records, err := s.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List returned %d records, want 3", len(records))
	}

	want := []string{"newest", "middle", "oldest"}
	for i, rec := range records {
		if rec.Query != want[i] {
			t.Errorf("records[%d].Query = %q, want %q", i, rec.Query, want[i])
		}
	}
}

func TestList_Limit(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.Add(Record{
			Query:      "q",
			SearchedAt: base.Add(time.Duration(i) * time.Minute),
			Status:     StatusCompleted,
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	records, err := s.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("List(2) returned %d records, want 2", len(records))
	}
}

func TestSetStatus(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Add(Record{Query: "devops"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.SetStatus(rec.ID, StatusCompleted, 17); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}
	if got.ResultCount != 17 {
		t.Errorf("ResultCount = %d, want 17", got.ResultCount)
	}
}

func TestSetStatus_NotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetStatus("missing", StatusFailed, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus on missing ID should return ErrNotFound, got %v", err)
	}
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Add(Record{Query: "x"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.SetStatus(rec.ID, Status("paused"), 0); err == nil {
		t.Error("SetStatus should reject an unknown status")
	}
}

func TestTouch_MovesRecordToTop(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	old, err := s.Add(Record{Query: "old", SearchedAt: base, Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	_, err = s.Add(Record{Query: "new", SearchedAt: base.Add(time.Hour), Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Touch(old.ID); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	records, err := s.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if records[0].ID != old.ID {
		t.Error("Touched record should be first in the list")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Add(Record{Query: "to delete"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Error("Deleted record should be gone")
	}
	if err := s.Delete(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second delete should return ErrNotFound, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		_, err := s.Add(Record{
			Query:      "q",
			SearchedAt: base.Add(time.Duration(i) * time.Minute),
			Status:     StatusCompleted,
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := s.Prune(4); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 4 {
		t.Errorf("After Prune(4), count = %d, want 4", n)
	}

	// keep <= 0 must not delete anything
	if err := s.Prune(0); err != nil {
		t.Fatalf("Prune(0) failed: %v", err)
	}
	n, _ = s.Count()
	if n != 4 {
		t.Errorf("Prune(0) should be a no-op, count = %d", n)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(Record{Query: "a"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.Add(Record{Query: "b"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("After Clear, count = %d, want 0", n)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	rec, err := s.Add(Record{Query: "persisted", Status: StatusCompleted})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.Query != "persisted" {
		t.Errorf("Query = %q, want %q", got.Query, "persisted")
	}
}
