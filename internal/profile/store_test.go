package profile

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testProfile(email string) *Profile {
	return &Profile{
		Email:          NormalizeEmail(email),
		Name:           DeriveName(email),
		StartDate:      "2026-03-02T09:00:00Z",
		CurrentStep:    1,
		CompletedSteps: []int{},
		StepData:       map[int]StepData{},
		CreatedAt:      "2026-03-02T09:00:00Z",
	}
}

func TestSQLiteStore_LoadAbsentReturnsNil(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Load("nobody@co.com")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p != nil {
		t.Errorf("Load absent = %+v, want nil", p)
	}
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	p := testProfile("jane.doe@co.com")
	p.CompletedSteps = []int{1, 2}
	p.CurrentStep = 3
	p.StepData = map[int]StepData{
		1: {KeyCompletedAt: "2026-03-02T10:00:00Z", KeyNotes: "done"},
		4: {"equipment_request_id": "EQ-AB12"},
	}

	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load("Jane.Doe@Co.com") // lookup normalizes
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil for saved profile")
	}
	if got.Email != "jane.doe@co.com" || got.CurrentStep != 3 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.CompletedSteps) != 2 {
		t.Errorf("CompletedSteps = %v, want [1 2]", got.CompletedSteps)
	}
	if got.StepData[1][KeyNotes] != "done" {
		t.Errorf("StepData[1] = %v", got.StepData[1])
	}
	if got.StepData[4]["equipment_request_id"] != "EQ-AB12" {
		t.Errorf("StepData[4] = %v", got.StepData[4])
	}
}

func TestSQLiteStore_SaveRefreshesLastUpdated(t *testing.T) {
	store := newTestStore(t)

	fixed := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	restore := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = restore }()

	p := testProfile("jdoe@co.com")
	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.LastUpdated != "2026-03-02T12:00:00Z" {
		t.Errorf("LastUpdated = %q, want refreshed by Save", p.LastUpdated)
	}

	timeNow = func() time.Time { return fixed.Add(time.Hour) }
	if err := store.Save(p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if p.LastUpdated != "2026-03-02T13:00:00Z" {
		t.Errorf("LastUpdated = %q, want refreshed on every save", p.LastUpdated)
	}
}

func TestSQLiteStore_ListOrdersByRecency(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	restore := timeNow
	defer func() { timeNow = restore }()

	for i, email := range []string{"old@co.com", "mid@co.com", "new@co.com"} {
		offset := time.Duration(i) * time.Hour
		timeNow = func() time.Time { return base.Add(offset) }
		if err := store.Save(testProfile(email)); err != nil {
			t.Fatalf("Save %s: %v", email, err)
		}
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	want := []string{"new@co.com", "mid@co.com", "old@co.com"}
	for i, p := range all {
		if p.Email != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, p.Email, want[i])
		}
	}
}

func TestSQLiteStore_IndexRebuiltOnEveryWrite(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	restore := timeNow
	defer func() { timeNow = restore }()

	timeNow = func() time.Time { return base }
	a := testProfile("a@co.com")
	if err := store.Save(a); err != nil {
		t.Fatalf("Save a: %v", err)
	}

	timeNow = func() time.Time { return base.Add(time.Hour) }
	b := testProfile("b@co.com")
	b.CurrentStep = 4
	if err := store.Save(b); err != nil {
		t.Fatalf("Save b: %v", err)
	}

	index, err := store.Index()
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("index len = %d, want 2", len(index))
	}
	if index[0].Email != "b@co.com" || index[0].CurrentStep != 4 {
		t.Errorf("index[0] = %+v, want b@co.com at step 4", index[0])
	}
	if index[1].Email != "a@co.com" || index[1].CurrentStep != 1 {
		t.Errorf("index[1] = %+v, want a@co.com at step 1", index[1])
	}

	// A later write must refresh the derived row, not duplicate it.
	timeNow = func() time.Time { return base.Add(2 * time.Hour) }
	a.CurrentStep = 2
	if err := store.Save(a); err != nil {
		t.Fatalf("re-save a: %v", err)
	}
	index, err = store.Index()
	if err != nil {
		t.Fatalf("Index after rewrite: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("index len after rewrite = %d, want 2", len(index))
	}
	if index[0].Email != "a@co.com" || index[0].CurrentStep != 2 {
		t.Errorf("index[0] after rewrite = %+v, want a@co.com at step 2", index[0])
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Save(testProfile("jdoe@co.com")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	p, err := reopened.Load("jdoe@co.com")
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if p == nil || p.Name != "Jdoe" {
		t.Errorf("profile lost across reopen: %+v", p)
	}
}
