package prescriptions

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Prescription
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Prescription{}}
}

func (r *testRepo) Create(ctx context.Context, p Prescription) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Get(ctx context.Context, owner, id string) (Prescription, error) {
	p, ok := r.byID[id]
	if !ok || p.Owner != owner {
		return Prescription{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, owner string) ([]Prescription, error) {
	out := make([]Prescription, 0)
	for _, p := range r.byID {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Prescription, error) {
	out := make([]Prescription, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, owner, id string) error {
	if p, ok := r.byID[id]; !ok || p.Owner != owner {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type recordingObserver struct {
	created []string
	deleted []string
}

func (o *recordingObserver) PrescriptionCreated(ctx context.Context, p Prescription) {
	o.created = append(o.created, p.ID)
}

func (o *recordingObserver) PrescriptionDeleted(ctx context.Context, p Prescription) {
	o.deleted = append(o.deleted, p.ID)
}

func newTestService(now time.Time) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, time.UTC, nil)
	svc.now = func() time.Time { return now }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndPreservesTimes(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	p, err := svc.Create(context.Background(), "ana@example.com", CreateInput{
		Name:        "Ibuprofen",
		Dosage:      "200mg",
		TimesPerDay: []string{"20:00", "08:00", "20:00"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if p.Frequency != "daily" {
		t.Fatalf("expected default frequency daily, got %s", p.Frequency)
	}
	if !p.StartDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start date today, got %s", p.StartDate)
	}
	if p.EndDate != nil {
		t.Fatalf("expected no end date")
	}
	want := []string{"20:00", "08:00", "20:00"}
	for i := range want {
		if p.TimesPerDay[i] != want[i] {
			t.Fatalf("times order not preserved: %v", p.TimesPerDay)
		}
	}
	if p.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, p.SchemaVersion)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("created prescription does not validate: %v", err)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("expected prescription persisted")
	}
}

func TestService_Create_RejectsMalformedBeforeWrite(t *testing.T) {
	svc, repo := newTestService(time.Now())

	cases := map[string]CreateInput{
		"empty name":        {Dosage: "1", TimesPerDay: []string{"08:00"}},
		"empty dosage":      {Name: "A", TimesPerDay: []string{"08:00"}},
		"no times":          {Name: "A", Dosage: "1"},
		"bad time":          {Name: "A", Dosage: "1", TimesPerDay: []string{"8am"}},
		"unknown frequency": {Name: "A", Dosage: "1", Frequency: "monthly", TimesPerDay: []string{"08:00"}},
		"bad start date":    {Name: "A", Dosage: "1", StartDate: "01/02/2024", TimesPerDay: []string{"08:00"}},
		"bad end date":      {Name: "A", Dosage: "1", EndDate: "soon", TimesPerDay: []string{"08:00"}},
	}

	for name, in := range cases {
		if _, err := svc.Create(context.Background(), "ana@example.com", in); err != ErrInvalidInput {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no writes, got %d", len(repo.byID))
	}
}

func TestService_CreateAndDelete_NotifyObservers(t *testing.T) {
	svc, _ := newTestService(time.Now())
	obs := &recordingObserver{}
	svc.Observe(obs)

	p, err := svc.Create(context.Background(), "ana@example.com", CreateInput{
		Name: "A", Dosage: "1", Frequency: "weekly", StartDate: "2024-01-01", EndDate: "2024-02-01",
		TimesPerDay: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(context.Background(), "ana@example.com", p.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if len(obs.created) != 1 || obs.created[0] != p.ID {
		t.Fatalf("expected created notification, got %v", obs.created)
	}
	if len(obs.deleted) != 1 || obs.deleted[0] != p.ID {
		t.Fatalf("expected deleted notification, got %v", obs.deleted)
	}
}

func TestService_OtherOwnerCannotSeeOrDelete(t *testing.T) {
	svc, _ := newTestService(time.Now())

	p, err := svc.Create(context.Background(), "ana@example.com", CreateInput{
		Name: "A", Dosage: "1", TimesPerDay: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Get(context.Background(), "bob@example.com", p.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), "bob@example.com", p.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound deleting as other owner, got %v", err)
	}
}

func TestService_List_SortedByCreation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newTestService(base)

	for i, name := range []string{"first", "second", "third"} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{
			Name: name, Dosage: "1", TimesPerDay: []string{"08:00"},
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	items, err := svc.List(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 3 || items[0].Name != "first" || items[2].Name != "third" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
