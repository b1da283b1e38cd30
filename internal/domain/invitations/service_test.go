package invitations

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Invitation
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Invitation{}}
}

func (r *testRepo) Create(ctx context.Context, inv Invitation) error {
	if _, ok := r.byID[inv.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *testRepo) Update(ctx context.Context, inv Invitation) error {
	if _, ok := r.byID[inv.ID]; !ok {
		return ErrNotFound
	}
	r.byID[inv.ID] = inv
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Invitation, error) {
	inv, ok := r.byID[id]
	if !ok {
		return Invitation{}, ErrNotFound
	}
	return inv, nil
}

func (r *testRepo) ListByRecipient(ctx context.Context, to string, status Status) ([]Invitation, error) {
	out := make([]Invitation, 0)
	for _, inv := range r.byID {
		if inv.To == to && (status == "" || inv.Status == status) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *testRepo) ListBySender(ctx context.Context, from string) ([]Invitation, error) {
	out := make([]Invitation, 0)
	for _, inv := range r.byID {
		if inv.From == from {
			out = append(out, inv)
		}
	}
	return out, nil
}

type testLinks struct {
	sets map[string]map[string]struct{}
	fail bool
}

func newTestLinks() *testLinks {
	return &testLinks{sets: map[string]map[string]struct{}{}}
}

func (l *testLinks) AddLink(ctx context.Context, a, b string) error {
	if l.fail {
		return errors.New("links: unavailable")
	}
	if l.sets[a] == nil {
		l.sets[a] = map[string]struct{}{}
	}
	l.sets[a][b] = struct{}{}
	return nil
}

func (l *testLinks) ListLinked(ctx context.Context, identity string) ([]string, error) {
	out := make([]string, 0)
	for x := range l.sets[identity] {
		out = append(out, x)
	}
	return out, nil
}

func newTestService() (*Service, *testRepo, *testLinks) {
	repo := newTestRepo()
	links := newTestLinks()
	svc := NewService(repo, links, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, links
}

// -------------------------
// Tests
// -------------------------

func TestService_Send_RejectsSelfAndEmpty(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Send(context.Background(), "ana@example.com", "ANA@example.com"); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for self invite, got %v", err)
	}
	if _, err := svc.Send(context.Background(), "ana@example.com", " "); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty recipient, got %v", err)
	}
}

func TestService_Send_DedupPendingPair(t *testing.T) {
	svc, repo, _ := newTestService()

	first, err := svc.Send(context.Background(), "ana@example.com", "bob@example.com")
	if err != nil {
		t.Fatalf("Send #1 error: %v", err)
	}
	second, err := svc.Send(context.Background(), "ana@example.com", "Bob@Example.com")
	if err != nil {
		t.Fatalf("Send #2 error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same pending invitation, got %s vs %s", first.ID, second.ID)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored invitation, got %d", len(repo.byID))
	}

	// otro remitente al mismo destinatario sí crea una nueva
	if _, err := svc.Send(context.Background(), "carl@example.com", "bob@example.com"); err != nil {
		t.Fatalf("Send from other sender error: %v", err)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 stored invitations, got %d", len(repo.byID))
	}
}

func TestService_Accept_LinksBothWays_AndIdempotent(t *testing.T) {
	svc, _, _ := newTestService()

	inv, err := svc.Send(context.Background(), "ana@example.com", "bob@example.com")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if _, err := svc.Accept(context.Background(), inv.ID, "ana@example.com"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden when sender accepts, got %v", err)
	}

	accepted, err := svc.Accept(context.Background(), inv.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	for _, pair := range [][2]string{{"ana@example.com", "bob@example.com"}, {"bob@example.com", "ana@example.com"}} {
		ok, err := svc.IsLinked(context.Background(), pair[0], pair[1])
		if err != nil || !ok {
			t.Fatalf("expected %s linked to %s (err=%v)", pair[0], pair[1], err)
		}
	}

	again, err := svc.Accept(context.Background(), inv.ID, "bob@example.com")
	if err != nil || again.Status != StatusAccepted {
		t.Fatalf("expected idempotent accept, got %v %v", again.Status, err)
	}

	linked, _ := svc.Linked(context.Background(), "ana@example.com")
	if len(linked) != 1 {
		t.Fatalf("expected a single linked user, got %v", linked)
	}

	if _, err := svc.Decline(context.Background(), inv.ID, "bob@example.com"); err != ErrBadState {
		t.Fatalf("expected ErrBadState declining an accepted invitation, got %v", err)
	}
}

func TestService_Decline_IsTerminal(t *testing.T) {
	svc, _, links := newTestService()

	inv, _ := svc.Send(context.Background(), "ana@example.com", "bob@example.com")

	declined, err := svc.Decline(context.Background(), inv.ID, "bob@example.com")
	if err != nil || declined.Status != StatusDeclined {
		t.Fatalf("expected declined, got %v %v", declined.Status, err)
	}
	if _, err := svc.Accept(context.Background(), inv.ID, "bob@example.com"); err != ErrBadState {
		t.Fatalf("expected ErrBadState accepting a declined invitation, got %v", err)
	}
	if len(links.sets) != 0 {
		t.Fatalf("decline must not link, got %v", links.sets)
	}

	pending, _ := svc.ListPending(context.Background(), "bob@example.com")
	if len(pending) != 0 {
		t.Fatalf("expected no pending invitations, got %d", len(pending))
	}

	// con la anterior cerrada, se puede volver a invitar
	again, err := svc.Send(context.Background(), "ana@example.com", "bob@example.com")
	if err != nil || again.ID == inv.ID {
		t.Fatalf("expected a new invitation, got %v (err=%v)", again.ID, err)
	}
}

func TestService_Accept_LinkFailureKeepsPending(t *testing.T) {
	svc, repo, links := newTestService()

	inv, _ := svc.Send(context.Background(), "ana@example.com", "bob@example.com")
	links.fail = true

	if _, err := svc.Accept(context.Background(), inv.ID, "bob@example.com"); err == nil {
		t.Fatalf("expected error when links store fails")
	}
	if repo.byID[inv.ID].Status != StatusPending {
		t.Fatalf("expected invitation still pending, got %s", repo.byID[inv.ID].Status)
	}
}

func TestService_Accept_UnknownID(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Accept(context.Background(), "missing", "bob@example.com"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
