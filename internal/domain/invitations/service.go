package invitations

import (
	"context"
	"errors"
	"sort"
	"time"

	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo  Repository
	links LinkRepository
	now   func() time.Time
	log   logger.Logger
}

func NewService(repo Repository, links LinkRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		links: links,
		now:   time.Now,
		log:   log.With(map[string]any{"component": "invitations"}),
	}
}

// Send crea una invitación pending de from a to. Si ya existe una pending para
// el mismo par (from, to) se devuelve esa en lugar de crear otra.
func (s *Service) Send(ctx context.Context, from, to string) (Invitation, error) {
	from = auth.NormalizeIdentity(from)
	to = auth.NormalizeIdentity(to)
	if from == "" || to == "" || from == to {
		return Invitation{}, ErrInvalidInput
	}

	pending, err := s.repo.ListByRecipient(ctx, to, StatusPending)
	if err != nil {
		return Invitation{}, err
	}
	for _, inv := range pending {
		if inv.From == from {
			return inv, nil
		}
	}

	now := s.now().UTC()
	inv := Invitation{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		s.log.Error("create invitation failed", map[string]any{"from": from, "to": to, "error": err})
		return Invitation{}, err
	}
	return inv, nil
}

func (s *Service) ListPending(ctx context.Context, to string) ([]Invitation, error) {
	to = auth.NormalizeIdentity(to)
	if to == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRecipient(ctx, to, StatusPending)
	if err != nil {
		return nil, err
	}
	sortByCreated(items)
	return items, nil
}

func (s *Service) ListSent(ctx context.Context, from string) ([]Invitation, error) {
	from = auth.NormalizeIdentity(from)
	if from == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListBySender(ctx, from)
	if err != nil {
		return nil, err
	}
	sortByCreated(items)
	return items, nil
}

// Accept pasa la invitación a accepted y vincula ambas identidades.
// Aceptar una ya aceptada es idempotente; una declinada es ErrBadState.
func (s *Service) Accept(ctx context.Context, id, actor string) (Invitation, error) {
	inv, err := s.load(ctx, id, actor)
	if err != nil {
		return Invitation{}, err
	}

	switch inv.Status {
	case StatusDeclined:
		return Invitation{}, ErrBadState
	case StatusAccepted, StatusPending:
	default:
		return Invitation{}, ErrBadState
	}

	// El link va primero: si falla, la invitación sigue pending y se puede reintentar.
	if err := s.link(ctx, inv.From, inv.To); err != nil {
		return Invitation{}, err
	}

	if inv.Status == StatusAccepted {
		return inv, nil
	}

	inv.Status = StatusAccepted
	inv.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, inv); err != nil {
		s.log.Error("accept invitation failed", map[string]any{"id": inv.ID, "error": err})
		return Invitation{}, err
	}
	return inv, nil
}

// Decline pasa la invitación a declined, sin efectos sobre los links.
func (s *Service) Decline(ctx context.Context, id, actor string) (Invitation, error) {
	inv, err := s.load(ctx, id, actor)
	if err != nil {
		return Invitation{}, err
	}

	switch inv.Status {
	case StatusDeclined:
		return inv, nil
	case StatusAccepted:
		return Invitation{}, ErrBadState
	case StatusPending:
	default:
		return Invitation{}, ErrBadState
	}

	inv.Status = StatusDeclined
	inv.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, inv); err != nil {
		s.log.Error("decline invitation failed", map[string]any{"id": inv.ID, "error": err})
		return Invitation{}, err
	}
	return inv, nil
}

func (s *Service) Linked(ctx context.Context, identity string) ([]string, error) {
	identity = auth.NormalizeIdentity(identity)
	if identity == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.links.ListLinked(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.Strings(items)
	return items, nil
}

// IsLinked reporta si b está en el set linkedUsers de a.
func (s *Service) IsLinked(ctx context.Context, a, b string) (bool, error) {
	a = auth.NormalizeIdentity(a)
	b = auth.NormalizeIdentity(b)
	if a == "" || b == "" {
		return false, nil
	}
	if a == b {
		return true, nil
	}
	items, err := s.links.ListLinked(ctx, a)
	if err != nil {
		return false, err
	}
	for _, x := range items {
		if x == b {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) load(ctx context.Context, id, actor string) (Invitation, error) {
	actor = auth.NormalizeIdentity(actor)
	if id == "" || actor == "" {
		return Invitation{}, ErrInvalidInput
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Invitation{}, ErrNotFound
		}
		return Invitation{}, err
	}
	if inv.To != actor {
		return Invitation{}, ErrForbidden
	}
	return inv, nil
}

func (s *Service) link(ctx context.Context, a, b string) error {
	if err := s.links.AddLink(ctx, a, b); err != nil {
		s.log.Error("link failed", map[string]any{"identity": a, "linked": b, "error": err})
		return err
	}
	if err := s.links.AddLink(ctx, b, a); err != nil {
		s.log.Error("link failed", map[string]any{"identity": b, "linked": a, "error": err})
		return err
	}
	return nil
}

func sortByCreated(items []Invitation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
