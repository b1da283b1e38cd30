package doses

import (
	"context"
	"errors"
	"strings"
	"time"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("only today's doses can be marked")
)

// PrescriptionLookup es lo único que doses necesita de prescriptions.
type PrescriptionLookup interface {
	Get(ctx context.Context, owner, id string) (prescriptions.Prescription, error)
}

type Service struct {
	repo          Repository
	prescriptions PrescriptionLookup
	now           func() time.Time
	loc           *time.Location
	log           logger.Logger
}

func NewService(repo Repository, lookup PrescriptionLookup, loc *time.Location, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:          repo,
		prescriptions: lookup,
		now:           time.Now,
		loc:           loc,
		log:           log.With(map[string]any{"component": "doses"}),
	}
}

type DoseRef struct {
	Owner          string // vacío => el actor
	PrescriptionID string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
}

// Mark registra la dosis como tomada. Solo el dueño puede marcar, solo para
// hoy (según la timezone configurada) y solo dosis que la regla produce.
func (s *Service) Mark(ctx context.Context, actor string, ref DoseRef) (TakenMarker, error) {
	m, err := s.resolve(ctx, actor, ref)
	if err != nil {
		return TakenMarker{}, err
	}

	m.TakenAt = s.now().UTC()
	if err := s.repo.Put(ctx, m); err != nil {
		s.log.Error("mark dose failed", map[string]any{"owner": m.Owner, "key": m.Key(), "error": err})
		return TakenMarker{}, err
	}
	return m, nil
}

func (s *Service) Unmark(ctx context.Context, actor string, ref DoseRef) error {
	m, err := s.resolve(ctx, actor, ref)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, m.Owner, m.Date, m.Key()); err != nil {
		s.log.Error("unmark dose failed", map[string]any{"owner": m.Owner, "key": m.Key(), "error": err})
		return err
	}
	return nil
}

func (s *Service) ListByDate(ctx context.Context, owner string, date time.Time) ([]TakenMarker, error) {
	owner = auth.NormalizeIdentity(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDate(ctx, owner, schedule.DateOf(date))
}

// TakenSet indexa los markers de una fecha por Key.
func (s *Service) TakenSet(ctx context.Context, owner string, date time.Time) (map[string]bool, error) {
	items, err := s.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(items))
	for _, m := range items {
		out[m.Key()] = true
	}
	return out, nil
}

func (s *Service) Today() time.Time {
	return schedule.Today(s.now(), s.loc)
}

func (s *Service) resolve(ctx context.Context, actor string, ref DoseRef) (TakenMarker, error) {
	actor = auth.NormalizeIdentity(actor)
	owner := auth.NormalizeIdentity(ref.Owner)
	if owner == "" {
		owner = actor
	}
	pid := strings.TrimSpace(ref.PrescriptionID)
	clock := strings.TrimSpace(ref.Time)
	if actor == "" || pid == "" {
		return TakenMarker{}, ErrInvalidInput
	}
	if actor != owner {
		return TakenMarker{}, ErrForbidden
	}

	date, err := schedule.ParseDate(strings.TrimSpace(ref.Date))
	if err != nil {
		return TakenMarker{}, ErrInvalidInput
	}
	if _, _, err := schedule.ParseClock(clock); err != nil {
		return TakenMarker{}, ErrInvalidInput
	}
	if !date.Equal(s.Today()) {
		return TakenMarker{}, ErrBadState
	}

	p, err := s.prescriptions.Get(ctx, owner, pid)
	if err != nil {
		if errors.Is(err, prescriptions.ErrNotFound) {
			return TakenMarker{}, ErrNotFound
		}
		return TakenMarker{}, err
	}

	if !producesDose(p, date, clock) {
		return TakenMarker{}, ErrNotFound
	}

	return TakenMarker{
		Owner:          owner,
		Date:           date,
		PrescriptionID: p.ID,
		Time:           clock,
	}, nil
}

func producesDose(p prescriptions.Prescription, date time.Time, clock string) bool {
	for _, d := range schedule.Expand(p.Rule(), schedule.Window{Start: date, Days: 1}) {
		if d.Time == clock {
			return true
		}
	}
	return false
}
