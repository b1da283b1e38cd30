package prescriptions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Observer recibe altas y bajas (el scheduler de recordatorios). Se define acá
// para no importar reminders (rompe ciclos).
type Observer interface {
	PrescriptionCreated(ctx context.Context, p Prescription)
	PrescriptionDeleted(ctx context.Context, p Prescription)
}

type Service struct {
	repo      Repository
	now       func() time.Time
	loc       *time.Location
	log       logger.Logger
	observers []Observer
}

func NewService(repo Repository, loc *time.Location, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		loc:  loc,
		log:  log.With(map[string]any{"component": "prescriptions"}),
	}
}

func (s *Service) Observe(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

type CreateInput struct {
	Name        string
	Dosage      string
	Frequency   string   // default daily
	StartDate   string   // YYYY-MM-DD; default hoy
	EndDate     string   // YYYY-MM-DD opcional
	TimesPerDay []string // al menos uno; duplicados permitidos
}

func (s *Service) Create(ctx context.Context, owner string, in CreateInput) (Prescription, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return Prescription{}, ErrInvalidInput
	}

	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	if name == "" || dosage == "" || len(in.TimesPerDay) == 0 {
		return Prescription{}, ErrInvalidInput
	}

	freq := schedule.Daily
	if strings.TrimSpace(in.Frequency) != "" {
		f, ok := schedule.ParseFrequency(in.Frequency)
		if !ok {
			return Prescription{}, ErrInvalidInput
		}
		freq = f
	}

	now := s.now()

	start := schedule.Today(now, s.loc)
	if raw := strings.TrimSpace(in.StartDate); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return Prescription{}, ErrInvalidInput
		}
		start = d
	}

	var end *time.Time
	if raw := strings.TrimSpace(in.EndDate); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return Prescription{}, ErrInvalidInput
		}
		end = &d
	}

	times := make([]string, 0, len(in.TimesPerDay))
	for _, raw := range in.TimesPerDay {
		t := strings.TrimSpace(raw)
		if _, _, err := schedule.ParseClock(t); err != nil {
			return Prescription{}, ErrInvalidInput
		}
		times = append(times, t)
	}

	p := Prescription{
		ID:            uuid.NewString(),
		Owner:         owner,
		Name:          name,
		Dosage:        dosage,
		Frequency:     freq,
		StartDate:     start,
		EndDate:       end,
		TimesPerDay:   times,
		SchemaVersion: SchemaVersion,
		CreatedAt:     now.UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("create prescription failed", map[string]any{"owner": owner, "error": err})
		return Prescription{}, err
	}

	for _, o := range s.observers {
		o.PrescriptionCreated(ctx, p)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, owner, id string) (Prescription, error) {
	owner = strings.TrimSpace(owner)
	id = strings.TrimSpace(id)
	if owner == "" || id == "" {
		return Prescription{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, owner, id)
}

// List devuelve las prescripciones del owner por fecha de creación.
func (s *Service) List(ctx context.Context, owner string) ([]Prescription, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	sortByCreated(items)
	return items, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Prescription, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByCreated(items)
	return items, nil
}

func (s *Service) Delete(ctx context.Context, owner, id string) error {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.Owner, p.ID); err != nil {
		s.log.Error("delete prescription failed", map[string]any{"owner": owner, "id": id, "error": err})
		return err
	}
	for _, o := range s.observers {
		o.PrescriptionDeleted(ctx, p)
	}
	return nil
}

func sortByCreated(items []Prescription) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
