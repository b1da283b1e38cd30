package calendar

import (
	"context"
	"errors"
	"time"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

const maxWindowDays = 62

type PrescriptionLister interface {
	List(ctx context.Context, owner string) ([]prescriptions.Prescription, error)
}

type TakenReader interface {
	TakenSet(ctx context.Context, owner string, date time.Time) (map[string]bool, error)
}

type LinkChecker interface {
	IsLinked(ctx context.Context, a, b string) (bool, error)
}

type Service struct {
	prescriptions PrescriptionLister
	taken         TakenReader
	links         LinkChecker

	now        func() time.Time
	loc        *time.Location
	windowDays int
	log        logger.Logger
}

type Options struct {
	Location   *time.Location
	WindowDays int
	Logger     logger.Logger
}

func NewService(p PrescriptionLister, taken TakenReader, links LinkChecker, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = schedule.DefaultWindowDays
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		prescriptions: p,
		taken:         taken,
		links:         links,
		now:           time.Now,
		loc:           opts.Location,
		windowDays:    opts.WindowDays,
		log:           opts.Logger.With(map[string]any{"component": "calendar"}),
	}
}

// Week arma la vista de owner para viewer en [start, start+days). Solo el
// dueño o una identidad vinculada pueden verla; solo el dueño puede marcar, y
// solo las dosis de hoy. start cero => hoy; days <= 0 => ventana configurada.
func (s *Service) Week(ctx context.Context, viewer, owner string, start time.Time, days int) (Week, error) {
	viewer = auth.NormalizeIdentity(viewer)
	owner = auth.NormalizeIdentity(owner)
	if owner == "" {
		owner = viewer
	}
	if viewer == "" {
		return Week{}, ErrInvalidInput
	}
	if days <= 0 {
		days = s.windowDays
	}
	if days > maxWindowDays {
		return Week{}, ErrInvalidInput
	}

	if viewer != owner {
		linked, err := s.links.IsLinked(ctx, viewer, owner)
		if err != nil {
			return Week{}, err
		}
		if !linked {
			return Week{}, ErrForbidden
		}
	}

	today := schedule.Today(s.now(), s.loc)
	if start.IsZero() {
		start = today
	}
	window := schedule.Window{Start: schedule.DateOf(start), Days: days}

	items, err := s.prescriptions.List(ctx, owner)
	if err != nil {
		return Week{}, err
	}

	byDate := map[time.Time][]Event{}
	for _, p := range items {
		for _, d := range schedule.Expand(p.Rule(), window) {
			byDate[d.Date] = append(byDate[d.Date], Event{
				PrescriptionID: p.ID,
				Name:           p.Name,
				Dosage:         p.Dosage,
				Date:           d.Date,
				Time:           d.Time,
				Text:           schedule.Describe(p.Name, p.Dosage, d.Time),
				Key:            schedule.DoseKey(p.ID, d.Time),
			})
		}
	}

	week := Week{Owner: owner, Viewer: viewer, Today: today}
	for _, date := range window.Dates() {
		// orden de prescripción y luego de timesPerDay, tal como se cargaron
		events := byDate[date]
		if len(events) > 0 {
			taken := s.takenSet(ctx, owner, date)
			canMark := viewer == owner && date.Equal(today)
			for i := range events {
				events[i].Taken = taken[events[i].Key]
				events[i].CanMark = canMark
			}
		}
		week.Days = append(week.Days, Day{Date: date, Events: events})
	}
	return week, nil
}

// takenSet degrada a "nada tomado" si el store falla; el error se loguea.
func (s *Service) takenSet(ctx context.Context, owner string, date time.Time) map[string]bool {
	taken, err := s.taken.TakenSet(ctx, owner, date)
	if err != nil {
		s.log.Warn("read taken markers failed", map[string]any{
			"owner": owner,
			"date":  schedule.FormatDate(date),
			"error": err,
		})
		return map[string]bool{}
	}
	return taken
}
