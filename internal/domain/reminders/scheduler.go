package reminders

import (
	"context"
	"errors"
	"sync"
	"time"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/notify"

	"github.com/robfig/cron/v3"
)

const (
	Title = "Pill Reminder"

	DefaultHorizon = 7 * 24 * time.Hour
	sendTimeout    = 10 * time.Second
)

var ErrClosed = errors.New("scheduler closed")

type PrescriptionSource interface {
	List(ctx context.Context, owner string) ([]prescriptions.Prescription, error)
	ListAll(ctx context.Context) ([]prescriptions.Prescription, error)
}

type stopper interface {
	Stop() bool
}

// pending es un timer armado; su puntero lo identifica al dispararse.
type pending struct {
	timer stopper
}

type armed struct {
	owner  string
	timers []*pending
}

// Scheduler arma un timer one-shot por dosis futura dentro del horizonte y los
// conserva por prescripción, de modo que borrar una prescripción (o cerrar el
// scheduler) cancela sus recordatorios pendientes.
type Scheduler struct {
	source   PrescriptionSource
	perms    PermissionRepository
	notifier notify.Notifier
	log      logger.Logger

	loc     *time.Location
	horizon time.Duration

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) stopper

	mu     sync.Mutex
	armed  map[string]*armed // prescription id
	closed bool
	cron   *cron.Cron
}

type Options struct {
	Location *time.Location
	Horizon  time.Duration
	Logger   logger.Logger
}

func NewScheduler(source PrescriptionSource, perms PermissionRepository, n notify.Notifier, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Horizon <= 0 {
		opts.Horizon = DefaultHorizon
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Scheduler{
		source:   source,
		perms:    perms,
		notifier: n,
		log:      opts.Logger.With(map[string]any{"component": "reminders"}),
		loc:      opts.Location,
		horizon:  opts.Horizon,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		armed: map[string]*armed{},
	}
}

// Plan reemplaza los timers de p. Solo arma si el dueño dio permiso; cada
// dosis debe caer estrictamente en el futuro y a menos de horizon. Devuelve
// cuántos timers quedaron armados. Con Plans concurrentes para la misma
// prescripción gana el último en armar y los timers del otro se detienen.
func (s *Scheduler) Plan(ctx context.Context, p prescriptions.Prescription) (int, error) {
	s.Cancel(p.ID)

	perm, err := s.perms.GetPermission(ctx, p.Owner)
	if err != nil {
		return 0, err
	}
	if perm != PermissionGranted {
		return 0, nil
	}

	now := s.now()
	window := schedule.Window{
		Start: schedule.Today(now, s.loc),
		Days:  int(s.horizon / (24 * time.Hour)),
	}
	if window.Days < 1 {
		window.Days = 1
	}

	var msgs []notify.Message
	var delays []time.Duration
	for _, d := range schedule.Expand(p.Rule(), window) {
		fireAt, err := schedule.FireTime(d.Date, d.Time, s.loc)
		if err != nil {
			continue
		}
		delay := fireAt.Sub(now)
		if delay <= 0 || delay >= s.horizon {
			continue
		}
		msgs = append(msgs, notify.Message{
			Identity:       p.Owner,
			Title:          Title,
			Body:           schedule.Describe(p.Name, p.Dosage, d.Time),
			FireAt:         fireAt,
			PrescriptionID: p.ID,
			Date:           schedule.FormatDate(d.Date),
			Time:           d.Time,
		})
		delays = append(delays, delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	if prev, ok := s.armed[p.ID]; ok {
		stopAll(prev.timers)
		delete(s.armed, p.ID)
	}

	entry := &armed{owner: p.Owner}
	for i := range msgs {
		msg := msgs[i]
		pend := &pending{}
		pend.timer = s.afterFunc(delays[i], func() { s.fire(pend, msg) })
		entry.timers = append(entry.timers, pend)
	}
	if len(entry.timers) > 0 {
		s.armed[p.ID] = entry
	}
	return len(entry.timers), nil
}

// PlanOwner re-planifica todas las prescripciones de una identidad.
func (s *Scheduler) PlanOwner(ctx context.Context, owner string) error {
	items, err := s.source.List(ctx, owner)
	if err != nil {
		return err
	}
	for _, p := range items {
		if _, err := s.Plan(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Cancel(prescriptionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.armed[prescriptionID]; ok {
		stopAll(e.timers)
		delete(s.armed, prescriptionID)
	}
}

func (s *Scheduler) CancelOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.armed {
		if e.owner == owner {
			stopAll(e.timers)
			delete(s.armed, id)
		}
	}
}

// Resync cancela todo y vuelve a planificar cada prescripción. Los errores por
// prescripción se loguean y no cortan el resto.
func (s *Scheduler) Resync(ctx context.Context) error {
	items, err := s.source.ListAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for id, e := range s.armed {
		stopAll(e.timers)
		delete(s.armed, id)
	}
	s.mu.Unlock()

	total := 0
	for _, p := range items {
		n, err := s.Plan(ctx, p)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			s.log.Warn("plan failed", map[string]any{"prescription": p.ID, "error": err})
			continue
		}
		total += n
	}
	s.log.Debug("resync done", map[string]any{"prescriptions": len(items), "timers": total})
	return nil
}

// StartCron corre Resync con la expresión dada (p.ej. "@every 1h").
func (s *Scheduler) StartCron(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.Resync(ctx); err != nil {
			s.log.Error("resync failed", map[string]any{"error": err})
		}
	}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.cron = c
	c.Start()
	return nil
}

// Pending cuenta los timers armados (tests y health).
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.armed {
		n += len(e.timers)
	}
	return n
}

func (s *Scheduler) PendingFor(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.armed {
		if e.owner == owner {
			n += len(e.timers)
		}
	}
	return n
}

// Close detiene el cron y todos los timers; Plan deja de armar.
func (s *Scheduler) Close() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.closed = true
	for id, e := range s.armed {
		stopAll(e.timers)
		delete(s.armed, id)
	}
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// PrescriptionCreated / PrescriptionDeleted implementan prescriptions.Observer.
func (s *Scheduler) PrescriptionCreated(ctx context.Context, p prescriptions.Prescription) {
	if _, err := s.Plan(ctx, p); err != nil {
		s.log.Warn("plan failed", map[string]any{"prescription": p.ID, "error": err})
	}
}

func (s *Scheduler) PrescriptionDeleted(ctx context.Context, p prescriptions.Prescription) {
	s.Cancel(p.ID)
}

// fire saca el timer de armed y entrega. Si ya no estaba (cancelado o
// reemplazado mientras se disparaba) no envía nada.
func (s *Scheduler) fire(pend *pending, msg notify.Message) {
	s.mu.Lock()
	live := false
	if e, ok := s.armed[msg.PrescriptionID]; ok {
		for i, t := range e.timers {
			if t == pend {
				e.timers = append(e.timers[:i], e.timers[i+1:]...)
				live = true
				break
			}
		}
		if len(e.timers) == 0 {
			delete(s.armed, msg.PrescriptionID)
		}
	}
	s.mu.Unlock()

	if live {
		s.deliver(msg)
	}
}

func (s *Scheduler) deliver(msg notify.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, msg); err != nil {
		// sin retry: se loguea y se descarta
		s.log.Error("reminder delivery failed", map[string]any{
			"identity":     msg.Identity,
			"prescription": msg.PrescriptionID,
			"error":        err,
		})
		return
	}
	s.log.Info("reminder sent", map[string]any{"identity": msg.Identity, "prescription": msg.PrescriptionID})
}

func stopAll(timers []*pending) {
	for _, t := range timers {
		t.timer.Stop()
	}
}

var _ prescriptions.Observer = (*Scheduler)(nil)
