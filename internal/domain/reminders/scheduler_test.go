package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/schedule"
	"med-reminder/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) fireActive() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.err
}

type memPerms map[string]Permission

func (m memPerms) GetPermission(ctx context.Context, identity string) (Permission, error) {
	if p, ok := m[identity]; ok {
		return p, nil
	}
	return PermissionDefault, nil
}

func (m memPerms) SetPermission(ctx context.Context, identity string, p Permission) error {
	m[identity] = p
	return nil
}

type stubSource []prescriptions.Prescription

func (s stubSource) List(ctx context.Context, owner string) ([]prescriptions.Prescription, error) {
	var out []prescriptions.Prescription
	for _, p := range s {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubSource) ListAll(ctx context.Context) ([]prescriptions.Prescription, error) {
	return s, nil
}

// now: 2024-01-01 09:00 UTC
var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func dailyRx(id, owner string, times ...string) prescriptions.Prescription {
	return prescriptions.Prescription{
		ID: id, Owner: owner, Name: "Ibuprofen", Dosage: "200mg",
		Frequency: schedule.Daily, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TimesPerDay: times, SchemaVersion: prescriptions.SchemaVersion,
	}
}

func newTestScheduler(source stubSource, perms memPerms) (*Scheduler, *fakeClock, *recordingNotifier) {
	clock := &fakeClock{}
	n := &recordingNotifier{}
	s := NewScheduler(source, perms, n, Options{})
	s.now = func() time.Time { return testNow }
	s.afterFunc = clock.afterFunc
	return s, clock, n
}

// -------------------------
// Tests
// -------------------------

func TestScheduler_Plan_OnlyFutureDosesWithinHorizon(t *testing.T) {
	perms := memPerms{"ana@example.com": PermissionGranted}
	s, clock, _ := newTestScheduler(nil, perms)

	// 08:00 de hoy ya pasó; 20:00 de hoy y los 6 días siguientes (x2) quedan
	n, err := s.Plan(context.Background(), dailyRx("rx-1", "ana@example.com", "08:00", "20:00"))
	require.NoError(t, err)

	assert.Equal(t, 13, n)
	assert.Equal(t, 13, s.Pending())
	for _, tm := range clock.timers {
		assert.Greater(t, tm.delay, time.Duration(0))
		assert.Less(t, tm.delay, DefaultHorizon)
	}
	assert.Equal(t, 11*time.Hour, clock.timers[0].delay)
}

func TestScheduler_Plan_RequiresGrantedPermission(t *testing.T) {
	for _, p := range []Permission{PermissionDefault, PermissionDenied} {
		s, clock, _ := newTestScheduler(nil, memPerms{"ana@example.com": p})

		n, err := s.Plan(context.Background(), dailyRx("rx-1", "ana@example.com", "20:00"))
		require.NoError(t, err)
		assert.Zero(t, n, "permission %s", p)
		assert.Empty(t, clock.timers)
	}
}

func TestScheduler_FiredReminderCarriesTitleAndBody(t *testing.T) {
	s, clock, n := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})

	_, err := s.Plan(context.Background(), prescriptions.Prescription{
		ID: "rx-1", Owner: "ana@example.com", Name: "X", Dosage: "Y",
		Frequency: schedule.Weekly, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TimesPerDay: []string{"20:00"}, SchemaVersion: prescriptions.SchemaVersion,
	})
	require.NoError(t, err)
	require.Len(t, clock.timers, 1)

	clock.fireActive()

	require.Len(t, n.msgs, 1)
	msg := n.msgs[0]
	assert.Equal(t, "Pill Reminder", msg.Title)
	assert.Equal(t, "X - Y at 20:00", msg.Body)
	assert.Equal(t, "ana@example.com", msg.Identity)
	assert.Equal(t, time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), msg.FireAt)
}

func TestScheduler_DeleteCancelsPendingTimers(t *testing.T) {
	s, clock, n := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})
	rx := dailyRx("rx-1", "ana@example.com", "20:00")

	s.PrescriptionCreated(context.Background(), rx)
	require.NotZero(t, s.Pending())

	s.PrescriptionDeleted(context.Background(), rx)
	assert.Zero(t, s.Pending())
	for _, tm := range clock.timers {
		assert.True(t, tm.stopped)
	}

	clock.fireActive()
	assert.Empty(t, n.msgs)
}

func TestScheduler_PlanReplacesPreviousTimers(t *testing.T) {
	s, clock, _ := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})
	rx := dailyRx("rx-1", "ana@example.com", "20:00")

	first, _ := s.Plan(context.Background(), rx)
	second, _ := s.Plan(context.Background(), rx)

	assert.Equal(t, first, second)
	assert.Equal(t, second, s.Pending())
	for _, tm := range clock.timers[:first] {
		assert.True(t, tm.stopped)
	}
}

func TestScheduler_ResyncAndCancelOwner(t *testing.T) {
	perms := memPerms{"ana@example.com": PermissionGranted, "bob@example.com": PermissionGranted}
	source := stubSource{
		dailyRx("rx-a", "ana@example.com", "20:00"),
		dailyRx("rx-b", "bob@example.com", "21:00"),
	}
	s, _, _ := newTestScheduler(source, perms)

	require.NoError(t, s.Resync(context.Background()))
	assert.Equal(t, 14, s.Pending())

	s.CancelOwner("ana@example.com")
	assert.Equal(t, 0, s.PendingFor("ana@example.com"))
	assert.Equal(t, 7, s.PendingFor("bob@example.com"))
}

func TestScheduler_DeliveryFailureIsSwallowed(t *testing.T) {
	s, clock, n := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})
	n.err = errors.New("no session")

	_, err := s.Plan(context.Background(), dailyRx("rx-1", "ana@example.com", "20:00"))
	require.NoError(t, err)

	assert.NotPanics(t, clock.fireActive)
	assert.Len(t, n.msgs, 7)
}

func TestScheduler_CloseStopsEverything(t *testing.T) {
	s, clock, _ := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})

	require.NoError(t, s.StartCron("@every 1h"))
	_, err := s.Plan(context.Background(), dailyRx("rx-1", "ana@example.com", "20:00"))
	require.NoError(t, err)

	s.Close()

	assert.Zero(t, s.Pending())
	for _, tm := range clock.timers {
		assert.True(t, tm.stopped)
	}
	_, err = s.Plan(context.Background(), dailyRx("rx-2", "ana@example.com", "20:00"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestScheduler_StartCron_RejectsBadSpec(t *testing.T) {
	s, _, _ := newTestScheduler(nil, memPerms{})
	assert.Error(t, s.StartCron("every hour"))
}

// blockingPerms bloquea la primera lectura de permiso hasta que se cierre release.
type blockingPerms struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPerms) GetPermission(ctx context.Context, identity string) (Permission, error) {
	first := false
	b.once.Do(func() { first = true })
	if first {
		close(b.entered)
		<-b.release
	}
	return PermissionGranted, nil
}

func (b *blockingPerms) SetPermission(ctx context.Context, identity string, p Permission) error {
	return nil
}

func TestScheduler_OverlappingPlansLeaveNoOrphanTimers(t *testing.T) {
	perms := &blockingPerms{entered: make(chan struct{}), release: make(chan struct{})}
	clock := &fakeClock{}
	s := NewScheduler(nil, perms, &recordingNotifier{}, Options{})
	s.now = func() time.Time { return testNow }
	s.afterFunc = clock.afterFunc
	rx := dailyRx("rx-1", "ana@example.com", "20:00")

	done := make(chan error, 1)
	go func() {
		_, err := s.Plan(context.Background(), rx)
		done <- err
	}()
	<-perms.entered

	n, err := s.Plan(context.Background(), rx)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	close(perms.release)
	require.NoError(t, <-done)
	assert.Equal(t, 7, s.Pending())

	s.PrescriptionDeleted(context.Background(), rx)

	assert.Zero(t, s.Pending())
	clock.mu.Lock()
	defer clock.mu.Unlock()
	require.Len(t, clock.timers, 14)
	for _, tm := range clock.timers {
		assert.True(t, tm.stopped)
	}
}

func TestScheduler_FiredTimersArePruned(t *testing.T) {
	s, clock, n := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})

	got, err := s.Plan(context.Background(), dailyRx("rx-1", "ana@example.com", "20:00"))
	require.NoError(t, err)
	require.Equal(t, 7, got)

	clock.timers[0].fn()

	require.Len(t, n.msgs, 1)
	assert.Equal(t, 6, s.Pending())
	assert.Equal(t, 6, s.PendingFor("ana@example.com"))

	// un timer ya disparado no vuelve a entregar
	clock.timers[0].fn()
	assert.Len(t, n.msgs, 1)

	for _, tm := range clock.timers[1:] {
		tm.fn()
	}
	assert.Len(t, n.msgs, 7)
	assert.Zero(t, s.Pending())
}

func TestScheduler_TimerFiringAfterCancelDoesNotDeliver(t *testing.T) {
	s, clock, n := newTestScheduler(nil, memPerms{"ana@example.com": PermissionGranted})
	rx := dailyRx("rx-1", "ana@example.com", "20:00")

	_, err := s.Plan(context.Background(), rx)
	require.NoError(t, err)
	s.Cancel(rx.ID)

	// time.AfterFunc puede haber arrancado la función antes del Stop
	clock.timers[0].fn()
	assert.Empty(t, n.msgs)
}
