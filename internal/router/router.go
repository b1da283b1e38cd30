package router

import (
	"net/http"
	"time"

	_ "med-reminder/docs"
	notifiers "med-reminder/internal/adapters/notify"
	"med-reminder/internal/adapters/notify/wshub"
	"med-reminder/internal/adapters/storage"
	"med-reminder/internal/adapters/storage/memory"
	"med-reminder/internal/domain/calendar"
	"med-reminder/internal/domain/doses"
	"med-reminder/internal/domain/invitations"
	"med-reminder/internal/domain/prescriptions"
	"med-reminder/internal/domain/reminders"
	"med-reminder/internal/middleware"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
	"med-reminder/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene vacío, in-memory.
	Stores storage.Stores

	Logger logger.Logger

	// Notifier extra además del hub WebSocket (log, webhook). Puede ser nil.
	Notifier notify.Notifier

	Location   *time.Location
	WindowDays int
	Horizon    time.Duration
}

// App expone lo que main necesita manejar además del handler: el scheduler
// (cron/resync/close) y el hub (close).
type App struct {
	Handler   http.Handler
	Scheduler *reminders.Scheduler
	Hub       *wshub.Hub
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	stores := opts.Stores
	if stores.Prescriptions == nil {
		stores = memory.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Entrega: hub WebSocket siempre; el notifier extra se suma en fan-out.
	hub := wshub.New(log)
	var notifier notify.Notifier = hub
	if opts.Notifier != nil {
		notifier = notifiers.Multi{hub, opts.Notifier}
	}

	// Services por módulo
	prescriptionsSvc := prescriptions.NewService(stores.Prescriptions, loc, log)
	invitationsSvc := invitations.NewService(stores.Invitations, stores.Links, log)
	dosesSvc := doses.NewService(stores.Doses, prescriptionsSvc, loc, log)
	calendarSvc := calendar.NewService(prescriptionsSvc, dosesSvc, invitationsSvc, calendar.Options{
		Location:   loc,
		WindowDays: opts.WindowDays,
		Logger:     log,
	})
	sched := reminders.NewScheduler(prescriptionsSvc, stores.Permissions, notifier, reminders.Options{
		Location: loc,
		Horizon:  opts.Horizon,
		Logger:   log,
	})
	prescriptionsSvc.Observe(sched)

	// Rutas por módulo
	prescriptions.RegisterRoutes(r, prescriptionsSvc, invitationsSvc)
	doses.RegisterRoutes(r, dosesSvc)
	calendar.RegisterRoutes(r, calendarSvc)
	invitations.RegisterRoutes(r, invitationsSvc)
	reminders.RegisterRoutes(r, sched, stores.Permissions, log)
	r.Get("/ws/notifications", hub.Handler())

	return &App{Handler: r, Scheduler: sched, Hub: hub}
}
