package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"med-reminder/internal/adapters/auth/jwtauth"
	"med-reminder/internal/adapters/auth/oidcauth"
	"med-reminder/internal/adapters/auth/remote"
	notifiers "med-reminder/internal/adapters/notify"
	"med-reminder/internal/adapters/storage"
	"med-reminder/internal/adapters/storage/firestore"
	"med-reminder/internal/adapters/storage/memory"
	"med-reminder/internal/adapters/storage/sqlstore"
	"med-reminder/internal/platform/config"
	"med-reminder/internal/platform/logger"
	"med-reminder/internal/ports/auth"
	"med-reminder/internal/ports/notify"
	"med-reminder/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if stores.Close != nil {
		defer func() { _ = stores.Close() }()
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}

	app := router.New(router.Options{
		AuthVerifier: verifier, // nil => modo dev (X-Debug-User-ID)
		Stores:       stores,
		Logger:       log,
		Notifier:     notifier,
		Location:     cfg.Location(),
		WindowDays:   cfg.WindowDays,
		Horizon:      cfg.ReminderHorizon,
	})
	defer app.Scheduler.Close()
	defer func() { _ = app.Hub.Close() }()

	// timers en memoria: al arrancar se rearman desde storage
	if err := app.Scheduler.Resync(ctx); err != nil {
		log.Warn("initial reminder resync failed", map[string]any{"error": err})
	}
	if err := app.Scheduler.StartCron(cfg.ResyncSchedule); err != nil {
		return fmt.Errorf("starting resync cron: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
			"auth":    cfg.Auth.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, log logger.Logger) (storage.Stores, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres, config.StorageSQLite:
		dialect := sqlstore.Dialect(cfg.Storage.Driver)
		db, err := sqlstore.Open(dialect, cfg.Storage.DSN)
		if err != nil {
			return storage.Stores{}, err
		}
		if err := sqlstore.Migrate(db, dialect, log); err != nil {
			_ = db.Close()
			return storage.Stores{}, fmt.Errorf("migrating: %w", err)
		}
		return sqlstore.NewStores(db, dialect), nil

	case config.StorageFirestore:
		client, err := firestore.Open(ctx, cfg.Storage.FirestoreProject)
		if err != nil {
			return storage.Stores{}, err
		}
		return firestore.NewStores(client), nil

	default:
		log.Warn("using in-memory storage; data is lost on restart", nil)
		return memory.New(), nil
	}
}

func newVerifier(ctx context.Context, cfg config.Config) (auth.AuthVerifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthJWT:
		return jwtauth.New(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	case config.AuthOIDC:
		return oidcauth.New(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
	case config.AuthRemote:
		return remote.New(remote.Config{BaseURL: cfg.Auth.RemoteURL, APIKey: cfg.Auth.RemoteAPIKey})
	default:
		return nil, nil
	}
}

// newNotifier arma los canales además del WebSocket: siempre log, y webhook
// si está configurado.
func newNotifier(cfg config.Config, log logger.Logger) (notify.Notifier, error) {
	out := notifiers.Multi{notifiers.NewLog(log)}
	if cfg.Notify.WebhookURL != "" {
		wh, err := notifiers.NewWebhook(notifiers.WebhookConfig{URL: cfg.Notify.WebhookURL})
		if err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, nil
}
