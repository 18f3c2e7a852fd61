package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wayfarer-travel/wayfarer-api/internal/adapters/httpapi"
	memactivityrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/activityrepo"
	memattachmentrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/attachmentrepo"
	memstayrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/stayrepo"
	memtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/transportrepo"
	memtriprepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/memory/userrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres"
	pgactivityrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/activityrepo"
	pgattachmentrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/attachmentrepo"
	pgstayrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/stayrepo"
	pgtransportrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/transportrepo"
	pgtriprepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/wayfarer-travel/wayfarer-api/internal/adapters/postgres/userrepo"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/activities"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/attachments"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/itinerary"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/stays"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/transport"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/trips"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/users"
	"github.com/wayfarer-travel/wayfarer-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/wayfarer-travel/wayfarer-api/internal/platform/clock"
	"github.com/wayfarer-travel/wayfarer-api/internal/platform/config"
	activityport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/activityrepo"
	attachmentport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/attachmentrepo"
	stayport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/stayrepo"
	transportport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/transportrepo"
	tripport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/triprepo"
	userport "github.com/wayfarer-travel/wayfarer-api/internal/ports/out/userrepo"
	"github.com/wayfarer-travel/wayfarer-api/migrations"
)

func main() {
	// Best effort; production deployments use real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var (
		userRepo       userport.Repository
		tripRepo       tripport.Repository
		activityRepo   activityport.Repository
		stayRepo       stayport.Repository
		transportRepo  transportport.Repository
		attachmentRepo attachmentport.Repository
	)

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.PG.URL, postgres.PoolOptions{MaxConns: cfg.PG.PoolMax})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		userRepo = pguserrepo.NewRepo(pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		activityRepo = pgactivityrepo.NewRepo(pool)
		stayRepo = pgstayrepo.NewRepo(pool)
		transportRepo = pgtransportrepo.NewRepo(pool)
		attachmentRepo = pgattachmentrepo.NewRepo(pool)
	default:
		userRepo = memuserrepo.NewRepo()
		tripRepo = memtriprepo.NewRepo()
		activityRepo = memactivityrepo.NewRepo()
		stayRepo = memstayrepo.NewRepo()
		transportRepo = memtransportrepo.NewRepo()
		attachmentRepo = memattachmentrepo.NewRepo()
	}

	var authMW func(http.Handler) http.Handler
	switch cfg.Auth.Mode {
	case "dev":
		log.Warn("auth running in dev mode, bearer tokens are not verified")
		authMW = httpapi.NewDevAuthMiddleware(envOr("DEV_SUBJECT", "dev|local"))
	default:
		verifier, err := jwtverifier.New(ctx, jwtverifier.Config{
			Issuer:    cfg.Auth.Issuer,
			Audience:  cfg.Auth.Audience,
			JWKSURL:   cfg.Auth.JWKSURL,
			ClockSkew: cfg.Auth.ClockSkew,
		})
		if err != nil {
			return fmt.Errorf("init jwt verifier: %w", err)
		}
		authMW = httpapi.NewAuthMiddleware(verifier)
	}

	svcs := httpapi.Services{
		Users:       users.NewService(userRepo, platformclock.NewSystemClock()),
		Trips:       trips.NewService(tripRepo, activityRepo, stayRepo, transportRepo, attachmentRepo),
		Activities:  activities.NewService(tripRepo, activityRepo),
		Stays:       stays.NewService(tripRepo, stayRepo),
		Transport:   transport.NewService(tripRepo, transportRepo),
		Itinerary:   itinerary.NewService(tripRepo, activityRepo, stayRepo, transportRepo),
		Attachments: attachments.NewService(tripRepo, attachmentRepo),
	}

	handler := httpapi.NewRouter(svcs, httpapi.Options{
		Log:            log,
		AuthMiddleware: authMW,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", srv.Addr, "storage", cfg.Storage.Backend, "auth", cfg.Auth.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
