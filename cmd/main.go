package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-busline/internal/identity"
	"github.com/mateusmacedo/go-busline/internal/reservation"
	"github.com/mateusmacedo/go-busline/internal/reservation/application"
	"github.com/mateusmacedo/go-busline/internal/reservation/domain"
	"github.com/mateusmacedo/go-busline/internal/reservation/infrastructure"
	pkgApp "github.com/mateusmacedo/go-busline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-busline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-busline/pkg/infrastructure"
	redisAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/redis/adapter"
	zapAdapter "github.com/mateusmacedo/go-busline/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	cfg := domain.DefaultConfig()
	service := domain.NewService(cfg, appLogger)
	users := identity.NewRegistry(cfg.MaxUsers, appLogger)

	store := newStoreFromEnv(appLogger)
	snapshot, err := store.LoadAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to load snapshot", err, nil)
		panic(err)
	}
	if err := service.Restore(snapshot); err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to restore snapshot", err, nil)
		panic(err)
	}
	if err := users.Load(snapshot.Users); err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to restore users", err, nil)
		panic(err)
	}

	bookBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookTicketData], application.BookTicketData]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket]()
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](appLogger)

	slice := reservation.NewSlice(service, users, bookBus, findBus, eventBus, appLogger)

	router := chi.NewRouter()
	slice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "signal received", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	serverAddress := os.Getenv("BUSLINE_ADDR")
	if serverAddress == "" {
		serverAddress = ":8080"
	}
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			pkgApp.LogError(ctx, appLogger, "server failed", err, nil)
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "shutting down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(context.Background(), appLogger, "server shutdown failed", err, nil)
	}

	snap := service.Snapshot()
	snap.Users = users.Export()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	if err := store.SaveAll(saveCtx, snap); err != nil {
		pkgApp.LogError(saveCtx, appLogger, "failed to save snapshot", err, nil)
	}

	appLogger.Info(context.Background(), "server stopped", nil)
}

// newStoreFromEnv picks the snapshot backend: Postgres when BUSLINE_PG_DSN is
// set, Redis when BUSLINE_REDIS_ADDR is set, a JSON file otherwise.
func newStoreFromEnv(logger pkgApp.AppLogger) domain.Store {
	if dsn := os.Getenv("BUSLINE_PG_DSN"); dsn != "" {
		store, err := infrastructure.NewGormStore(dsn, logger)
		if err != nil {
			panic(err)
		}
		return store
	}
	if addr := os.Getenv("BUSLINE_REDIS_ADDR"); addr != "" {
		return infrastructure.NewRedisStore(redisAdapter.NewRedisClient(addr), logger)
	}

	path := os.Getenv("BUSLINE_SNAPSHOT")
	if path == "" {
		path = "busline.json"
	}
	return infrastructure.NewFileStore(path, logger)
}
