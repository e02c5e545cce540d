package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/capacity-planner/internal/config"
	"github.com/cmlabs-hris/capacity-planner/internal/domain/persistence"
	appHTTP "github.com/cmlabs-hris/capacity-planner/internal/handler/http"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/database"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/sse"
	"github.com/cmlabs-hris/capacity-planner/internal/repository/memory"
	"github.com/cmlabs-hris/capacity-planner/internal/repository/postgresql"
	"github.com/cmlabs-hris/capacity-planner/internal/repository/sqlite"
	"github.com/cmlabs-hris/capacity-planner/internal/service/availability"
	dashboardService "github.com/cmlabs-hris/capacity-planner/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/capacity-planner/internal/service/leave"
	"github.com/cmlabs-hris/capacity-planner/internal/service/planning"
	"github.com/cmlabs-hris/capacity-planner/internal/service/transfer"
	"github.com/cmlabs-hris/capacity-planner/internal/store"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "capacity-planner"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	hub := sse.NewHub()
	st, err := store.New(ctx, repo, cfg.Seed(),
		store.WithLogger(logger),
		store.WithNotifier(appHTTP.PublishChanges(hub)),
	)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	engine := planning.NewEngine(st)
	calculator := availability.NewCalculator(st)
	synthesizer := leaveService.NewSynthesizer(st, engine)
	dashboardSvc := dashboardService.NewDashboardService(st, engine, calculator)
	transferSvc := transfer.NewService(st, engine, transfer.WithLogger(logger))

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, appHTTP.Handlers{
		State:     appHTTP.NewStateHandler(st),
		Employee:  appHTTP.NewEmployeeHandler(st),
		Absence:   appHTTP.NewAbsenceHandler(st),
		Planning:  appHTTP.NewPlanningHandler(st, calculator),
		Task:      appHTTP.NewTaskHandler(st, engine, transferSvc),
		Filter:    appHTTP.NewFilterHandler(st),
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		Capacity:  appHTTP.NewCapacityHandler(st),
		Leave:     appHTTP.NewLeaveHandler(st, synthesizer),
		Event:     appHTTP.NewEventHandler(hub, st),
	})

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with the process so open event streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", "addr", "http://"+server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openRepository connects the configured storage driver.
func openRepository(ctx context.Context, cfg *config.Config) (persistence.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewKVRepository(), func() {}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo, err := postgresql.NewKVRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlite.NewKVRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	}
}
