package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	compensationService "github.com/cmlabs-hris/shiftpay-backend-go/internal/service/compensation"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "shiftpay"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every summary worker may hold a connection
	maxConns := int32(cfg.Compensation.Workers * 2)
	if maxConns < 10 {
		maxConns = 10
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: maxConns})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.App.AutoMigrate {
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	repos := compensationService.Repositories{
		Schemas:     postgresql.NewReportTemplateRepository(db),
		Registry:    postgresql.NewMetricRegistryRepository(db),
		Assignments: postgresql.NewAssignmentRepository(db),
		Schemes:     postgresql.NewSchemeRepository(db),
		Shifts:      postgresql.NewShiftRepository(db),
		Schedule:    postgresql.NewScheduleRepository(db),
		Payments:    postgresql.NewPaymentRepository(db),
		Evaluations: postgresql.NewEvaluationRepository(db),
		Maintenance: postgresql.NewMaintenanceRepository(db),
	}

	compensationSvc := compensationService.NewCompensationService(repos, compensationService.Options{
		Workers:        cfg.Compensation.Workers,
		StandardShifts: cfg.Compensation.StandardShifts,
		Location:       cfg.Compensation.Location,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	compensationHandler := appHTTP.NewCompensationHandler(compensationSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		RequestTimeout: cfg.App.RequestTimeout,
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, JWTService, compensationHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.RequestTimeout+5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
