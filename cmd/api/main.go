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

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-ledger/internal/handler/http"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/controlid"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-ledger/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/attendance-ledger/internal/service/holiday"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	log, closer := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Stdout:     true,
	}, logFormat.ReplaceAttr)
	defer closer.Close()
	log = log.With(
		slog.String("app", "attendance-ledger"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(log)

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading time zone: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDBWithPool(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		return err
	}

	punchRepo := postgresql.NewPunchRepository(db, loc)
	fixRepo := postgresql.NewExceptionFixRepository(db, loc)
	holidayRepo := postgresql.NewHolidayRepository(db, loc)

	var device attendance.PunchSource
	if cfg.Device.BaseURL != "" {
		client := controlid.NewClient(controlid.Config{
			BaseURL:    cfg.Device.BaseURL,
			Login:      cfg.Device.Login,
			Password:   cfg.Device.Password,
			Timeout:    cfg.Device.Timeout,
			TimeOffset: cfg.Device.TimeOffset,
			UserLimit:  cfg.Device.UserLimit,
			LogLimit:   cfg.Device.LogLimit,
		})
		device = controlid.NewPunchSource(client, loc)
	}

	source := device
	if cfg.Ledger.PunchSource == config.SourceDatabase {
		source = punchRepo
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	holidaySvc := holidayService.NewHolidayService(holidayRepo, loc)
	fixSvc := attendanceService.NewFixService(fixRepo, loc)
	ledgerSvc := attendanceService.NewLedgerService(attendanceService.LedgerDeps{
		Source:    source,
		Device:    device,
		PunchRepo: punchRepo,
		Fixes:     fixRepo,
		Calendars: holidaySvc,
		Exporter:  spreadsheet.NewExporter(),
		Location:  loc,
	})

	scheduler := cron.NewScheduler(ctx)
	if cfg.Cron.Enabled && device != nil && cfg.Ledger.PunchSource == config.SourceDatabase {
		cron.NewPunchSyncJobs(ledgerSvc, cfg.Cron.SyncInterval, cfg.Cron.LookbackDays, loc).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			JWTService:     JWTService,
			Logger:         log,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		appHTTP.NewLedgerHandler(ledgerSvc),
		appHTTP.NewFixHandler(fixSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "punch_source", cfg.Ledger.PunchSource)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
