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

	"github.com/cmlabs-hris/timesheet-points-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timesheet-points-go/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timesheet-points-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-points-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/timesheet-points-go/internal/service/notify"
	pointsService "github.com/cmlabs-hris/timesheet-points-go/internal/service/points"
	"github.com/cmlabs-hris/timesheet-points-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	renderer := report.NewRenderer()
	dispatcher := notify.NewDispatcher(logger)
	svc := pointsService.NewPointsService(
		employeeRepo,
		timesheetRepo,
		leaveRepo,
		holidayRepo,
		settingsRepo,
		renderer,
		dispatcher,
		logger,
	)

	scheduler := cron.NewScheduler()
	if err := cron.NewPointsJobs(svc).RegisterJobs(scheduler, cfg.Schedule); err != nil {
		fmt.Println("Error registering cron jobs:", err)
		return
	}
	scheduler.Start()

	reportHandler := appHTTP.NewReportHandler(svc, renderer)
	settingsHandler := appHTTP.NewSettingsHandler(settingsRepo)
	router := appHTTP.NewRouter(cfg, reportHandler, settingsHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "timesheet-points"),
		slog.String("env", cfg.App.Env),
	)
}
