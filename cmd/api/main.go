package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/ratelimit"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/presence-backend-go/internal/service/report"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})).With(
		slog.String("app", "presence-cmlabs"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	var (
		attendanceRepo attendance.AttendanceRepository
		userRepo       user.UserRepository
		transactor     attendance.Transactor
	)
	switch cfg.Database.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := postgresql.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		attendanceRepo = postgresql.NewAttendanceRepository(db)
		userRepo = postgresql.NewUserRepository(db)
		transactor = postgresql.NewTransactor(db)
	case config.StoreDriverMemory:
		users := memory.NewUserRepository()
		if cfg.Database.UsersFile != "" {
			if users, err = memory.LoadUsersFile(cfg.Database.UsersFile); err != nil {
				return fmt.Errorf("load users: %w", err)
			}
		} else {
			slog.Warn("MEMORY_USERS_FILE is not set; every user lookup will fail")
		}
		repo := memory.NewAttendanceRepository(users)
		attendanceRepo, userRepo, transactor = repo, users, repo
		slog.Warn("Using in-memory store; records are lost on restart")
	}

	scheduler := cron.NewScheduler(5 * time.Minute)

	// Rate limiting
	var counter ratelimit.Counter
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		counter = ratelimit.NewRedisCounter(client, cfg.Redis.Prefix)
	case config.RateLimitBackendMemory:
		memCounter := ratelimit.NewMemoryCounter()
		cron.NewRateLimitJobs(memCounter).RegisterJobs(scheduler, cfg.RateLimit.Window)
		counter = memCounter
	}
	limiter, err := ratelimit.NewLimiter(counter, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	// Services
	clk := clock.System()
	recorder := metrics.NewRecorder()
	accountant := attendanceService.NewTimeAccountant(cfg.Attendance.BreakHours, cfg.Attendance.StandardShiftHours)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		userRepo,
		accountant,
		attendanceService.Policy{
			Office:        geo.Point{Lat: cfg.Attendance.OfficeLat, Lng: cfg.Attendance.OfficeLng},
			MaxDistanceKm: cfg.Attendance.MaxDistanceKm,
			Cutoff:        cfg.Attendance.CheckInCutoff,
			Location:      cfg.Attendance.Location,
		},
		clk,
		recorder,
	)
	reportSvc := reportService.NewReportService(attendanceRepo, transactor, accountant, clk, cfg.Attendance.Location)

	if cfg.AbsenceJob.Enabled {
		cron.NewAttendanceJobs(attendanceRepo, userRepo, clk, cfg.Attendance.Location).
			RegisterJobs(scheduler, cfg.AbsenceJob.Interval)
	}

	// HTTP
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			LogLevel:       logLevel,
			Limiter:        limiter,
			Metrics:        recorder.Handler(),
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
