package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the ambient settings of the router.
type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level

	// Limiter is applied to every /api/v1 route when set.
	Limiter *ratelimit.Limiter

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presence-cmlabs"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter))
		}

		r.Route("/attendance", func(r chi.Router) {
			// Employee only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
			})

			r.Get("/me/summary", reportHandler.MySummary)
			r.Get("/{id}", attendanceHandler.Get)
		})

		r.Route("/admin/attendance", func(r chi.Router) {
			// Admin only
			r.Use(middleware.RequireAdmin)
			r.Get("/summary", reportHandler.StatusSummary)
			r.Get("/report", reportHandler.AttendanceReport)
			r.Get("/export", reportHandler.ExportAttendance)
			r.Post("/leave", attendanceHandler.MarkLeave)
		})
	})
	return r
}
