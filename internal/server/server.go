// Package server assembles the HTTP surface: Connect services, the report
// download, metrics and optional static files.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/middleware"
	"github.com/mmynk/telecomsupply/internal/notify"
	"github.com/mmynk/telecomsupply/internal/service"
	"github.com/mmynk/telecomsupply/pkg/api/apiconnect"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Guard        *auth.Guard
	Sessions     *service.Sessions
	Notifier     *notify.Notifier
	WriteTimeout time.Duration
	Registry     *prometheus.Registry
	StaticPath   string
	Logger       *slog.Logger
}

// New returns the root handler, wrapped with h2c so Connect clients can use
// HTTP/2 without TLS.
func New(d Deps) http.Handler {
	metrics := middleware.NewMetrics(d.Registry)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(d.Guard, d.Logger),
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.OptionalAuth(d.Guard),
			middleware.LoggingInterceptor(),
		),
	)
	r.Handle(authPath+"*", authHandler)

	dashboardPath, dashboardHandler := apiconnect.NewDashboardServiceHandler(
		service.NewDashboardService(d.Sessions, d.Notifier, d.WriteTimeout, d.Logger),
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.RequireAuth(d.Guard),
			middleware.LoggingInterceptor(),
		),
	)
	r.Handle(dashboardPath+"*", dashboardHandler)

	r.With(middleware.RequireAuthHTTP(d.Guard)).
		Method(http.MethodGet, "/reports/billing", service.NewReportHandler(d.Sessions, d.Logger))

	if d.StaticPath != "" {
		r.NotFound(staticHandler(d.StaticPath))
	}

	return h2c.NewHandler(r, &http2.Server{})
}

// staticHandler serves files from dir, falling back to index.html.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/telecomsupply.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(dir, filepath.Clean(urlPath))

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
