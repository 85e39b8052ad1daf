package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/database"
	"github.com/osse101/npcbot/internal/handler"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/metrics"
	"github.com/osse101/npcbot/internal/purchase"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string
	MaxBodyBytes   int64
	RateLimit      RateLimit
}

// Services are the domain services exposed over HTTP
type Services struct {
	Characters character.Service
	Inventory  inventory.Service
	Purchases  purchase.Engine
	Backups    handler.BackupService
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, dbPool database.Pool, svcs Services) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, dbPool, svcs),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the route tree and middleware stack
func NewRouter(opts Options, dbPool database.Pool, svcs Services) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	tracker := NewActivityTracker(opts.RateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, tracker))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, tracker))
	r.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tenants/{tenant}", func(r chi.Router) {
			r.Post("/characters:delete-all", handler.HandleDeleteAllCharacters(svcs.Characters))
			r.Get("/export", handler.HandleExportCharacters(svcs.Backups))
			r.Post("/import", handler.HandleImportCharacters(svcs.Backups))

			r.Route("/characters", func(r chi.Router) {
				r.Get("/", handler.HandleListCharacters(svcs.Characters))
				r.Post("/", handler.HandleCreateCharacter(svcs.Characters))

				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", handler.HandleGetCharacter(svcs.Characters))
					r.Patch("/", handler.HandleEditCharacter(svcs.Characters))
					r.Delete("/", handler.HandleDeleteCharacter(svcs.Characters))
					r.Post("/access", handler.HandleGrantAccess(svcs.Characters))

					r.Route("/inventory", func(r chi.Router) {
						r.Get("/", handler.HandleListItems(svcs.Inventory))
						r.Post("/", handler.HandleAddItem(svcs.Inventory))

						r.Route("/{item}", func(r chi.Router) {
							r.Patch("/", handler.HandleEditItem(svcs.Inventory))
							r.Delete("/", handler.HandleRemoveItem(svcs.Inventory))
							r.Post("/stock", handler.HandleAddStock(svcs.Inventory))
							r.Post("/buy", handler.HandleBuyItem(svcs.Purchases))
						})
					})
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/cache/stats", handler.HandleGetCacheStats(svcs.Characters))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and scrapes are too frequent to log
		for _, path := range quietPaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r)
				return
			}
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent(),
			"actor", r.Header.Get(handler.HeaderActorID))

		sanitizedHeaders := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server. It returns http.ErrServerClosed after Stop.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
