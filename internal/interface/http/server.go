// Package http implements the REST API of the diary backend.
// Routing, middleware and the JSON envelope live here; all domain rules are
// behind the command and query handlers this package calls into.
package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/school-diary/diary-backend/internal/application/command"
	"github.com/school-diary/diary-backend/internal/application/query"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// EnableCORS - enable CORS headers.
	EnableCORS bool

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins []string

	// RateLimitPerMinute - requests per minute per IP (0 = disabled).
	RateLimitPerMinute int
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20, // 1 MB
		EnableCORS:         true,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 100,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// TokenVerifier resolves a bearer token into an identity. Implemented by the
// auth layer.
type TokenVerifier interface {
	Verify(tokenString string) (shared.Identity, error)
}

// Pinger reports whether a backing service is reachable. Used by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies contains all handlers and collaborators the routes need.
type Dependencies struct {
	// Commands (CQRS write side)
	RegisterUser   *command.RegisterUserHandler
	Login          *command.LoginHandler
	UpdateProfile  *command.UpdateProfileHandler
	CreateLesson   *command.CreateLessonHandler
	UpdateLesson   *command.UpdateLessonHandler
	DeleteLesson   *command.DeleteLessonHandler
	CreatePeriod   *command.CreatePeriodHandler
	CreateSchedule *command.CreateScheduleHandler
	UpdateSchedule *command.UpdateScheduleHandler
	DeleteSchedule *command.DeleteScheduleHandler
	CreateMark     *command.CreateMarkHandler
	UpdateMark     *command.UpdateMarkHandler
	DeleteMark     *command.DeleteMarkHandler
	CreateHomeTask *command.CreateHomeTaskHandler
	UpdateHomeTask *command.UpdateHomeTaskHandler
	DeleteHomeTask *command.DeleteHomeTaskHandler

	// Queries (CQRS read side)
	GetProfile           *query.GetProfileHandler
	ListLessons          *query.ListLessonsHandler
	GetLesson            *query.GetLessonHandler
	ListPeriods          *query.ListPeriodsHandler
	ListSchedules        *query.ListSchedulesHandler
	GetSchedule          *query.GetScheduleHandler
	ListTeacherMarks     *query.ListTeacherMarksHandler
	GetMark              *query.GetMarkHandler
	ListTeacherHomeTasks *query.ListTeacherHomeTasksHandler
	GetHomeTask          *query.GetHomeTaskHandler
	ListStudents         *query.ListStudentsHandler
	ListStudentMarks     *query.ListStudentMarksHandler
	ListStudentHomeTasks *query.ListStudentHomeTasksHandler
	GetStudentSchedule   *query.GetStudentScheduleHandler

	// Infrastructure
	Tokens   TokenVerifier
	Database Pinger
	Cache    Pinger
	Logger   *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *logger.Logger

	rateLimiter *rateLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates an HTTP server with the given configuration and
// dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}

	if config.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(config.RateLimitPerMinute, time.Minute)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.buildMiddlewareChain(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)

	// ─────────────────────────────────────────────────────────────────────────
	// Auth
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// ─────────────────────────────────────────────────────────────────────────
	// Profile (any authenticated user)
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/profile", s.authenticated(s.handleGetProfile))
	s.router.HandleFunc("PUT /api/v1/profile", s.authenticated(s.handleUpdateProfile))

	// ─────────────────────────────────────────────────────────────────────────
	// Teacher surface
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/teacher/lessons", s.authenticated(s.handleListLessons))
	s.router.HandleFunc("POST /api/v1/teacher/lessons", s.authenticated(s.handleCreateLesson))
	s.router.HandleFunc("GET /api/v1/teacher/lessons/{id}", s.authenticated(s.handleGetLesson))
	s.router.HandleFunc("PUT /api/v1/teacher/lessons/{id}", s.authenticated(s.handleUpdateLesson))
	s.router.HandleFunc("DELETE /api/v1/teacher/lessons/{id}", s.authenticated(s.handleDeleteLesson))

	s.router.HandleFunc("GET /api/v1/teacher/periods", s.authenticated(s.handleListPeriods))
	s.router.HandleFunc("POST /api/v1/teacher/periods", s.authenticated(s.handleCreatePeriod))

	s.router.HandleFunc("GET /api/v1/teacher/students", s.authenticated(s.handleListStudents))

	s.router.HandleFunc("GET /api/v1/teacher/schedules", s.authenticated(s.handleListSchedules))
	s.router.HandleFunc("POST /api/v1/teacher/schedules", s.authenticated(s.handleCreateSchedule))
	s.router.HandleFunc("GET /api/v1/teacher/schedules/{id}", s.authenticated(s.handleGetSchedule))
	s.router.HandleFunc("PUT /api/v1/teacher/schedules/{id}", s.authenticated(s.handleUpdateSchedule))
	s.router.HandleFunc("DELETE /api/v1/teacher/schedules/{id}", s.authenticated(s.handleDeleteSchedule))

	s.router.HandleFunc("GET /api/v1/teacher/marks", s.authenticated(s.handleListTeacherMarks))
	s.router.HandleFunc("POST /api/v1/teacher/marks", s.authenticated(s.handleCreateMark))
	s.router.HandleFunc("GET /api/v1/teacher/marks/{id}", s.authenticated(s.handleGetMark))
	s.router.HandleFunc("PUT /api/v1/teacher/marks/{id}", s.authenticated(s.handleUpdateMark))
	s.router.HandleFunc("DELETE /api/v1/teacher/marks/{id}", s.authenticated(s.handleDeleteMark))

	s.router.HandleFunc("GET /api/v1/teacher/hometasks", s.authenticated(s.handleListTeacherHomeTasks))
	s.router.HandleFunc("POST /api/v1/teacher/hometasks", s.authenticated(s.handleCreateHomeTask))
	s.router.HandleFunc("GET /api/v1/teacher/hometasks/{id}", s.authenticated(s.handleGetHomeTask))
	s.router.HandleFunc("PUT /api/v1/teacher/hometasks/{id}", s.authenticated(s.handleUpdateHomeTask))
	s.router.HandleFunc("DELETE /api/v1/teacher/hometasks/{id}", s.authenticated(s.handleDeleteHomeTask))

	// ─────────────────────────────────────────────────────────────────────────
	// Student surface
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/student/schedule", s.authenticated(s.handleStudentSchedule))
	s.router.HandleFunc("GET /api/v1/student/marks", s.authenticated(s.handleStudentMarks))
	s.router.HandleFunc("GET /api/v1/student/hometasks", s.authenticated(s.handleStudentHomeTasks))
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Applied in reverse order: the last wrap runs first.
	h := handler

	h = s.requestIDMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)

	if s.config.EnableCORS {
		h = s.corsMiddleware(h)
	}
	if s.rateLimiter != nil {
		h = s.rateLimitMiddleware(h)
	}

	return h
}

// authenticated resolves the bearer token into an identity and stores it in
// the request context. Requests without a valid token get 401 before the
// handler runs.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "Missing bearer token")
			return
		}

		identity, err := s.deps.Tokens.Verify(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next(w, r.WithContext(ctx))
	}
}

// requestIDMiddleware adds a unique request ID to each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		s.logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.statusCode),
			logger.Int64("duration_ms", duration.Milliseconds()),
			logger.String("ip", getClientIP(r)),
			logger.String("request_id", getRequestID(r.Context())),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				s.logger.Error("panic recovered",
					logger.Any("error", err),
					logger.String("stack", string(stack)),
					logger.String("path", r.URL.Path),
					logger.String("request_id", getRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, o := range s.config.AllowedOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware implements per-IP rate limiting.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !s.rateLimiter.Allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}

// Handler returns the fully assembled handler. Test helper.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyIdentity  contextKey = "identity"
)

// identityFrom extracts the authenticated identity from context. Returns the
// zero identity when the request never passed the auth middleware.
func identityFrom(ctx context.Context) shared.Identity {
	if id, ok := ctx.Value(contextKeyIdentity).(shared.Identity); ok {
		return id
	}
	return shared.Identity{}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// getRequestID extracts the request ID from context.
func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// generateRequestID generates a unique request ID.
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%1000)
}

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

type rateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	requests := rl.requests[key]

	var valid []time.Time
	for _, t := range requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		windowStart := now.Add(-rl.window)

		for key, requests := range rl.requests {
			var valid []time.Time
			for _, t := range requests {
				if t.After(windowStart) {
					valid = append(valid, t)
				}
			}
			if len(valid) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = valid
			}
		}
		rl.mu.Unlock()
	}
}
