// Package server exposes the task list over an HTTP JSON API.
//
// One controller is shared by all requests and by the countdown ticker.
// Store calls are counted on /metrics; an optional cron schedule reloads
// the list from the store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"tugas/internal/controller"
	"tugas/internal/dialog"
	"tugas/internal/service"
)

// Defaults for Options left zero.
const (
	DefaultRateLimit = rate.Limit(10)
	DefaultRateBurst = 20

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address.
	Addr string

	// ReloadSpec is a cron schedule (seconds field optional, descriptors
	// like "@every 5m" allowed) for reloading from the store. Empty disables it.
	ReloadSpec string

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// RateLimit and RateBurst bound requests per client address.
	RateLimit rate.Limit
	RateBurst int

	// Interval is the countdown refresh period.
	Interval time.Duration

	// Location is the zone deadlines are read in.
	Location *time.Location

	// Clock overrides time.Now.
	Clock func() time.Time
}

// Server serves the API.
type Server struct {
	opts     Options
	ctl      *controller.Controller
	log      logrus.FieldLogger
	registry *prometheus.Registry
	metrics  *Metrics
	limiter  *rateLimiter
	handler  http.Handler
	now      func() time.Time
}

// cronParser accepts an optional leading seconds field.
var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether spec is a usable reload schedule.
func ValidateSchedule(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	return nil
}

// New creates a Server over store.
func New(store service.Store, opts Options, log logrus.FieldLogger) *Server {
	if opts.RateLimit == 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = DefaultRateBurst
	}
	if opts.Interval == 0 {
		opts.Interval = controller.DefaultInterval
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	log = log.WithField("component", "server")

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	s := &Server{
		opts:     opts,
		log:      log,
		registry: reg,
		metrics:  metrics,
		limiter:  newRateLimiter(opts.RateLimit, opts.RateBurst),
		now:      opts.Clock,
	}
	s.ctl = controller.New(metrics.Instrument(store), dialog.NewLog(log),
		controller.WithClock(opts.Clock),
		controller.WithLocation(opts.Location),
		controller.WithInterval(opts.Interval),
		controller.WithLogger(log),
	)
	s.handler = s.routes()
	return s
}

// Controller returns the shared controller.
func (s *Server) Controller() *controller.Controller { return s.ctl }

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.limiter.Middleware)
	r.Use(s.instrument)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.listTasks)
		r.Post("/tasks", s.createTask)
		r.Put("/tasks/{id}", s.updateTask)
		r.Post("/tasks/{id}/toggle", s.toggleTask)
		r.Delete("/tasks/{id}", s.deleteTask)
		r.Post("/reload", s.reload)
		r.Get("/export", s.exportTasks)
	})

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// instrument times each request and logs it.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.requestDuration.WithLabelValues(r.Method, route, fmt.Sprint(status)).Observe(elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   status,
			"duration": elapsed,
		}).Debug("request")
	})
}

// Load fills the controller from the store and computes the first countdowns.
func (s *Server) Load(ctx context.Context) error {
	if err := s.ctl.Load(ctx); err != nil {
		return err
	}
	s.ctl.Tick(s.now())
	return nil
}

// Run loads the list, starts the countdown ticker and the reload
// schedule, and serves on opts.Addr until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		s.ctl.Run(ctx, nil)
	}()

	if s.opts.ReloadSpec != "" {
		c, err := s.startReload(ctx)
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.opts.Addr).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.log.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}

	cancel()
	<-tickDone
	return serveErr
}

func (s *Server) startReload(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithParser(cronParser))
	_, err := c.AddFunc(s.opts.ReloadSpec, func() {
		if err := s.Load(ctx); err != nil {
			s.log.WithError(err).Warn("scheduled reload failed")
			return
		}
		s.log.WithField("count", s.ctl.Len()).Debug("scheduled reload")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", s.opts.ReloadSpec, err)
	}
	c.Start()
	return c, nil
}
