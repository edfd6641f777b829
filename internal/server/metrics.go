package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tugas/internal/service"
)

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tugas_store_operations_total",
				Help: "Task store calls by operation and result",
			},
			[]string{"op", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tugas_store_operation_duration_seconds",
				Help:    "Histogram of task store call latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tugas_http_request_duration_seconds",
				Help:    "Histogram of API request processing times",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"},
		),
	}
	reg.MustRegister(m.storeOps, m.storeDuration, m.requestDuration)
	return m
}

// Instrument wraps s so every call is counted and timed.
func (m *Metrics) Instrument(s service.Store) service.Store {
	return &instrumentedStore{next: s, m: m}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	m.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = service.KindOf(err).String()
	}
	m.storeOps.WithLabelValues(op, result).Inc()
}

type instrumentedStore struct {
	next service.Store
	m    *Metrics
}

func (s *instrumentedStore) ListAll(ctx context.Context) ([]service.Task, error) {
	start := time.Now()
	tasks, err := s.next.ListAll(ctx)
	s.m.observe("list", start, err)
	return tasks, err
}

func (s *instrumentedStore) Create(ctx context.Context, nt service.NewTask) (string, error) {
	start := time.Now()
	id, err := s.next.Create(ctx, nt)
	s.m.observe("create", start, err)
	return id, err
}

func (s *instrumentedStore) Update(ctx context.Context, id string, f service.Fields) error {
	start := time.Now()
	err := s.next.Update(ctx, id, f)
	s.m.observe("update", start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.m.observe("delete", start, err)
	return err
}
