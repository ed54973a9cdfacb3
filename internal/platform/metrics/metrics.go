package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flashsale"

// Metrics groups the collectors the core services report to. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	QueueOperations      *prometheus.CounterVec
	QueueLength          *prometheus.GaugeVec
	SeatOperations       *prometheus.CounterVec
	TicketOperations     *prometheus.CounterVec
	LifecycleTransitions *prometheus.CounterVec
	FastStoreFailures    *prometheus.CounterVec
	JobDuration          *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		QueueOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queue_operations_total",
				Help:      "Queue entry operations by outcome",
			},
			[]string{"operation", "status"},
		),
		QueueLength: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_length",
				Help:      "Users per event and queue state as last observed by the admission job",
			},
			[]string{"event_id", "queue_type"},
		),
		SeatOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seat_operations_total",
				Help:      "Seat state changes by outcome",
			},
			[]string{"operation", "status"},
		),
		TicketOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticket_operations_total",
				Help:      "Ticket lifecycle operations by outcome",
			},
			[]string{"operation", "status"},
		),
		LifecycleTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_lifecycle_transitions_total",
				Help:      "Scheduled event status transitions by outcome",
			},
			[]string{"transition", "status"},
		),
		FastStoreFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fast_store_failures_total",
				Help:      "Best-effort fast store writes that failed",
			},
			[]string{"operation"},
		),
		JobDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Duration of periodic job runs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job"},
		),
	}
}

func (m *Metrics) QueueOp(op string, err error) {
	if m == nil {
		return
	}
	m.QueueOperations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) SeatOp(op string, err error) {
	if m == nil {
		return
	}
	m.SeatOperations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) TicketOp(op string, err error) {
	if m == nil {
		return
	}
	m.TicketOperations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) Transition(name, status string) {
	if m == nil {
		return
	}
	m.LifecycleTransitions.WithLabelValues(name, status).Inc()
}

func (m *Metrics) FastStoreFailure(op string) {
	if m == nil {
		return
	}
	m.FastStoreFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) SetQueueLength(eventID, queueType string, n int64) {
	if m == nil {
		return
	}
	m.QueueLength.WithLabelValues(eventID, queueType).Set(float64(n))
}

func (m *Metrics) ObserveJob(job string, started time.Time) {
	if m == nil {
		return
	}
	m.JobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
