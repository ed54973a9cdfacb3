package services

import (
	"crypto/rand"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/platform/clock"
	"github.com/srgjo27/flashsale_ticket/internal/platform/metrics"
)

type options struct {
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
	random  io.Reader
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRandom replaces the entropy source used for queue shuffling.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

func buildOptions(name string, opts []Option) options {
	o := options{
		clock:  clock.NewSystem(),
		log:    zap.NewNop(),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.Named(name)
	return o
}

// QueueSettings are the admission knobs shared by the queue services.
type QueueSettings struct {
	EntryWindow      time.Duration
	BatchSize        int64
	MaxEntered       int64
	WaitingBroadcast int64
	ExpireBatchLimit int
}

func DefaultQueueSettings() QueueSettings {
	return QueueSettings{
		EntryWindow:      15 * time.Minute,
		BatchSize:        100,
		MaxEntered:       1000,
		WaitingBroadcast: 1000,
		ExpireBatchLimit: 500,
	}
}
