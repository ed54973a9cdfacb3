package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

// LogPublisher only records notifications. It backs local runs with no push
// provider configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("notifier")}
}

func (p *LogPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.log.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("channel", n.Channel()),
		zap.Any("payload", n.Payload),
	)
	return nil
}
