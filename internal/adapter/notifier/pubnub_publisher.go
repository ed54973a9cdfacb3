package notifier

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go/v7"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/platform/config"
)

type sendFunc func(channel string, message any) error

// PubNubPublisher pushes each notification to the user's channel, or to the
// event channel for broadcasts.
type PubNubPublisher struct {
	send sendFunc
	log  *zap.Logger
}

func NewPubNub(cfg config.NotifyConfig) *pubnub.PubNub {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	return pubnub.NewPubNub(pnConfig)
}

func NewPubNubPublisher(pn *pubnub.PubNub, log *zap.Logger) *PubNubPublisher {
	return newPubNubPublisher(func(channel string, message any) error {
		_, _, err := pn.Publish().
			Channel(channel).
			Message(message).
			Execute()
		return err
	}, log)
}

func newPubNubPublisher(send sendFunc, log *zap.Logger) *PubNubPublisher {
	return &PubNubPublisher{send: send, log: log.Named("pubnub")}
}

func (p *PubNubPublisher) Publish(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := map[string]any{
		"type":      n.Type,
		"event_id":  n.EventID.String(),
		"payload":   n.Payload,
		"timestamp": n.OccurredAt.Unix(),
	}

	if err := p.send(n.Channel(), message); err != nil {
		return fmt.Errorf("pubnub publish %s to %s: %w", n.Type, n.Channel(), err)
	}

	p.log.Debug("notification published", zap.String("channel", n.Channel()), zap.String("type", string(n.Type)))
	return nil
}
