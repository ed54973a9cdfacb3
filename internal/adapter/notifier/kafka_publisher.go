package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/platform/config"
)

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes notifications to one topic keyed by event id so a
// consumer sees each event's messages in order.
type KafkaPublisher struct {
	client producer
	topic  string
	log    *zap.Logger
}

func NewKafkaClient(cfg config.NotifyConfig) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.ClientID(cfg.KafkaClientID),
		kgo.DefaultProduceTopic(cfg.KafkaTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func NewKafkaPublisher(client producer, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: topic, log: log.Named("kafka")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n domain.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(n.EventID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "type", Value: []byte(n.Type)},
			{Key: "channel", Value: []byte(n.Channel())},
		},
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", n.Type, err)
	}

	p.log.Debug("notification produced", zap.String("topic", p.topic), zap.String("type", string(n.Type)))
	return nil
}
