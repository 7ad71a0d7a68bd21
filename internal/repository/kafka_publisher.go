package repository

import (
	"context"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	pkgkafka "TrendLens/pkg/kafka"
)

// KafkaAnnotationPublisher emits annotation events to Kafka, keyed by
// ticker for per-symbol ordering.
type KafkaAnnotationPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAnnotationPublisher creates a Kafka-backed annotation publisher.
func NewKafkaAnnotationPublisher(producer *pkgkafka.Producer, topic string) domrepo.AnnotationPublisher {
	return &KafkaAnnotationPublisher{producer: producer, topic: topic}
}

func (p *KafkaAnnotationPublisher) PublishCreated(ctx context.Context, a *models.Annotation) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Ticker), map[string]interface{}{
		"event":         "annotation_created",
		"annotation_id": a.ID,
		"ticker":        a.Ticker,
		"date":          a.Date,
		"type":          a.Type,
		"created_at":    a.CreatedAt,
	})
}

func (p *KafkaAnnotationPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopAnnotationPublisher is used when Kafka is disabled.
type NoopAnnotationPublisher struct{}

func (NoopAnnotationPublisher) PublishCreated(context.Context, *models.Annotation) error { return nil }
func (NoopAnnotationPublisher) Close() error                                             { return nil }
