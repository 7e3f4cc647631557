package repository

import (
	"context"

	"MarketBrief/pkg/kafka"
)

// KafkaPublisher adapts the kafka producer to the domain Publisher interface.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload any) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
