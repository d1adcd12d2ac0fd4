package output

import (
	"context"
	"fmt"

	"github.com/chrisdamba/nutriparse/internal/models"
)

type MessageWriter interface {
	WriteMessage(topic string, key, msg []byte) error
	Close() error
}

// KafkaOutput publishes each plan as a JSON message keyed by the record id.
type KafkaOutput struct {
	producer MessageWriter
	topic    string
}

func NewKafkaOutput(producer MessageWriter, topic string) *KafkaOutput {
	return &KafkaOutput{producer: producer, topic: topic}
}

func (k *KafkaOutput) WritePlan(ctx context.Context, rec *models.StoredPlan) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	msg, err := MarshalPlan(rec.Plan)
	if err != nil {
		return err
	}
	if err := k.producer.WriteMessage(k.topic, []byte(rec.ID), msg); err != nil {
		return fmt.Errorf("failed to publish plan %s: %w", rec.ID, err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
