package ddnsreg

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const EventTopic = "ddnsreg_event"

// KWriter publishes committed registry events for downstream consumers
// (indexers, resolvers warming their own caches).
type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(uri),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KWriter{w: w}, nil
}

func (kw *KWriter) Write(key string, body []byte) error {
	return kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: body,
		},
	)
}

func (kw *KWriter) Close() {
	kw.w.Close()
}
