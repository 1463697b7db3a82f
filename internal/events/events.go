package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReviewEvent describes one moderation transition for downstream consumers.
type ReviewEvent struct {
	QuestionID   string    `json:"question_id"`
	ReviewStatus string    `json:"review_status"`
	Actor        string    `json:"actor"`
	At           time.Time `json:"at"`
}

// Publisher writes review events to a Kafka topic. The question service
// treats publishing as best-effort, so a broker outage never blocks a
// moderation action.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishReview emits one review event keyed by question id.
func (p *Publisher) PublishReview(ctx context.Context, questionID, status, actor string) error {
	payload, err := json.Marshal(ReviewEvent{
		QuestionID:   questionID,
		ReviewStatus: status,
		Actor:        actor,
		At:           time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(questionID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
