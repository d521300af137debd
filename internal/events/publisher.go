// Package events publishes domain events to Kafka for downstream consumers
// (notification fan-out, analytics). Publishing is fire and forget: a failed
// publish never fails the triggering request.
package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	MessageSent    = "message.sent"
	MessageSeen    = "message.seen"
	MessageDeleted = "message.deleted"
	GroupRead      = "group.read"
	StoryPosted    = "story.posted"
)

type Event struct {
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, name, key string, payload any) error {
	b, err := json.Marshal(Event{Name: name, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
