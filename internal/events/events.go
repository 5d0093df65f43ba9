// Package events publishes domain events about bookings and maintenance to
// RabbitMQ. Publishing is best effort: failures are logged and never fail
// the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BookingCreated     = "booking.created"
	BookingUpdated     = "booking.updated"
	BookingCancelled   = "booking.cancelled"
	BookingDeleted     = "booking.deleted"
	MaintenanceCreated = "maintenance.created"
	MaintenanceUpdated = "maintenance.updated"
	MaintenanceDeleted = "maintenance.deleted"
	RoomDeleted        = "room.deleted"
)

const publishTimeout = 5 * time.Second

// Event is the envelope written to the queue.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// AMQPPublisher writes events as persistent JSON messages to a durable
// queue. Each publish opens its own connection.
type AMQPPublisher struct {
	url   string
	queue string
}

// NewAMQPPublisher publishes to queue on the broker at url, dialing per message.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(publishTimeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		MessageId:    ev.ID,
		Body:         body,
	})
}

// Emit publishes ev in the background with its own timeout.
func Emit(p Publisher, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("Failed to publish %s event for %s: %v", ev.Type, ev.ID, err)
		}
	}()
}
