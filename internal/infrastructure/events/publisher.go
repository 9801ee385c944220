// Package events publishes payment events for downstream consumers such as
// accounting exports and kitchen displays.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TypePaymentRecorded = "payment.recorded"

// PaymentRecorded is published once the order service accepted a payment.
type PaymentRecorded struct {
	EventID          uuid.UUID `json:"event_id"`
	Type             string    `json:"type"`
	RestaurantID     string    `json:"restaurant_id"`
	OrderID          string    `json:"order_id"`
	Method           string    `json:"method"`
	Amount           string    `json:"amount"`
	ChangeDue        string    `json:"change_due"`
	PartialRemainder string    `json:"partial_remainder"`
	Partial          bool      `json:"partial"`
	RemoteReference  string    `json:"remote_reference,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewPaymentRecorded builds the event for a journal entry.
func NewPaymentRecorded(record *entity.PaymentRecord) PaymentRecorded {
	return PaymentRecorded{
		EventID:          uuid.New(),
		Type:             TypePaymentRecorded,
		RestaurantID:     record.RestaurantID.String(),
		OrderID:          record.OrderID,
		Method:           record.Method.String(),
		Amount:           money.Format(money.FromCents(record.AmountRecorded)),
		ChangeDue:        money.Format(money.FromCents(record.ChangeDue)),
		PartialRemainder: money.Format(money.FromCents(record.PartialRemainder)),
		Partial:          record.Partial,
		RemoteReference:  record.RemoteReference,
		OccurredAt:       record.CreatedAt.UTC(),
	}
}

// Publisher sends payment events.
type Publisher interface {
	PublishPaymentRecorded(ctx context.Context, event PaymentRecorded) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic, keyed by order id so all
// payments of one order land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled() {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.PaymentsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{ClientID: cfg.ClientID},
	})
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishPaymentRecorded(ctx context.Context, event PaymentRecorded) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "restaurant_id", Value: []byte(event.RestaurantID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentRecorded(context.Context, PaymentRecorded) error { return nil }
func (NoopPublisher) Close() error { return nil }
