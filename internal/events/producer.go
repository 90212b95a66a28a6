package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated    = "order_created"
	TypeOrderCancelled  = "order_cancelled"
	TypePaymentCaptured = "payment_captured"
)

type OrderEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Total       string    `json:"total,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewOrderEvent(typ string, orderID uint, orderNumber, total string) OrderEvent {
	return OrderEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		Total:       total,
		Timestamp:   time.Now().UTC(),
	}
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a kafka writer; a nil broker list yields a nil producer,
// which every method treats as publishing disabled.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
