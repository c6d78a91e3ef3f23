package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	"github.com/streadway/amqp"
)

const (
	// queue for completed transaction events
	TransactionEventQueue = "transaction.events"
)

// TransactionEvent is the message published for every terminal ledger movement.
type TransactionEvent struct {
	TransactionID        string  `json:"transactionID"`
	TransactionType      string  `json:"transactionType"`
	SourceAccountID      *string `json:"sourceAccountID"`
	DestinationAccountID string  `json:"destinationAccountID"`
	TotalAmount          string  `json:"totalAmount"`
	Status               string  `json:"status"`
	InitiatedAt          string  `json:"initiatedAt"`
}

// Publisher pushes transaction events to RabbitMQ. A nil *Publisher is valid
// and drops events, so callers never need to branch on whether the broker is
// configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the durable event queue.
func NewPublisher(uri string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		TransactionEventQueue, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

// PublishTransaction publishes a transaction event. Nil-safe.
func (p *Publisher) PublishTransaction(ctx context.Context, txn *domain.Transaction) error {
	if p == nil {
		return nil
	}

	event := TransactionEvent{
		TransactionID:        txn.TransactionID,
		TransactionType:      string(txn.TransactionType),
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		TotalAmount:          txn.TotalAmount.String(),
		Status:               string(txn.Status),
		InitiatedAt:          txn.InitiatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	err = p.channel.Publish(
		"",                    // exchange
		TransactionEventQueue, // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}

	return nil
}
