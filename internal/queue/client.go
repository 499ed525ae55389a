package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budgetwise/internal/logger"
)

const (
	// DefaultExchange is the direct exchange categorization jobs are routed through.
	DefaultExchange = "budgetwise"
	// DefaultQueue is the durable queue holding categorization jobs.
	DefaultQueue = "categorization.jobs"

	publishTimeout = 5 * time.Second
)

// ErrChannelClosed is returned by Consume when the broker closes the
// delivery channel.
var ErrChannelClosed = errors.New("delivery channel closed")

// Handler processes one categorization job. A returned error rejects the
// delivery.
type Handler func(ctx context.Context, job *CategorizationJob) error

// Client publishes and consumes categorization jobs over AMQP.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

// NewClient dials url and declares the exchange, queue and binding. Empty
// names fall back to DefaultExchange and DefaultQueue.
func NewClient(url, exchangeName, queueName string) (*Client, error) {
	if exchangeName == "" {
		exchangeName = DefaultExchange
	}
	if queueName == "" {
		queueName = DefaultQueue
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	// one unacked job per consumer
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// Enqueue publishes a persistent categorization job for the transaction.
func (c *Client) Enqueue(ctx context.Context, userID, transactionID string) error {
	job := NewCategorizationJob(userID, transactionID)
	body, err := job.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    job.EnqueuedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}

	logger.Named("queue").Debugw("Enqueued categorization job",
		"transaction_id", transactionID,
		"user_id", userID,
		"queue", c.queueName,
	)
	return nil
}

// Consume delivers jobs to handler until ctx is cancelled or the channel
// closes. Deliveries are acknowledged manually, one at a time.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log := logger.Named("queue")
	log.Infow("Started consuming categorization jobs", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			log.Infow("Stopping job consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return ErrChannelClosed
			}
			handleDelivery(ctx, delivery.Body, delivery.Redelivered, delivery, handler)
		}
	}
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// handleDelivery runs handler for one delivery. Undecodable bodies are
// dropped. A failed job is requeued once and dropped when it fails again
// on redelivery.
func handleDelivery(ctx context.Context, body []byte, redelivered bool, ack acknowledger, handler Handler) {
	log := logger.Named("queue")

	job, err := CategorizationJobFromJSON(body)
	if err != nil {
		log.Errorw("Dropping malformed categorization job", "error", err)
		if err := ack.Nack(false, false); err != nil {
			log.Warnw("Failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, job); err != nil {
		log.Errorw("Categorization job failed",
			"error", err,
			"transaction_id", job.TransactionID,
			"redelivered", redelivered,
		)
		if err := ack.Nack(false, !redelivered); err != nil {
			log.Warnw("Failed to nack message", "error", err, "transaction_id", job.TransactionID)
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		log.Warnw("Failed to ack message", "error", err, "transaction_id", job.TransactionID)
		return
	}
	log.Debugw("Categorization job done", "transaction_id", job.TransactionID)
}
