// Package amqp publishes and consumes transaction change events over
// RabbitMQ. The web process publishes on every write; the export worker
// consumes and mirrors transactions to an external sheet.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Routing keys within the exchange.
const (
	routingSync   = "transaction.sync"
	routingDelete = "transaction.delete"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// One queue receives both sync and delete events.
	err = c.channel.QueueBind(c.queueName, "transaction.*", c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishTransactionSync publishes a transaction created/updated event.
func (c *Client) PublishTransactionSync(ctx context.Context, id, version int64) error {
	msg := NewTransactionSyncMessage(id, version)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, routingSync, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published transaction sync event",
		"id", id,
		"version", version,
		"exchange", c.exchangeName)
	return nil
}

// PublishTransactionDelete publishes a transaction removed event.
func (c *Client) PublishTransactionDelete(ctx context.Context, id int64) error {
	msg := NewTransactionDeleteMessage(id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, routingDelete, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published transaction delete event",
		"id", id,
		"exchange", c.exchangeName)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Handler processes consumed transaction events. Exactly one of the message
// arguments is non-nil per delivery.
type Handler interface {
	HandleSync(ctx context.Context, msg *TransactionSyncMessage) error
	HandleDelete(ctx context.Context, msg *TransactionDeleteMessage) error
}

// Consume delivers transaction events to the handler until ctx is done.
// Failed handlers cause a requeue; undecodable messages are dropped.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming transaction events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, handler, delivery)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, handler Handler, delivery amqp091.Delivery) {
	var err error
	switch delivery.RoutingKey {
	case routingSync:
		msg, decodeErr := TransactionSyncMessageFromJSON(delivery.Body)
		if decodeErr != nil {
			slog.ErrorContext(ctx, "Undecodable sync event, dropping", "error", decodeErr)
			delivery.Nack(false, false)
			return
		}
		err = handler.HandleSync(ctx, msg)
	case routingDelete:
		msg, decodeErr := TransactionDeleteMessageFromJSON(delivery.Body)
		if decodeErr != nil {
			slog.ErrorContext(ctx, "Undecodable delete event, dropping", "error", decodeErr)
			delivery.Nack(false, false)
			return
		}
		err = handler.HandleDelete(ctx, msg)
	default:
		slog.WarnContext(ctx, "Unknown routing key, dropping message", "routing_key", delivery.RoutingKey)
		delivery.Nack(false, false)
		return
	}

	if err != nil {
		slog.ErrorContext(ctx, "Failed to handle event",
			"error", err,
			"routing_key", delivery.RoutingKey)
		delivery.Nack(false, true) // requeue for retry
		return
	}
	delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
