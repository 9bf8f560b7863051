// Package rabbitpub publishes delivered events to a durable rabbitmq queue.
package rabbitpub

import (
	"context"
	"errors"
	"fmt"

	"deliveryconfirm/internal/adapters/out/messaging"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"

	"github.com/streadway/amqp"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	channel Channel
	queue   string
	closers []func() error
}

// Dial connects to url, opens a channel and declares queue.
func Dial(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	p, err := NewPublisher(ch, queue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.closers = append(p.closers, conn.Close)
	return p, nil
}

// NewPublisher declares a durable queue on ch and publishes into it through
// the default exchange.
func NewPublisher(ch Channel, queue string) (*Publisher, error) {
	if ch == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if queue == "" {
		return nil, errs.NewValueIsRequiredError("queue")
	}

	_, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &Publisher{channel: ch, queue: queue}, nil
}

// Publish sends a persistent JSON message. streadway/amqp has no context
// support, so ctx is only checked before sending.
func (p *Publisher) Publish(ctx context.Context, event order.DeliveredEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := messaging.Encode(event)
	if err != nil {
		return err
	}

	err = p.channel.Publish(
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID().String(),
			Type:         event.EventType(),
			Timestamp:    event.OccurredAt(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", event.ID(), err)
	}

	return nil
}

// Close closes the channel and, for dialed publishers, the connection.
func (p *Publisher) Close() error {
	err := p.channel.Close()
	for _, c := range p.closers {
		err = errors.Join(err, c())
	}
	return err
}
