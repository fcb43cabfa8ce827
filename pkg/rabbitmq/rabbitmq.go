package rabbitmq

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

const (
	// Exchange is the topic exchange carrying order events.
	Exchange = "orders"
	// Queue receives every order.* event.
	Queue = "order_events"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     logrus.FieldLogger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the order exchange and queue.
func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{"exchange": Exchange, "queue": Queue}).Info("RabbitMQ client connected")
	return &Client{conn: conn, channel: ch, log: log}, nil
}

func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}
	if _, err := ch.QueueDeclare(
		Queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", Queue, err)
	}
	if err := ch.QueueBind(Queue, "order.*", Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the order exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		Exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.WithField("routing_key", routingKey).Debug("order event sent")
	return nil
}

// ConsumeOrderEvents delivers every message of the order queue to handler in
// a background goroutine. Messages are acked when handler returns nil and
// requeued otherwise.
func (c *Client) ConsumeOrderEvents(handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		Queue, // queue
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("error processing order event")
				// Requeue once; redelivered messages are dropped to avoid a poison loop.
				if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
					c.log.WithError(nackErr).Error("error nacking message")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.WithError(ackErr).Error("error acking message")
			}
		}
	}()

	return nil
}
