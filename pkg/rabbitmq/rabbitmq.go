package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	// amqp.Channel is not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details and the topology to declare.
type Config struct {
	URL        string
	Exchange   string // direct exchange activity events are published to
	Queue      string // queue consumed by the recommendation worker
	RoutingKey string // binding between Exchange and Queue
	// Only RoutingKey is bound. Messages published under other keys, such as
	// activity-deleted events, are dropped by the broker until something binds them.
}

// NewClient connects to RabbitMQ, opens a channel and declares the exchange,
// the queue and their binding.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected; %s bound to %s with key %s", cfg.Queue, cfg.Exchange, cfg.RoutingKey)

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"direct",     // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
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

// Publish sends a persistent JSON message to the configured exchange.
// It does not wait for broker confirmation.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Handler processes one message body.
type Handler func(ctx context.Context, body []byte) error

// Acknowledger settles a delivery with the broker. amqp.Delivery implements it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consume registers one consumer on the configured queue and processes its
// deliveries on concurrency goroutines, each handling one message at a time.
// A delivery is acked when handler returns nil and rejected without requeue
// otherwise.
//
// Cancelling ctx stops intake only: a message already being handled runs to
// completion with a context that is not cancelled, and a message received
// after cancellation is requeued untouched. Consume returns once every
// goroutine has finished, so the caller may close the client afterwards.
func (c *Client) Consume(ctx context.Context, concurrency int, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	if err := c.channel.Qos(concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.cfg.Queue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for messages on %s with %d workers", c.cfg.Queue, concurrency)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-msgs:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						release(msg, msg.DeliveryTag)
						return
					}
					settle(ctx, msg, msg.DeliveryTag, msg.Body, handler)
				}
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}

// settle runs handler on body and acks or nacks the delivery. The handler's
// context keeps ctx's values but is never cancelled with it.
func settle(ctx context.Context, ack Acknowledger, tag uint64, body []byte, handler Handler) {
	if err := handler(context.WithoutCancel(ctx), body); err != nil {
		log.Printf("Error processing message %d: %v", tag, err)
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", tag, nackErr)
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", tag, ackErr)
	}
}

// release hands an unprocessed delivery back to the queue.
func release(ack Acknowledger, tag uint64) {
	if err := ack.Nack(false, true); err != nil {
		log.Printf("Error requeueing message %d: %v", tag, err)
	}
}
