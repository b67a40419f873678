package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeTypeTopic = "topic"

// AMQPPublisher publishes dispatches to a durable topic exchange.
type AMQPPublisher struct {
	conn       *amqp.Connection
	mu         sync.Mutex // guards ch; channels are not safe for concurrent publish
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// DialAMQP connects to url and declares exchange.
// POST: exchange exists as a durable topic exchange
func DialAMQP(url, exchange, routingKey string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, exchangeTypeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// Publish sends d as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, d Dispatch) error {
	msg, err := publishing(d)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish push %s: %w", d.MessageID, err)
	}
	slog.Info("push_dispatched", "message_id", d.MessageID, "recipients", len(d.Recipients), "exchange", p.exchange)
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func publishing(d Dispatch) (amqp.Publishing, error) {
	body, err := encode(d)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode dispatch: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageID,
		Timestamp:    d.SentAt,
		Type:         "push.sent",
		Body:         body,
	}, nil
}
