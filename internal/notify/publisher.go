package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"bid-engine/utils"
)

const outbidRoutingKey = "auction.outbid"

// AMQPPublisher publishes outbid events to a topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares the topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel failed: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s failed: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish sends one event with the outbid routing key.
func (p *AMQPPublisher) Publish(userID string, event OutbidEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outbid event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, outbidRoutingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   userID,
		Timestamp:   event.OccurredAt,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish outbid event: %w", err)
	}
	return nil
}

// Close tears down the channel and connection.
func (p *AMQPPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// LogPublisher writes events to the application log. Used when no
// broker is configured.
type LogPublisher struct{}

// Publish logs the event at info level.
func (LogPublisher) Publish(userID string, event OutbidEvent) error {
	utils.Info("outbid notification", map[string]any{
		"user_id":    userID,
		"auction_id": event.AuctionID,
		"new_price":  event.NewPrice,
	})
	return nil
}
