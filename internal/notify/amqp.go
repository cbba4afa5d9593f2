package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

// AMQPPublisher publishes order-placed events to a fanout exchange so
// external consumers (kitchen displays, analytics) can react to orders.
type AMQPPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// orderEvent is the published wire format.
type orderEvent struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	UserID      int64           `json:"user_id"`
	Mode        string          `json:"mode"`
	Total       string          `json:"total"`
	DeliveryFee string          `json:"delivery_fee"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Lines       []orderEventRow `json:"lines"`
}

type orderEventRow struct {
	ItemID    string `json:"item_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// NewAMQPPublisher creates a publisher. The connection is established
// lazily on first publish and re-established after failures.
func NewAMQPPublisher(url, exchange string) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange}
}

// OrderPlaced publishes the order event with routing key "order.placed".
func (p *AMQPPublisher) OrderPlaced(ctx context.Context, o *domain.Order) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}

	body, err := json.Marshal(toEvent(o))
	if err != nil {
		return fmt.Errorf("amqp: marshal order %d: %w", o.ID, err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, "order.placed", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("amqp: publish order %d: %w", o.ID, err)
	}
	return nil
}

// Close shuts the connection down.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("amqp: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp: declare exchange: %w", err)
	}

	p.conn = conn
	p.ch = ch
	return p.ch, nil
}

func (p *AMQPPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func toEvent(o *domain.Order) orderEvent {
	ev := orderEvent{
		ID:          o.ID,
		Number:      o.Number,
		UserID:      o.UserID,
		Mode:        string(o.Mode),
		Total:       o.Total.StringFixed(2),
		DeliveryFee: o.DeliveryFee.StringFixed(2),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
	for _, line := range o.Lines {
		ev.Lines = append(ev.Lines, orderEventRow{
			ItemID:    line.ItemID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
		})
	}
	return ev
}
