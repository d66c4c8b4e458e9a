// Package notify hands order confirmations to whatever delivers them to the shopper.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/redis/go-redis/v9"
)

const EventOrderPlaced = "order.placed"

// Message is the payload a mailer consumes to render the confirmation.
type Message struct {
	AccountID string        `json:"account_id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	OrderID   string        `json:"order_id"`
	Items     []MessageItem `json:"items"`
	Total     string        `json:"total"`
	Currency  string        `json:"currency"`
	PlacedAt  string        `json:"placed_at"`
}

type MessageItem struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func NewMessage(c port.OrderConfirmation) Message {
	items := make([]MessageItem, 0, len(c.Order.Items))
	for _, item := range c.Order.Items {
		items = append(items, MessageItem{
			Name:      item.Name,
			Size:      string(item.Size),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Amount.StringFixed(2),
		})
	}

	return Message{
		AccountID: c.AccountID,
		Email:     c.Email,
		Name:      c.Name,
		OrderID:   c.Order.ID.String(),
		Items:     items,
		Total:     c.Order.Total.Amount.StringFixed(2),
		Currency:  c.Order.Total.Currency.String(),
		PlacedAt:  c.Order.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// RedisStream appends confirmations to a Redis stream read by the mailer.
type RedisStream struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewRedisStream(client redis.UniversalClient, stream string, maxLen int64) *RedisStream {
	return &RedisStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (n *RedisStream) NotifyOrderPlaced(ctx context.Context, c port.OrderConfirmation) error {
	if c.Email == "" {
		return fmt.Errorf("account[%s] has no email", c.AccountID)
	}

	payload, err := json.Marshal(NewMessage(c))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Approx: true,
		Values: map[string]any{
			"type":     EventOrderPlaced,
			"order_id": c.Order.ID.String(),
			"payload":  string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("client.XAdd: %w", err)
	}

	return nil
}

// Log only records the confirmation; used when no stream is configured.
type Log struct{}

func (Log) NotifyOrderPlaced(ctx context.Context, c port.OrderConfirmation) error {
	slog.InfoContext(ctx, "order confirmation",
		"account_id", c.AccountID,
		"email", c.Email,
		"order_id", c.Order.ID.String(),
		"total", c.Order.Total.String(),
	)
	return nil
}
