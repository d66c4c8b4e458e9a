package notify_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/notify"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/text/currency"
)

func fakeConfirmation(t *testing.T) port.OrderConfirmation {
	t.Helper()

	order, err := domain.NewOrder(gofakeit.UUID(), []domain.OrderItem{
		{
			ProductID: uuid.New(),
			Name:      "Linen Shirt",
			UnitPrice: domain.Money{Amount: decimal.RequireFromString("19.99"), Currency: currency.USD},
			Size:      domain.SizeM,
			Quantity:  2,
		},
	}, domain.ShippingAddress{
		FullName:   gofakeit.Name(),
		Address:    gofakeit.Street(),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
		Country:    gofakeit.Country(),
		Phone:      gofakeit.Phone(),
	}, "", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	return port.OrderConfirmation{
		AccountID: order.OwnerID,
		Email:     gofakeit.Email(),
		Name:      gofakeit.Name(),
		Order:     order,
	}
}

func TestNewMessage(t *testing.T) {
	c := fakeConfirmation(t)

	msg := notify.NewMessage(c)

	assert.Equal(t, c.Order.ID.String(), msg.OrderID)
	assert.Equal(t, c.Email, msg.Email)
	assert.Equal(t, "39.98", msg.Total)
	assert.Equal(t, "USD", msg.Currency)
	assert.Equal(t, "2026-03-01T12:00:00Z", msg.PlacedAt)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, notify.MessageItem{Name: "Linen Shirt", Size: "M", Quantity: 2, UnitPrice: "19.99"}, msg.Items[0])
}

func TestRedisStream_NotifyOrderPlaced(t *testing.T) {
	ctx := t.Context()

	container, err := tcredis.Run(ctx, "redis:7.4-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	defer client.Close()

	const stream = "cartkeeper:order-confirmations"
	n := notify.NewRedisStream(client, stream, 1000)

	c := fakeConfirmation(t)
	require.NoError(t, n.NotifyOrderPlaced(ctx, c))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, notify.EventOrderPlaced, values["type"])
	assert.Equal(t, c.Order.ID.String(), values["order_id"])

	var msg notify.Message
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &msg))
	assert.Equal(t, notify.NewMessage(c), msg)

	// no email: nothing to deliver
	c.Email = ""
	require.Error(t, n.NotifyOrderPlaced(ctx, c))

	length, err := client.XLen(ctx, stream).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, length)
}

func TestLog_NotifyOrderPlaced(t *testing.T) {
	assert.NoError(t, notify.Log{}.NotifyOrderPlaced(t.Context(), fakeConfirmation(t)))
}
