package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_items.up.sql",
			"../migrations/02_orders.up.sql",
			"../migrations/03_products.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE TABLE cart_items, carts, cart_merges, order_items, orders, products CASCADE")
	return err
}

func randomOwner() domain.Owner {
	if gofakeit.Bool() {
		return domain.AccountOwner(gofakeit.UUID())
	}
	return domain.SessionOwner("guest_" + gofakeit.LetterN(12))
}

func randomSize() domain.Size {
	return domain.Sizes[gofakeit.IntRange(0, len(domain.Sizes)-1)]
}

func randomCartItem() domain.CartItem {
	return domain.CartItem{
		ProductID: uuid.New(),
		Size:      randomSize(),
		Quantity:  gofakeit.IntRange(1, 10),
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func randomAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   gofakeit.Name(),
		Address:    gofakeit.Street(),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
		Country:    gofakeit.Country(),
		Phone:      gofakeit.Phone(),
	}
}

var moneyComparers = cmp.Options{
	cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	}),
	cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	}),
}

func assertCartItems(t *testing.T, expected, actual []domain.CartItem) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartItem{}, "AddedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	for _, item := range actual {
		assert.False(t, item.AddedAt.IsZero())
	}
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	opts := cmp.Options{
		moneyComparers,
		cmpopts.EquateApproxTime(0),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
