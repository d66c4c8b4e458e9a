package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/nikolayk812/cartkeeper/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type orderRepositorySuite struct {
	suite.Suite

	repo port.OrderRepository
	pool *pgxpool.Pool
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
}

func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func randomOrder(t *testing.T, ownerID, key string, createdAt time.Time) domain.Order {
	t.Helper()

	price := randomMoney()
	items := make([]domain.OrderItem, gofakeit.IntRange(1, 4))
	for i := range items {
		items[i] = domain.OrderItem{
			ProductID: uuid.New(),
			Name:      gofakeit.ProductName(),
			UnitPrice: domain.Money{Amount: price.Amount.Add(price.Amount.Mul(decimal.NewFromInt(int64(i)))), Currency: price.Currency},
			Size:      randomSize(),
			Quantity:  gofakeit.IntRange(1, 5),
			ImageURL:  gofakeit.URL(),
		}
	}

	order, err := domain.NewOrder(ownerID, items, randomAddress(), key, createdAt.UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	return order
}

func (suite *orderRepositorySuite) TestInsertAndGetOrder() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		order     func() domain.Order
		wantError string
	}{
		{
			name: "order without idempotency key: ok",
			order: func() domain.Order {
				return randomOrder(suite.T(), gofakeit.UUID(), "", time.Now())
			},
		},
		{
			name: "order with idempotency key: ok",
			order: func() domain.Order {
				return randomOrder(suite.T(), gofakeit.UUID(), gofakeit.UUID(), time.Now())
			},
		},
		{
			name: "empty owner: error",
			order: func() domain.Order {
				return randomOrder(suite.T(), "", "", time.Now())
			},
			wantError: "ownerID is empty",
		},
		{
			name: "no items: error",
			order: func() domain.Order {
				o := randomOrder(suite.T(), gofakeit.UUID(), "", time.Now())
				o.Items = nil
				return o
			},
			wantError: "order has no items",
		},
		{
			name: "quantity above int32: error",
			order: func() domain.Order {
				o := randomOrder(suite.T(), gofakeit.UUID(), "", time.Now())
				o.Items[0].Quantity = 4294967297
				return o
			},
			wantError: "item[0]: quantity cannot exceed 2147483647",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			order := tt.order()

			err := suite.repo.InsertOrder(ctx, order)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)

				_, err = suite.repo.GetOrder(ctx, order.ID)
				require.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)

			got, err := suite.repo.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assertOrder(t, order, got)
		})
	}
}

func (suite *orderRepositorySuite) TestGetOrder_NotFound() {
	_, err := suite.repo.GetOrder(suite.T().Context(), uuid.New())
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *orderRepositorySuite) TestListOrders() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	now := time.Now()

	older := randomOrder(t, ownerID, "", now.Add(-2*time.Hour))
	newer := randomOrder(t, ownerID, "", now)
	foreign := randomOrder(t, gofakeit.UUID(), "", now.Add(-time.Hour))

	for _, o := range []domain.Order{older, newer, foreign} {
		require.NoError(t, suite.repo.InsertOrder(ctx, o))
	}

	orders, err := suite.repo.ListOrders(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assertOrder(t, newer, orders[0])
	assertOrder(t, older, orders[1])

	orders, err = suite.repo.ListOrders(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = suite.repo.ListOrders(ctx, "")
	assert.EqualError(t, err, "ownerID is empty")
}

func (suite *orderRepositorySuite) TestListOrders_SameInstant() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	now := time.Now()

	placed := make([]domain.Order, 5)
	for i := range placed {
		placed[i] = randomOrder(t, ownerID, "", now)
		require.NoError(t, suite.repo.InsertOrder(ctx, placed[i]))
	}

	orders, err := suite.repo.ListOrders(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, orders, len(placed))

	// newest placed first, as the in-memory store does
	for i, got := range orders {
		assert.Equal(t, placed[len(placed)-1-i].ID, got.ID)
	}
}

func (suite *orderRepositorySuite) TestFindByIdempotencyKey() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	ownerID := gofakeit.UUID()
	key := gofakeit.UUID()
	order := randomOrder(t, ownerID, key, time.Now())
	require.NoError(t, suite.repo.InsertOrder(ctx, order))

	got, found, err := suite.repo.FindByIdempotencyKey(ctx, ownerID, key)
	require.NoError(t, err)
	require.True(t, found)
	assertOrder(t, order, got)

	_, found, err = suite.repo.FindByIdempotencyKey(ctx, gofakeit.UUID(), key)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = suite.repo.FindByIdempotencyKey(ctx, ownerID, "")
	require.NoError(t, err)
	assert.False(t, found)

	// the same key cannot be used twice by one owner
	duplicate := randomOrder(t, ownerID, key, time.Now())
	assert.Error(t, suite.repo.InsertOrder(ctx, duplicate))

	_, err = suite.repo.GetOrder(ctx, duplicate.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *orderRepositorySuite) deleteAll() {
	suite.NoError(truncateAll(suite.T().Context(), suite.pool))
}
