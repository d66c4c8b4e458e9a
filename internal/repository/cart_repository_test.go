package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/nikolayk812/cartkeeper/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type cartRepositorySuite struct {
	suite.Suite

	repo port.CartRepository
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCart(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *cartRepositorySuite) TestSaveCart() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		owner     domain.Owner
		items     []domain.CartItem
		wantError string
	}{
		{
			name:  "new session cart with items: ok",
			owner: domain.SessionOwner("guest_" + gofakeit.LetterN(12)),
			items: []domain.CartItem{randomCartItem(), randomCartItem()},
		},
		{
			name:  "new account cart with items: ok",
			owner: domain.AccountOwner(gofakeit.UUID()),
			items: []domain.CartItem{randomCartItem()},
		},
		{
			name:  "new empty cart: ok",
			owner: randomOwner(),
		},
		{
			name:      "quantity above int32: error",
			owner:     randomOwner(),
			items:     []domain.CartItem{randomCartItem(), {ProductID: uuid.New(), Size: domain.SizeM, Quantity: 4294967297}},
			wantError: "item[1]: quantity cannot exceed 2147483647",
		},
		{
			name:      "zero quantity: error",
			owner:     randomOwner(),
			items:     []domain.CartItem{{ProductID: uuid.New(), Size: domain.SizeM}},
			wantError: "item[0]: quantity must be a positive integer",
		},
		{
			name:      "unknown owner kind: error",
			owner:     domain.Owner{Kind: "admin", ID: gofakeit.UUID()},
			items:     []domain.CartItem{randomCartItem()},
			wantError: "domain.ParseOwnerKind: owner kind[admin] is not valid",
		},
		{
			name:      "no owner: error",
			owner:     domain.NoOwner(),
			items:     []domain.CartItem{randomCartItem()},
			wantError: "owner is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			saved, err := suite.repo.SaveCart(ctx, domain.Cart{Owner: tt.owner, Items: tt.items})
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)

				// nothing stored for an owner that can be read back
				if cart, err := suite.repo.GetCart(ctx, tt.owner); err == nil {
					assert.False(t, cart.Persisted())
				}
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, 1, saved.Version)

			cart, err := suite.repo.GetCart(ctx, tt.owner)
			require.NoError(t, err)

			assert.Equal(t, tt.owner, cart.Owner)
			assert.EqualValues(t, 1, cart.Version)
			assertCartItems(t, tt.items, cart.Items)
		})
	}
}

func (suite *cartRepositorySuite) TestGetCart_Missing() {
	ctx := suite.T().Context()
	owner := randomOwner()

	cart, err := suite.repo.GetCart(ctx, owner)
	suite.Require().NoError(err)

	suite.Equal(owner, cart.Owner)
	suite.False(cart.Persisted())
	suite.Empty(cart.Items)

	_, err = suite.repo.GetCart(ctx, domain.NoOwner())
	suite.EqualError(err, "owner is empty")
}

func (suite *cartRepositorySuite) TestSaveCart_ReplacesItemsInOrder() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()
	owner := randomOwner()

	first, second, third := randomCartItem(), randomCartItem(), randomCartItem()

	saved, err := suite.repo.SaveCart(ctx, domain.Cart{Owner: owner, Items: []domain.CartItem{first, second}})
	require.NoError(t, err)

	saved.Items = []domain.CartItem{third, first}
	saved.Items[1].Quantity = 42

	saved, err = suite.repo.SaveCart(ctx, saved)
	require.NoError(t, err)
	assert.EqualValues(t, 2, saved.Version)

	cart, err := suite.repo.GetCart(ctx, owner)
	require.NoError(t, err)

	first.Quantity = 42
	assertCartItems(t, []domain.CartItem{third, first}, cart.Items)
	assert.EqualValues(t, 2, cart.Version)

	cart.Clear()
	_, err = suite.repo.SaveCart(ctx, cart)
	require.NoError(t, err)

	cart, err = suite.repo.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Persisted())
}

func (suite *cartRepositorySuite) TestSaveCart_VersionConflict() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()
	owner := randomOwner()

	// two writers create the same cart
	_, err := suite.repo.SaveCart(ctx, domain.Cart{Owner: owner, Items: []domain.CartItem{randomCartItem()}})
	require.NoError(t, err)

	_, err = suite.repo.SaveCart(ctx, domain.Cart{Owner: owner, Items: []domain.CartItem{randomCartItem()}})
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	// two writers update from the same version
	loaded, err := suite.repo.GetCart(ctx, owner)
	require.NoError(t, err)

	winner := loaded
	winner.Items = append(winner.Items, randomCartItem())
	_, err = suite.repo.SaveCart(ctx, winner)
	require.NoError(t, err)

	loser := loaded
	loser.Items = nil
	_, err = suite.repo.SaveCart(ctx, loser)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	cart, err := suite.repo.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.EqualValues(t, 2, cart.Version)
}

func (suite *cartRepositorySuite) TestRecordMerge() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	accountID := gofakeit.UUID()
	key := gofakeit.UUID()

	recorded, err := suite.repo.RecordMerge(ctx, accountID, key, "guest_1")
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = suite.repo.RecordMerge(ctx, accountID, key, "guest_2")
	require.NoError(t, err)
	assert.False(t, recorded)

	// keys are scoped to the account
	recorded, err = suite.repo.RecordMerge(ctx, gofakeit.UUID(), key, "guest_1")
	require.NoError(t, err)
	assert.True(t, recorded)

	_, err = suite.repo.RecordMerge(ctx, "", key, "guest_1")
	assert.EqualError(t, err, "accountID is empty")

	_, err = suite.repo.RecordMerge(ctx, accountID, "", "guest_1")
	assert.EqualError(t, err, "idempotencyKey is empty")
}

func (suite *cartRepositorySuite) deleteAll() {
	suite.NoError(truncateAll(suite.T().Context(), suite.pool))
}
