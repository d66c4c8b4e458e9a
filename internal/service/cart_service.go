package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

// CartItemView is a cart item with its product resolved for display.
// Product is nil when the catalog no longer knows the id.
type CartItemView struct {
	ProductID uuid.UUID
	Size      domain.Size
	Quantity  int
	Product   *domain.Product
}

type CartView struct {
	Owner domain.Owner
	Items []CartItemView
}

// CartService keeps one cart per owner. Every mutation is an optimistic
// read-modify-write of the whole cart, retried when another request won the race.
//
// Quantities only have to fit the storage range (see domain.MaxQuantity); tighter
// limits are left to clients so that administrative adjustments go through the same path.
type CartService struct {
	carts   port.CartRepository
	catalog port.ProductCatalog
}

func NewCartService(carts port.CartRepository, catalog port.ProductCatalog) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
	}
}

// Get returns the owner's cart, or an empty one if there is none or no owner.
func (s *CartService) Get(ctx context.Context, owner domain.Owner) (CartView, error) {
	if owner.IsNone() {
		return emptyView(owner), nil
	}

	cart, err := s.carts.GetCart(ctx, owner)
	if err != nil {
		return CartView{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	return resolveCart(ctx, s.catalog, cart)
}

func (s *CartService) Add(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size, quantity int) (CartView, error) {
	if err := validateLine(productID, size); err != nil {
		return CartView{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return CartView{}, err
	}
	if owner.IsNone() {
		return emptyView(owner), nil
	}

	cart, err := s.mutate(ctx, owner, true, func(cart *domain.Cart) (bool, error) {
		if err := cart.Add(productID, size, quantity, time.Now().UTC()); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return CartView{}, err
	}

	return resolveCart(ctx, s.catalog, cart)
}

// SetQuantity replaces the quantity of a matching item. A missing item leaves the cart untouched.
func (s *CartService) SetQuantity(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size, quantity int) (CartView, error) {
	if err := validateLine(productID, size); err != nil {
		return CartView{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return CartView{}, err
	}
	if owner.IsNone() {
		return emptyView(owner), nil
	}

	cart, err := s.mutate(ctx, owner, false, func(cart *domain.Cart) (bool, error) {
		return cart.SetQuantity(productID, size, quantity), nil
	})
	if err != nil {
		return CartView{}, err
	}

	return resolveCart(ctx, s.catalog, cart)
}

func (s *CartService) Remove(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size) (CartView, error) {
	if err := validateLine(productID, size); err != nil {
		return CartView{}, err
	}
	if owner.IsNone() {
		return emptyView(owner), nil
	}

	cart, err := s.mutate(ctx, owner, false, func(cart *domain.Cart) (bool, error) {
		return cart.Remove(productID, size), nil
	})
	if err != nil {
		return CartView{}, err
	}

	return resolveCart(ctx, s.catalog, cart)
}

// Clear empties an existing cart and never creates one.
func (s *CartService) Clear(ctx context.Context, owner domain.Owner) (CartView, error) {
	if owner.IsNone() {
		return emptyView(owner), nil
	}

	_, err := s.mutate(ctx, owner, false, func(cart *domain.Cart) (bool, error) {
		if cart.IsEmpty() {
			return false, nil
		}
		cart.Clear()
		return true, nil
	})
	if err != nil && !isNotFound(err) {
		return CartView{}, err
	}

	return emptyView(owner), nil
}

// mutate loads the cart, applies fn and saves it if fn reports a change.
// Without createIfMissing an unpersisted cart yields a not found error.
func (s *CartService) mutate(ctx context.Context, owner domain.Owner, createIfMissing bool, fn func(cart *domain.Cart) (bool, error)) (domain.Cart, error) {
	var result domain.Cart

	err := retryOnConflict(ctx, func() error {
		cart, err := s.carts.GetCart(ctx, owner)
		if err != nil {
			return fmt.Errorf("carts.GetCart: %w", err)
		}
		if !cart.Persisted() && !createIfMissing {
			return domain.NotFoundf("Cart not found")
		}

		changed, err := fn(&cart)
		if err != nil {
			return err
		}
		if !changed {
			result = cart
			return nil
		}

		result, err = s.carts.SaveCart(ctx, cart)
		if err != nil {
			return fmt.Errorf("carts.SaveCart: %w", err)
		}
		return nil
	})

	return result, err
}

func resolveCart(ctx context.Context, catalog port.ProductCatalog, cart domain.Cart) (CartView, error) {
	view := emptyView(cart.Owner)
	if cart.IsEmpty() {
		return view, nil
	}

	products, err := catalog.GetProducts(ctx, cart.ProductIDs())
	if err != nil {
		return CartView{}, fmt.Errorf("catalog.GetProducts: %w", err)
	}

	for _, item := range cart.Items {
		iv := CartItemView{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		}
		if p, ok := products[item.ProductID]; ok {
			iv.Product = &p
		}
		view.Items = append(view.Items, iv)
	}

	return view, nil
}

func emptyView(owner domain.Owner) CartView {
	return CartView{Owner: owner, Items: []CartItemView{}}
}

func validateLine(productID uuid.UUID, size domain.Size) error {
	if productID == uuid.Nil {
		return domain.Validationf("productId is required")
	}
	if _, err := domain.ParseSize(string(size)); err != nil {
		return domain.Validationf("size must be one of S, M, L, XL")
	}
	return nil
}

func validateQuantity(quantity int) error {
	return domain.ValidateQuantity(quantity)
}
