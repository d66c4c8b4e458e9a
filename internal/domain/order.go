package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot of a checked out cart.
type Order struct {
	ID              uuid.UUID
	OwnerID         string
	Items           []OrderItem
	Total           Money
	ShippingAddress ShippingAddress
	IdempotencyKey  string

	CreatedAt time.Time
}

type OrderItem struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice Money
	Size      Size
	Quantity  int
	ImageURL  string
}

func (i OrderItem) Subtotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

type ShippingAddress struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// Validate requires every field to be non-blank.
func (a ShippingAddress) Validate() error {
	fields := []string{a.FullName, a.Address, a.City, a.PostalCode, a.Country, a.Phone}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return Validationf("Complete shipping address is required")
		}
	}
	return nil
}

// NewOrder snapshots the given lines and computes the total.
func NewOrder(ownerID string, items []OrderItem, address ShippingAddress, idempotencyKey string, now time.Time) (Order, error) {
	if len(items) == 0 {
		return Order{}, Validationf("Cart is empty")
	}

	total := Money{Currency: items[0].UnitPrice.Currency}
	for _, item := range items {
		var err error
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return Order{}, Validationf("Cart contains products priced in different currencies")
		}
	}

	// time-ordered ids keep same-instant orders in creation order
	id, err := uuid.NewV7()
	if err != nil {
		return Order{}, fmt.Errorf("uuid.NewV7: %w", err)
	}

	return Order{
		ID:              id,
		OwnerID:         ownerID,
		Items:           items,
		Total:           total,
		ShippingAddress: address,
		IdempotencyKey:  idempotencyKey,
		CreatedAt:       now,
	}, nil
}
