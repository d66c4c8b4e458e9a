package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

var Sizes = []Size{SizeS, SizeM, SizeL, SizeXL}

// MaxQuantity bounds a single cart or order line; quantities are stored as INTEGER.
const MaxQuantity = math.MaxInt32

func ParseSize(s string) (Size, error) {
	for _, size := range Sizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("size[%s] is not valid", s)
}

// Cart holds at most one item per (ProductID, Size).
// Version is zero until the cart is first persisted.
type Cart struct {
	Owner   Owner
	Items   []CartItem
	Version int64

	UpdatedAt time.Time
}

type CartItem struct {
	ProductID uuid.UUID
	Size      Size
	Quantity  int

	AddedAt time.Time
}

func (c Cart) Persisted() bool {
	return c.Version > 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) indexOf(productID uuid.UUID, size Size) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}

// ValidateQuantity reports a validation error unless 1 <= quantity <= MaxQuantity.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return Validationf("quantity must be a positive integer")
	}
	if quantity > MaxQuantity {
		return Validationf("quantity cannot exceed %d", MaxQuantity)
	}
	return nil
}

// Add increments the matching item or appends a new one.
// The cart is left unchanged when the resulting quantity would be out of range.
func (c *Cart) Add(productID uuid.UUID, size Size, quantity int, now time.Time) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}

	if i := c.indexOf(productID, size); i >= 0 {
		if quantity > MaxQuantity-c.Items[i].Quantity {
			return Validationf("quantity cannot exceed %d", MaxQuantity)
		}
		c.Items[i].Quantity += quantity
		return nil
	}

	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		AddedAt:   now,
	})
	return nil
}

// SetQuantity replaces the quantity of the matching item, reporting whether one was found.
func (c *Cart) SetQuantity(productID uuid.UUID, size Size, quantity int) bool {
	i := c.indexOf(productID, size)
	if i < 0 {
		return false
	}

	c.Items[i].Quantity = quantity
	return true
}

// Remove drops the matching item, reporting whether one was found.
func (c *Cart) Remove(productID uuid.UUID, size Size) bool {
	i := c.indexOf(productID, size)
	if i < 0 {
		return false
	}

	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = nil
}

// MergeFrom folds every item of src into c, summing quantities on matching lines.
// Either every item is merged or, on error, c is left unchanged.
func (c *Cart) MergeFrom(src Cart, now time.Time) error {
	merged := Cart{Items: append([]CartItem(nil), c.Items...)}

	for _, item := range src.Items {
		addedAt := item.AddedAt
		if addedAt.IsZero() {
			addedAt = now
		}
		if err := merged.Add(item.ProductID, item.Size, item.Quantity, addedAt); err != nil {
			return err
		}
	}

	c.Items = merged.Items
	return nil
}

func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	seen := make(map[uuid.UUID]struct{}, len(c.Items))

	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	return ids
}
