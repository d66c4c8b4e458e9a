package domain

import "github.com/google/uuid"

// Product is the read-only catalog view the cart and checkout rely on.
type Product struct {
	ID       uuid.UUID
	Name     string
	Price    Money
	ImageURL string
	Sizes    []Size
}
