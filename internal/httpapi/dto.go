package httpapi

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/service"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

type MergeRequest struct {
	SessionID string `json:"sessionId"`
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
}

type ShippingAddressDTO struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type CartResponse struct {
	Message string             `json:"message,omitempty"`
	Items   []CartItemResponse `json:"items"`
}

type CartItemResponse struct {
	Product   *ProductResponse `json:"product"`
	ProductID string           `json:"productId"`
	Size      string           `json:"size"`
	Quantity  int              `json:"quantity"`
}

type ProductResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
	ImageURL string      `json:"imageUrl"`
	Sizes    []string    `json:"sizes"`
}

type CheckoutResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	Items           []OrderItemResponse `json:"items"`
	TotalPrice      json.Number         `json:"totalPrice"`
	Currency        string              `json:"currency"`
	ShippingAddress ShippingAddressDTO  `json:"shippingAddress"`
	OrderDate       time.Time           `json:"orderDate"`
}

type OrderItemResponse struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Size      string      `json:"size"`
	Quantity  int         `json:"quantity"`
	ImageURL  string      `json:"imageUrl"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (req CartItemRequest) parse() (uuid.UUID, domain.Size, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, "", domain.Validationf("productId is not valid")
	}
	return productID, domain.Size(req.Size), nil
}

func (d ShippingAddressDTO) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:   d.FullName,
		Address:    d.Address,
		City:       d.City,
		PostalCode: d.PostalCode,
		Country:    d.Country,
		Phone:      d.Phone,
	}
}

func mapCartToResponse(view service.CartView) CartResponse {
	items := make([]CartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		ir := CartItemResponse{
			ProductID: item.ProductID.String(),
			Size:      string(item.Size),
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			ir.Product = mapProductToResponse(*item.Product)
		}
		items = append(items, ir)
	}
	return CartResponse{Items: items}
}

func mapProductToResponse(p domain.Product) *ProductResponse {
	sizes := make([]string, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = string(s)
	}

	return &ProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Price:    json.Number(p.Price.Amount.StringFixed(2)),
		Currency: p.Price.Currency.String(),
		ImageURL: p.ImageURL,
		Sizes:    sizes,
	}
}

func mapOrderToResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     json.Number(item.UnitPrice.Amount.StringFixed(2)),
			Size:      string(item.Size),
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		}
	}

	a := o.ShippingAddress
	return OrderResponse{
		ID:         o.ID.String(),
		Items:      items,
		TotalPrice: json.Number(o.Total.Amount.StringFixed(2)),
		Currency:   o.Total.Currency.String(),
		ShippingAddress: ShippingAddressDTO{
			FullName:   a.FullName,
			Address:    a.Address,
			City:       a.City,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			Phone:      a.Phone,
		},
		OrderDate: o.CreatedAt,
	}
}

func mapOrdersToResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrderToResponse(o)
	}
	return out
}
