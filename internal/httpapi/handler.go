package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/identity"
	"github.com/nikolayk812/cartkeeper/internal/service"
)

type CartService interface {
	Get(ctx context.Context, owner domain.Owner) (service.CartView, error)
	Add(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size, quantity int) (service.CartView, error)
	SetQuantity(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size, quantity int) (service.CartView, error)
	Remove(ctx context.Context, owner domain.Owner, productID uuid.UUID, size domain.Size) (service.CartView, error)
	Clear(ctx context.Context, owner domain.Owner) (service.CartView, error)
}

type MergeService interface {
	Merge(ctx context.Context, account domain.Owner, sessionID, idempotencyKey string) (service.MergeResult, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, id identity.Identity, address domain.ShippingAddress, idempotencyKey string) (service.CheckoutResult, error)
}

type OrderService interface {
	ListMine(ctx context.Context, owner domain.Owner) ([]domain.Order, error)
	Get(ctx context.Context, owner domain.Owner, orderID uuid.UUID) (domain.Order, error)
}

// Handler serves the cart and order endpoints.
type Handler struct {
	carts    CartService
	merge    MergeService
	checkout CheckoutService
	orders   OrderService
}

func NewHandler(carts CartService, merge MergeService, checkout CheckoutService, orders OrderService) *Handler {
	return &Handler{
		carts:    carts,
		merge:    merge,
		checkout: checkout,
		orders:   orders,
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	view, err := h.carts.Get(r.Context(), id.Owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(view))
}

// AddToCart adds one unit when quantity is omitted.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	productID, size, err := req.parse()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.carts.Add(r.Context(), identityFrom(r.Context()).Owner, productID, size, quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(view))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	productID, size, err := req.parse()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	view, err := h.carts.SetQuantity(r.Context(), identityFrom(r.Context()).Owner, productID, size, *req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(view))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	productID, size, err := req.parse()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.carts.Remove(r.Context(), identityFrom(r.Context()).Owner, productID, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(view))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Clear(r.Context(), identityFrom(r.Context()).Owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartToResponse(view))
}

// MergeCart takes the guest session from the body, or from the session header when the body has none.
func (h *Handler) MergeCart(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	id := identityFrom(r.Context())
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = id.SessionID
	}

	result, err := h.merge.Merge(r.Context(), id.Owner, sessionID, r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := mapCartToResponse(result.Cart)
	switch {
	case result.Replayed:
		resp.Message = "Already merged"
	case !result.Merged:
		resp.Message = "Nothing to merge"
	}

	writeJSON(w, http.StatusOK, resp)
}

// Checkout answers 201 for a new order and 200 when an idempotency key replays an earlier one.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), identityFrom(r.Context()), req.ShippingAddress.toDomain(), r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, CheckoutResponse{
		Message: "Order placed successfully",
		Order:   mapOrderToResponse(result.Order),
	})
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListMine(r.Context(), identityFrom(r.Context()).Owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrdersToResponse(orders))
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, err := h.orders.Get(r.Context(), identityFrom(r.Context()).Owner, orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Message: "cartkeeper API is running"})
}
