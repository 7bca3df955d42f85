package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lamanda20/ecommerce-backend/internal/cartstore"
	"github.com/lamanda20/ecommerce-backend/internal/domain"
	"github.com/lamanda20/ecommerce-backend/internal/repository"
	"github.com/lamanda20/ecommerce-backend/internal/service"
)

// CartEngine is the cart surface the handler needs.
type CartEngine interface {
	ViewCart(ctx context.Context, cartID string) *service.CartView
	AddItem(ctx context.Context, cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error)
	ClearCart(ctx context.Context, cartID string) []domain.CartItem
}

type CartHandler struct {
	engine  CartEngine
	timeout time.Duration
}

func NewCartHandler(engine CartEngine, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID *int64  `json:"productId"`
	Quantity  *int    `json:"quantity"`
	Variant   *string `json:"variant"`
}

type RemoveItemRequestDTO struct {
	ProductID *int64  `json:"productId"`
	Variant   *string `json:"variant"`
	Quantity  *int    `json:"quantity"`
}

type CartResponse struct {
	CartID string            `json:"cartId"`
	Items  []domain.CartItem `json:"items"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// resolveCartID picks the cart identity for a request: the x-cart-id
// header, else the cartId query parameter, else the shared "default"
// cart. The value is an opaque trusted string; every client that sends
// neither lands in the same cart.
func resolveCartID(r *http.Request) string {
	if id := r.Header.Get("x-cart-id"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("cartId"); id != "" {
		return id
	}
	return "default"
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view := h.engine.ViewCart(ctx, resolveCartID(r))
	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.ProductID == nil {
		fields["productId"] = "productId is required"
	} else if *req.ProductID <= 0 {
		fields["productId"] = "productId must be a positive integer"
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if len(fields) > 0 {
		respondValidationError(w, fields)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cartID := resolveCartID(r)
	items, err := h.engine.AddItem(ctx, cartID, *req.ProductID, req.Variant, quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{CartID: cartID, Items: items})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RemoveItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.ProductID == nil {
		fields["productId"] = "productId is required"
	} else if *req.ProductID <= 0 {
		fields["productId"] = "productId must be a positive integer"
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if len(fields) > 0 {
		respondValidationError(w, fields)
		return
	}

	// Absent quantity means "remove the whole line".
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cartID := resolveCartID(r)
	items, err := h.engine.RemoveItem(ctx, cartID, *req.ProductID, req.Variant, quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{CartID: cartID, Items: items})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID := resolveCartID(r)
	items := h.engine.ClearCart(ctx, cartID)
	respondJSON(w, http.StatusOK, CartResponse{CartID: cartID, Items: items})
}

// decodeBody decodes the JSON request body into dst. On failure it writes
// the 400 response itself and returns false; a type mismatch is reported
// against the offending field.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respondValidationError(w, map[string]string{
				typeErr.Field: "expected " + typeErr.Type.String(),
			})
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

func respondValidationError(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  "validation failed",
		Code:   "invalid_request",
		Fields: fields,
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "Product not found")
	case errors.Is(err, service.ErrInvalidVariant):
		respondError(w, http.StatusBadRequest, "invalid_variant", "Invalid variant")
	case errors.Is(err, cartstore.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_in_cart", "Item not in cart")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
