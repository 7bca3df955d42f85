package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
	"github.com/lamanda20/ecommerce-backend/internal/repository"
)

// ProductCatalog is the catalog surface the handler needs.
type ProductCatalog interface {
	FindProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	timeout time.Duration
}

func NewProductHandler(catalog ProductCatalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductResponseDTO struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	ImageURL string   `json:"imageUrl"`
	Category string   `json:"category"`
	InStock  bool     `json:"inStock"`
	Variants []string `json:"variants"`
}

type CreateProductRequestDTO struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	ImageURL string   `json:"imageUrl"`
	Category string   `json:"category"`
	InStock  *bool    `json:"inStock"`
	Variants []string `json:"variants"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// A non-numeric id cannot match any product, so it is a plain 404
	// rather than a validation error.
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "Not found")
		return
	}

	product, err := h.catalog.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateProductRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Price <= 0 {
		fields["price"] = "price must be positive"
	}
	if len(fields) > 0 {
		respondValidationError(w, fields)
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	variants := req.Variants
	if variants == nil {
		variants = []string{}
	}
	encoded, err := json.Marshal(variants)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	created, err := h.catalog.CreateProduct(ctx, &domain.Product{
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
		Category: req.Category,
		InStock:  inStock,
		Variants: string(encoded),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(created))
}

func toProductResponse(p *domain.Product) ProductResponseDTO {
	variants := p.VariantNames()
	if variants == nil {
		variants = []string{}
	}
	return ProductResponseDTO{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Category: p.Category,
		InStock:  p.InStock,
		Variants: variants,
	}
}
