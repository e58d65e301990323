package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/service"
	apperrors "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/errors"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	store        *service.CartStore
	logger       *slog.Logger
	taxRate      float64
	discountRate float64
}

// NewCartHandler creates a new cart HTTP handler with the default rates used
// when a totals request does not override them.
func NewCartHandler(store *service.CartStore, logger *slog.Logger, taxRate, discountRate float64) *CartHandler {
	return &CartHandler{
		store:        store,
		logger:       logger,
		taxRate:      taxRate,
		discountRate: discountRate,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	Size      string `json:"size"`
	Price     int64  `json:"price" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for setting a line quantity.
// A quantity of zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Response envelope ---

// CartView is the read model returned by cart endpoints.
type CartView struct {
	Lines       []domain.LineItem `json:"lines"`
	TotalItems  int               `json:"total_items"`
	TotalAmount int64             `json:"total_amount"`
}

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.cartView()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.store.Add(r.Context(), domain.AddCandidate{
		ProductID: req.ProductID,
		Name:      req.Name,
		Size:      req.Size,
		UnitPrice: req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{lineId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "lineId is required"},
		})
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	// Unknown line IDs are a no-op by design; the caller gets the current
	// state either way.
	h.store.SetQuantity(r.Context(), lineID, req.Quantity)

	writeJSON(w, http.StatusOK, response{Data: h.cartView()})
}

// RemoveLine handles DELETE /api/v1/cart/items/{lineId}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "lineId is required"},
		})
		return
	}

	h.store.Remove(r.Context(), lineID)

	writeJSON(w, http.StatusOK, response{Data: h.cartView()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// GetTotals handles GET /api/v1/cart/totals?tax_rate=&discount_rate=
func (h *CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	taxRate, ok := h.rateParam(w, r, "tax_rate", h.taxRate)
	if !ok {
		return
	}
	discountRate, ok := h.rateParam(w, r, "discount_rate", h.discountRate)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, response{Data: h.store.Totals(taxRate, discountRate)})
}

// --- Helpers ---

func (h *CartHandler) cartView() CartView {
	lines := h.store.Lines()
	cart := domain.Cart{Lines: lines}
	if lines == nil {
		lines = []domain.LineItem{}
	}
	return CartView{
		Lines:       lines,
		TotalItems:  cart.TotalItems(),
		TotalAmount: cart.TotalAmount(),
	}
}

// rateParam reads an optional rate query parameter, falling back to the
// given default. Reports false after writing a 400 when the value is not a
// rate in [0, 1].
func (h *CartHandler) rateParam(w http.ResponseWriter, r *http.Request, name string, fallback float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: name + " must be a number between 0 and 1"},
		})
		return 0, false
	}
	return rate, true
}

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	writeJSON(w, apperrors.HTTPStatus(err), response{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func (h *CartHandler) writeValidationError(w http.ResponseWriter, err error) {
	writeValidationError(w, err)
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
