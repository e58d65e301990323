package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/order"
	apperrors "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/errors"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/validator"
)

// OrderHandler handles HTTP requests for checkout finalization.
type OrderHandler struct {
	orders *order.Service
	logger *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orders *order.Service, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details order.Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	confirmation, err := h.orders.PlaceOrder(r.Context(), details)
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			writeValidationError(w, err)
			return
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			writeJSON(w, appErr.Status, response{
				Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
			})
			return
		}

		h.logger.ErrorContext(r.Context(), "place order failed",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
		})
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: confirmation})
}
