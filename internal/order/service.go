package order

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/event"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/service"
	apperrors "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/errors"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/validator"
)

// codePrefix is the storefront's order code prefix (Rápida y Sabrosa).
const codePrefix = "RS"

// EstimatedDelivery is the delivery window shown on the confirmation screen.
const EstimatedDelivery = "30-45 min"

// Details holds the customer-entered checkout form.
type Details struct {
	CustomerName    string `json:"customer_name" validate:"required,min=2,max=200"`
	ContactNumber   string `json:"contact_number" validate:"required,numeric,min=7"`
	DeliveryAddress string `json:"delivery_address" validate:"required,min=5,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cash card online"`
	Notes           string `json:"notes" validate:"omitempty,max=1000"`
}

// Confirmation is the client-visible result of a finalized order.
type Confirmation struct {
	OrderCode         string            `json:"order_code"`
	Lines             []domain.LineItem `json:"lines"`
	Totals            domain.Totals     `json:"totals"`
	PaymentMethod     string            `json:"payment_method"`
	EstimatedDelivery string            `json:"estimated_delivery"`
	PlacedAt          time.Time         `json:"placed_at"`
}

// Service finalizes orders: it validates checkout details, captures the cart
// contents and totals, generates the order code, and clears the cart. There
// is no real order processing behind it; confirmation is entirely
// client-facing.
type Service struct {
	store        *service.CartStore
	events       *event.Producer
	logger       *slog.Logger
	taxRate      float64
	discountRate float64
}

// NewService creates an order service applying the given default rates.
func NewService(store *service.CartStore, events *event.Producer, logger *slog.Logger, taxRate, discountRate float64) *Service {
	return &Service{
		store:        store,
		events:       events,
		logger:       logger,
		taxRate:      taxRate,
		discountRate: discountRate,
	}
}

// PlaceOrder finalizes the current cart. The cart must not be empty. On
// success the cart is cleared; the confirmation keeps the captured lines and
// totals so the caller does not depend on post-clear state.
func (s *Service) PlaceOrder(ctx context.Context, details Details) (*Confirmation, error) {
	if err := validator.Validate(details); err != nil {
		return nil, err
	}

	lines := s.store.Lines()
	if len(lines) == 0 {
		return nil, apperrors.Unprocessable("cart is empty")
	}

	totals := s.store.Totals(s.taxRate, s.discountRate)
	now := time.Now().UTC()

	confirmation := &Confirmation{
		OrderCode:         GenerateOrderCode(now),
		Lines:             lines,
		Totals:            totals,
		PaymentMethod:     details.PaymentMethod,
		EstimatedDelivery: EstimatedDelivery,
		PlacedAt:          now,
	}

	if err := s.events.PublishOrderPlaced(ctx, event.OrderPlacedData{
		OrderCode:     confirmation.OrderCode,
		Lines:         lines,
		Totals:        totals,
		PaymentMethod: details.PaymentMethod,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_code", confirmation.OrderCode),
			slog.String("error", err.Error()),
		)
	}

	s.store.Clear(ctx)

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_code", confirmation.OrderCode),
		slog.String("payment_method", details.PaymentMethod),
		slog.Int64("total", totals.Total),
	)

	return confirmation, nil
}

// GenerateOrderCode builds a customer-friendly order code:
// RS-<yyyymmdd>-<6 uppercased chars of a fresh UUID>.
func GenerateOrderCode(t time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return codePrefix + "-" + t.UTC().Format("20060102") + "-" + suffix
}
