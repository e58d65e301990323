package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	stdsync "sync"

	"github.com/google/uuid"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/event"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/repository"
	cartsync "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/sync"
	apperrors "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/errors"
)

// CartID identifies the single cart aggregate this engine owns. Events are
// keyed by it.
const CartID = "cart"

// AddResult reports the state relevant for immediate caller feedback after an
// addition: the resulting quantity of the affected line ("x3") and the totals
// of the new state, so no second read is needed.
type AddResult struct {
	LineQuantity int   `json:"line_quantity"`
	TotalItems   int   `json:"total_items"`
	TotalAmount  int64 `json:"total_amount"`
}

// CartStore owns the authoritative in-memory cart snapshot and exposes the
// mutation surface. Mutations always succeed; persistence and event
// publication are best effort and never fail a mutation. The in-memory state
// is the source of truth for the running context.
type CartStore struct {
	mu     stdsync.Mutex
	lines  []domain.LineItem
	origin string

	repo        repository.SnapshotRepository
	broadcaster cartsync.Broadcaster
	events      *event.Producer
	logger      *slog.Logger
}

// NewCartStore creates an empty cart store. Call Hydrate to recover persisted
// state before serving traffic.
func NewCartStore(repo repository.SnapshotRepository, broadcaster cartsync.Broadcaster, events *event.Producer, logger *slog.Logger) *CartStore {
	return &CartStore{
		origin:      uuid.New().String(),
		repo:        repo,
		broadcaster: broadcaster,
		events:      events,
		logger:      logger,
	}
}

// Origin returns this store's context ID, used to tag outgoing change
// notifications so the synchronizer can drop self-originated ones.
func (s *CartStore) Origin() string {
	return s.origin
}

// Hydrate recovers the line collection from the durable slot. A missing or
// corrupt snapshot yields an empty cart; startup never fails on persistence.
func (s *CartStore) Hydrate(ctx context.Context) {
	lines, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "no persisted cart snapshot, starting empty")
		} else {
			s.logger.WarnContext(ctx, "unreadable cart snapshot, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	clean := domain.SanitizeLines(lines)

	s.mu.Lock()
	s.lines = clean
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "cart hydrated from snapshot",
		slog.Int("lines", len(clean)),
	)
}

// Lines returns a copy of the current line collection.
func (s *CartStore) Lines() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Add folds a candidate addition into the cart and returns feedback computed
// from the new state.
func (s *CartStore) Add(ctx context.Context, candidate domain.AddCandidate) (AddResult, error) {
	if candidate.ProductID == "" {
		return AddResult{}, apperrors.InvalidInput("product id is required")
	}
	if candidate.Quantity < 1 {
		return AddResult{}, apperrors.InvalidInput("quantity must be at least 1")
	}
	if candidate.UnitPrice < 0 {
		return AddResult{}, apperrors.InvalidInput("price must not be negative")
	}

	s.mu.Lock()
	next, lineQuantity := domain.ResolveAdd(s.lines, candidate)
	s.lines = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	cart := domain.Cart{Lines: snapshot}
	result := AddResult{
		LineQuantity: lineQuantity,
		TotalItems:   cart.TotalItems(),
		TotalAmount:  cart.TotalAmount(),
	}

	s.persistAndAnnounce(ctx, snapshot)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("product_id", candidate.ProductID),
		slog.String("size", candidate.Size),
		slog.Int("line_quantity", lineQuantity),
		slog.Int("total_items", result.TotalItems),
	)

	return result, nil
}

// SetQuantity replaces the quantity of the line with the given ID. A quantity
// of zero or less removes the line. An unknown line ID is a no-op, not an
// error.
func (s *CartStore) SetQuantity(ctx context.Context, lineID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, lineID)
		return
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.lines, func(l domain.LineItem) bool { return l.ID == lineID })
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	next := slices.Clone(s.lines)
	next[idx].Quantity = quantity
	s.lines = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.persistAndAnnounce(ctx, snapshot)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("line_id", lineID),
		slog.Int("quantity", quantity),
	)
}

// Remove deletes the line with the given ID, preserving the order of the
// remaining lines. An unknown line ID is a no-op.
func (s *CartStore) Remove(ctx context.Context, lineID string) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.lines, func(l domain.LineItem) bool { return l.ID == lineID })
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	next := slices.Clone(s.lines)
	next = slices.Delete(next, idx, idx+1)
	s.lines = next
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	s.persistAndAnnounce(ctx, snapshot)

	s.logger.InfoContext(ctx, "cart line removed",
		slog.String("line_id", lineID),
	)
}

// Clear replaces the cart with an empty collection.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.persist(ctx, nil)
	s.broadcast(ctx, nil)

	if err := s.events.PublishCartCleared(ctx, CartID, ""); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared")
}

// Totals derives the monetary view of the current state for the given rates.
// Safe to call at any time; an empty cart yields all-zero totals.
func (s *CartStore) Totals(taxRate, discountRate float64) domain.Totals {
	s.mu.Lock()
	cart := domain.Cart{Lines: s.lines}
	subtotal := cart.TotalAmount()
	s.mu.Unlock()

	return domain.ComputeTotals(subtotal, taxRate, discountRate)
}

// Replace swaps the in-memory state with an externally observed snapshot.
// It does not re-persist or re-announce: the external writer already owns the
// durable slot. Returns true if the state changed.
func (s *CartStore) Replace(lines []domain.LineItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Equal(s.lines, lines) {
		return false
	}
	s.lines = slices.Clone(lines)
	return true
}

// persistAndAnnounce writes the snapshot to the durable slot, notifies other
// contexts, and publishes the cart.updated domain event. All three are best
// effort: failures are logged and the in-memory state stays authoritative.
func (s *CartStore) persistAndAnnounce(ctx context.Context, snapshot []domain.LineItem) {
	s.persist(ctx, snapshot)
	s.broadcast(ctx, snapshot)

	cart := domain.Cart{Lines: snapshot}
	data := event.CartUpdatedData{
		Lines:       snapshot,
		TotalItems:  cart.TotalItems(),
		TotalAmount: cart.TotalAmount(),
	}
	if err := s.events.PublishCartUpdated(ctx, CartID, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartStore) persist(ctx context.Context, snapshot []domain.LineItem) {
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart snapshot",
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartStore) broadcast(ctx context.Context, snapshot []domain.LineItem) {
	payload, err := cartsync.Encode(s.origin, snapshot)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode cart change notification",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.broadcaster.Broadcast(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "failed to broadcast cart change",
			slog.String("error", err.Error()),
		)
	}
}
