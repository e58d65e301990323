// Package sync keeps multiple running contexts that share the same durable
// cart slot eventually consistent, the way browser tabs converge through
// storage events. Conflict resolution is last-writer-wins at whole-cart
// granularity: the context whose write is observed last replaces everyone
// else's in-memory state wholesale. Concurrent edits from another context can
// be dropped; that is the accepted policy, not a defect.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
)

// Envelope is the payload carried by a change notification: the full
// serialized line collection plus the ID of the context that wrote it.
type Envelope struct {
	Origin string            `json:"origin"`
	Lines  []domain.LineItem `json:"lines"`
}

// Encode serializes a change notification payload.
func Encode(origin string, lines []domain.LineItem) ([]byte, error) {
	if lines == nil {
		lines = []domain.LineItem{}
	}
	data, err := json.Marshal(Envelope{Origin: origin, Lines: lines})
	if err != nil {
		return nil, fmt.Errorf("encode sync envelope: %w", err)
	}
	return data, nil
}

// Decode parses a change notification payload.
func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode sync envelope: %w", err)
	}
	return env, nil
}

// Broadcaster delivers change notifications between contexts sharing the
// same durable slot. Implementations must deliver a published payload to all
// subscribed contexts, including (possibly) the publisher itself.
type Broadcaster interface {
	// Broadcast publishes a payload to every subscribed context.
	Broadcast(ctx context.Context, payload []byte) error

	// Subscribe registers a handler for incoming payloads and returns an
	// unsubscribe function. The handler runs on the broadcaster's delivery
	// goroutine.
	Subscribe(ctx context.Context, handler func(payload []byte)) (func(), error)
}

// Reconciler is the narrow view of the cart store the synchronizer needs:
// wholesale replacement of the in-memory line collection.
type Reconciler interface {
	// Replace swaps the in-memory state with the given lines without
	// re-persisting or re-announcing. Returns true if the state changed.
	Replace(lines []domain.LineItem) bool
}

// Synchronizer subscribes to external change notifications and reconciles the
// local store by full-snapshot overwrite.
type Synchronizer struct {
	origin      string
	broadcaster Broadcaster
	target      Reconciler
	logger      *slog.Logger
	unsubscribe func()
}

// NewSynchronizer creates a synchronizer for the given store. origin must be
// the store's own context ID so self-originated notifications are ignored,
// matching storage events never firing in the tab that wrote them.
func NewSynchronizer(origin string, b Broadcaster, target Reconciler, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		origin:      origin,
		broadcaster: b,
		target:      target,
		logger:      logger,
	}
}

// Start subscribes to the broadcaster. Notifications are handled until Stop
// is called or the context is canceled.
func (s *Synchronizer) Start(ctx context.Context) error {
	unsubscribe, err := s.broadcaster.Subscribe(ctx, s.handle)
	if err != nil {
		return fmt.Errorf("subscribe to cart changes: %w", err)
	}
	s.unsubscribe = unsubscribe
	return nil
}

// Stop unsubscribes from the broadcaster.
func (s *Synchronizer) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// handle reconciles one incoming notification. An unparseable payload is
// treated as an empty cart rather than an error.
func (s *Synchronizer) handle(payload []byte) {
	env, err := Decode(payload)
	if err != nil {
		s.logger.Warn("unparseable cart sync payload, treating as empty cart",
			slog.String("error", err.Error()),
		)
		s.target.Replace(nil)
		return
	}

	if env.Origin == s.origin {
		return
	}

	if changed := s.target.Replace(domain.SanitizeLines(env.Lines)); changed {
		s.logger.Info("cart state replaced from external context",
			slog.String("external_origin", env.Origin),
			slog.Int("lines", len(env.Lines)),
		)
	}
}
