package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/commerce-pricing/internal/events"
	"github.com/noah-isme/commerce-pricing/internal/lock"
	"github.com/noah-isme/commerce-pricing/internal/obs"
	"github.com/noah-isme/commerce-pricing/internal/order"
)

// Service wraps the engine with logging, tracing, metrics, an optional per-order
// lock and optional domain event emission. The engine stays a pure computation;
// everything observable lives here.
type Service struct {
	Engine   *Engine
	Log      zerolog.Logger
	Tracer   trace.Tracer
	Metrics  *obs.Metrics
	Locks    *lock.Locker // optional; serialises concurrent recalculation of one order
	LockTTL  time.Duration
	Events   *events.Bus // optional
	Currency string
}

// Recalculate runs a full pass over the order.
func (s *Service) Recalculate(ctx context.Context, o *order.Order) error {
	if s == nil || s.Engine == nil {
		return errors.New("pricing service not configured")
	}
	if o == nil {
		return errors.New("order is required")
	}
	if s.Tracer != nil {
		var span trace.Span
		ctx, span = s.Tracer.Start(ctx, "pricing.recalculate")
		defer span.End()
	}
	if s.Locks != nil {
		return s.Locks.WithOrderLock(ctx, o.ID, s.LockTTL, func(ctx context.Context) error {
			return s.recalculate(ctx, o)
		})
	}
	return s.recalculate(ctx, o)
}

// RecalculateIfNeeded runs a pass only when order contents changed since the last
// one. Re-running on a clean order is safe either way; this just skips the work.
func (s *Service) RecalculateIfNeeded(ctx context.Context, o *order.Order) error {
	if o != nil && !o.Dirty() {
		return nil
	}
	return s.Recalculate(ctx, o)
}

func (s *Service) recalculate(ctx context.Context, o *order.Order) error {
	start := time.Now()
	err := s.Engine.Recalculate(ctx, o)
	s.observe(o, err, time.Since(start))
	if err != nil {
		return err
	}
	if s.Events != nil {
		payload := map[string]any{
			"orderId":     o.ID.String(),
			"currency":    s.Currency,
			"itemTotal":   o.ItemTotal.String(),
			"totalPrice":  o.TotalPrice.String(),
			"adjustments": len(o.Adjustments),
		}
		if emitErr := s.Events.Emit(ctx, events.TopicOrderRecalculated, o.ID, payload); emitErr != nil {
			s.Log.Warn().Err(emitErr).Str("order_id", o.ID.String()).Msg("emit recalculated event")
		}
	}
	return nil
}

func (s *Service) observe(o *order.Order, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRecalc(result, duration)
		if err == nil {
			s.Metrics.CountAdjustments(o.Adjustments)
		}
	}
	if err != nil {
		s.Log.Error().
			Err(err).
			Str("order_id", o.ID.String()).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("order recalculation failed")
		return
	}
	s.Log.Info().
		Str("order_id", o.ID.String()).
		Str("currency", s.Currency).
		Int("line_items", len(o.LineItems)).
		Int("adjustments", len(o.Adjustments)).
		Str("item_total", o.ItemTotal.String()).
		Str("total_tax", o.TotalTax.String()).
		Str("total_shipping", o.TotalShippingCost.String()).
		Str("total_discount", o.TotalDiscount.String()).
		Str("total_price", o.TotalPrice.String()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("order recalculated")
}
