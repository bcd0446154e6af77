/*
engine.go - Engine façade exposed to the hosting application

PURPOSE:
  Wires the stores and resolvers into the three operations a host calls:

    ComputeQuote(selection, checkin, checkout, depositPercent) -> Quote
    CalendarView(units, from, to)                              -> CalendarView
    ConfirmBooking(selection, checkin, checkout)               -> BookingID

CONFIRMATION RACE:
  Quote-time availability checks are advisory. Two simultaneous booking
  attempts for the same cell must not both succeed, so ConfirmBooking
  re-validates availability inside TxStatusStore.WithTx immediately before
  the bulk write. At most one confirmed booking wins per cell; the loser
  gets UnavailabilityError and writes nothing.

SEE ALSO:
  - store.go: TxStatusStore contract
  - quote.go: ValidateAvailability, shared with the commit path
*/
package booking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine bundles the stores and resolvers behind the host-facing API.
type Engine struct {
	Statuses  TxStatusStore
	Overrides OverrideStore
	Prices    PriceStore
	Units     UnitStore
	Settings  SettingsStore
	Bookings  BookingStore
	Auth      Authorizer

	// Now supplies the booking time for early-bird eligibility. Tests
	// inject a fixed clock; nil means Today.
	Now func() DateKey

	log *zap.Logger
}

// Config carries the Engine's dependencies.
type Config struct {
	Statuses  TxStatusStore
	Overrides OverrideStore
	Prices    PriceStore
	Units     UnitStore
	Settings  SettingsStore
	Bookings  BookingStore
	Auth      Authorizer
	Logger    *zap.Logger
}

// NewEngine assembles an engine. A nil Authorizer allows everything; a nil
// Logger is replaced with a no-op logger.
func NewEngine(cfg Config) *Engine {
	auth := cfg.Auth
	if auth == nil {
		auth = AllowAll{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Statuses:  cfg.Statuses,
		Overrides: cfg.Overrides,
		Prices:    cfg.Prices,
		Units:     cfg.Units,
		Settings:  cfg.Settings,
		Bookings:  cfg.Bookings,
		Auth:      auth,
		log:       logger,
	}
}

// Resolver returns the engine's availability resolver.
func (e *Engine) Resolver() *AvailabilityResolver {
	return &AvailabilityResolver{Statuses: e.Statuses, Overrides: e.Overrides, Units: e.Units}
}

// Calculator returns the engine's quote calculator.
func (e *Engine) Calculator() *QuoteCalculator {
	return &QuoteCalculator{
		Availability: e.Resolver(),
		Prices:       &PriceResolver{Prices: e.Prices, Overrides: e.Overrides},
		Units:        e.Units,
		Settings:     e.Settings,
		Now:          e.Now,
	}
}

// ComputeQuote validates and prices a candidate booking. Read-only.
func (e *Engine) ComputeQuote(ctx context.Context, sel Selection, checkin, checkout DateKey, depositPercent int) (Quote, error) {
	return e.Calculator().Compute(ctx, sel, checkin, checkout, depositPercent)
}

// CalendarView resolves aggregate statuses and badges for rendering.
// An empty unit list means all known units.
func (e *Engine) CalendarView(ctx context.Context, units []UnitID, from, to DateKey) (CalendarView, error) {
	return BuildCalendarView(ctx, e.Resolver(), units, from, to)
}

// ConfirmBooking prices the stay, re-validates availability under the
// store's serializing guard, claims the cells, and records the booking.
func (e *Engine) ConfirmBooking(ctx context.Context, sel Selection, checkin, checkout DateKey) (BookingID, error) {
	if !e.Auth.Allow(ctx, "confirm_booking") {
		return "", ErrUnauthorized
	}

	quote, err := e.ComputeQuote(ctx, sel, checkin, checkout, DepositPercentDefault)
	if err != nil {
		return "", err
	}

	units, err := e.Calculator().expandSelection(ctx, sel)
	if err != nil {
		return "", err
	}

	id := BookingID(uuid.NewString())
	meta := map[string]string{"booking_id": string(id)}

	// Overrides are read before the transaction: the race worth closing is
	// on cell claims, and the status transaction must not touch other stores.
	privateDates, err := listPrivateDates(ctx, e.Overrides, quote.Stay)
	if err != nil {
		return "", err
	}

	err = e.Statuses.WithTx(ctx, func(s StatusStore) error {
		// Check-then-act re-validated at commit time: quote-time reads may
		// be stale by now.
		if err := validateCells(ctx, s, units, quote.Stay, sel.WholeProperty, privateDates); err != nil {
			return err
		}
		return s.BulkSetStatus(ctx, units, quote.Stay, StatusBooked, meta)
	})
	if err != nil {
		e.log.Info("booking lost commit-time validation",
			zap.String("stay", quote.Stay.String()),
			zap.Error(err))
		return "", err
	}

	record := Booking{
		ID:            id,
		Units:         units,
		WholeProperty: sel.WholeProperty,
		Stay:          quote.Stay,
		Subtotal:      quote.Subtotal,
		Deposit:       quote.DepositAmount,
		Currency:      quote.Currency,
		CreatedAt:     e.today(),
	}
	if err := e.Bookings.AppendBooking(ctx, record); err != nil {
		return "", err
	}

	e.log.Info("booking confirmed",
		zap.String("booking_id", string(id)),
		zap.String("stay", quote.Stay.String()),
		zap.Int("units", len(units)),
		zap.String("subtotal", quote.Subtotal.String()))
	return id, nil
}

func (e *Engine) today() DateKey {
	if e.Now != nil {
		return e.Now()
	}
	return Today()
}
