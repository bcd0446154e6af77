package booking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
	"github.com/ohmevents/aiohm-booking-pro-sub004/booking/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newCalculator(m *store.Memory, now booking.DateKey) *booking.QuoteCalculator {
	return &booking.QuoteCalculator{
		Availability: &booking.AvailabilityResolver{Statuses: m, Overrides: m, Units: m},
		Prices:       &booking.PriceResolver{Prices: m, Overrides: m},
		Units:        m,
		Settings:     m,
		Now:          func() booking.DateKey { return now },
	}
}

// =============================================================================
// DEPOSIT AND SUBTOTAL MATH
// =============================================================================

func TestCompute_DepositSplit(t *testing.T) {
	// GIVEN: One unit at 100/night for 2 nights with a 50% deposit
	// WHEN: Computing the quote
	// THEN: subtotal 200, deposit 100, remaining 100

	m := store.NewMemory()
	seedUnits(t, m, "suite")
	require.NoError(t, m.SetProfile(context.Background(), booking.UnitPriceProfile{
		Unit: "suite", RegularPrice: decimal.NewFromInt(100),
	}))

	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	quote, err := calc.Compute(context.Background(),
		booking.SelectUnits("suite"), checkin, checkin.AddDays(2), 50)
	require.NoError(t, err)

	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal %s", quote.Subtotal)
	assert.True(t, quote.DepositAmount.Equal(decimal.NewFromInt(100)), "deposit %s", quote.DepositAmount)
	assert.True(t, quote.RemainingBalance.Equal(decimal.NewFromInt(100)), "remaining %s", quote.RemainingBalance)
	assert.Len(t, quote.Breakdown, 2)
	assert.Equal(t, "EUR", quote.Currency)
}

func TestCompute_DefaultDepositFromSettings(t *testing.T) {
	m := store.NewMemory()
	seedUnits(t, m, "suite")
	require.NoError(t, m.SetProfile(context.Background(), booking.UnitPriceProfile{
		Unit: "suite", RegularPrice: decimal.NewFromInt(100),
	}))
	settings := booking.DefaultSettings()
	settings.DepositPercent = 25
	require.NoError(t, m.PutSettings(context.Background(), settings))

	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	quote, err := calc.Compute(context.Background(),
		booking.SelectUnits("suite"), checkin, checkin.AddDays(2), booking.DepositPercentDefault)
	require.NoError(t, err)
	assert.Equal(t, 25, quote.DepositPercent)
	assert.True(t, quote.DepositAmount.Equal(decimal.NewFromInt(50)), "deposit %s", quote.DepositAmount)
}

func TestCompute_DepositPercentOutOfRange(t *testing.T) {
	m := store.NewMemory()
	seedUnits(t, m, "suite")
	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	for _, pct := range []int{-2, 101} {
		_, err := calc.Compute(context.Background(),
			booking.SelectUnits("suite"), checkin, checkin.AddDays(1), pct)
		assert.ErrorIs(t, err, booking.ErrInvalidDeposit, "percent %d", pct)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	// Two computations against unchanged store state return identical quotes.

	m := store.NewMemory()
	seedUnits(t, m, "suite", "loft")
	ctx := context.Background()
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "suite", RegularPrice: decimal.NewFromInt(120)}))
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "loft", RegularPrice: decimal.NewFromInt(80)}))

	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	first, err := calc.Compute(ctx, booking.SelectUnits("suite", "loft"), checkin, checkin.AddDays(3), 30)
	require.NoError(t, err)
	second, err := calc.Compute(ctx, booking.SelectUnits("suite", "loft"), checkin, checkin.AddDays(3), 30)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.Subtotal.Equal(decimal.NewFromInt(600)), "subtotal %s", first.Subtotal)
}

// =============================================================================
// VALIDATION FAILURES
// =============================================================================

func TestCompute_ZeroNightRange_Rejected(t *testing.T) {
	m := store.NewMemory()
	seedUnits(t, m, "suite")
	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	_, err := calc.Compute(context.Background(),
		booking.SelectUnits("suite"), checkin, checkin, 30)
	assert.ErrorIs(t, err, booking.ErrInvalidRange)

	var rangeErr *booking.InvalidRangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestCompute_TakenCell_UnavailabilityConflicts(t *testing.T) {
	// GIVEN: Night 2 of a 3-night stay already booked
	// WHEN: Computing a quote for that unit
	// THEN: UnavailabilityError listing exactly the conflicting cell

	m := store.NewMemory()
	seedUnits(t, m, "suite")
	ctx := context.Background()
	checkin := date(2026, time.July, 10)
	require.NoError(t, m.SetStatus(ctx, "suite", checkin.AddDays(1), booking.StatusBooked, nil))

	calc := newCalculator(m, checkin.AddDays(-10))
	_, err := calc.Compute(ctx, booking.SelectUnits("suite"), checkin, checkin.AddDays(3), 30)

	var unavail *booking.UnavailabilityError
	require.ErrorAs(t, err, &unavail)
	require.Len(t, unavail.Conflicts, 1)
	assert.Equal(t, booking.UnitID("suite"), unavail.Conflicts[0].Unit)
	assert.Equal(t, checkin.AddDays(1), unavail.Conflicts[0].Date)
	assert.Equal(t, booking.StatusBooked, unavail.Conflicts[0].Status)
}

func TestCompute_PrivateDay_PartialSelectionRejected(t *testing.T) {
	// A private-event day accepts whole-property bookings only.

	m := store.NewMemory()
	seedUnits(t, m, "suite", "loft")
	ctx := context.Background()
	checkin := date(2026, time.July, 10)
	require.NoError(t, m.SetOverride(ctx, checkin.AddDays(1), booking.EventOverride{
		IsPrivate: true, Name: "wedding",
	}))

	calc := newCalculator(m, checkin.AddDays(-10))
	_, err := calc.Compute(ctx, booking.SelectUnits("suite"), checkin, checkin.AddDays(3), 30)

	var private *booking.PrivateEventConflictError
	require.ErrorAs(t, err, &private)
	assert.ErrorIs(t, err, booking.ErrPrivateEventConflict)
	require.Len(t, private.Dates, 1)
	assert.Equal(t, checkin.AddDays(1), private.Dates[0])
}

func TestCompute_PrivateDay_WholePropertyBlockedByExistingPartial(t *testing.T) {
	// GIVEN: A private day that already carries a partial booking on one unit
	// WHEN: Requesting the whole property across that day
	// THEN: PrivateEventConflictError, not a plain unavailability

	m := store.NewMemory()
	seedUnits(t, m, "suite", "loft")
	ctx := context.Background()
	checkin := date(2026, time.July, 10)
	require.NoError(t, m.SetOverride(ctx, checkin, booking.EventOverride{IsPrivate: true}))
	require.NoError(t, m.SetStatus(ctx, "loft", checkin, booking.StatusBooked, nil))

	calc := newCalculator(m, checkin.AddDays(-10))
	_, err := calc.Compute(ctx, booking.SelectAll(), checkin, checkin.AddDays(2), 30)

	var private *booking.PrivateEventConflictError
	require.ErrorAs(t, err, &private)
	require.Len(t, private.Dates, 1)
	assert.Equal(t, checkin, private.Dates[0])
}

func TestCompute_UnknownUnit_Rejected(t *testing.T) {
	m := store.NewMemory()
	seedUnits(t, m, "suite")
	checkin := date(2026, time.July, 10)
	calc := newCalculator(m, checkin.AddDays(-10))

	_, err := calc.Compute(context.Background(),
		booking.SelectUnits("suite", "penthouse"), checkin, checkin.AddDays(1), 30)

	var invalidUnit *booking.InvalidUnitError
	require.ErrorAs(t, err, &invalidUnit)
	assert.Equal(t, booking.UnitID("penthouse"), invalidUnit.Unit)
	assert.ErrorIs(t, err, booking.ErrUnknownUnit)
}

// =============================================================================
// WHOLE-PROPERTY SPECIAL PRICING
// =============================================================================

func TestCompute_UniformSpecialPrice_BillsPropertyAsWhole(t *testing.T) {
	// GIVEN: 2 units, a 2-night whole-property stay at special price 500/night
	// WHEN: Computing the quote
	// THEN: subtotal 1000 (not 2000), breakdown lines under the property
	//       pseudo-unit

	m := store.NewMemory()
	seedUnits(t, m, "suite", "loft")
	ctx := context.Background()
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "suite", RegularPrice: decimal.NewFromInt(120)}))
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "loft", RegularPrice: decimal.NewFromInt(80)}))

	checkin := date(2026, time.July, 10)
	for _, d := range []booking.DateKey{checkin, checkin.AddDays(1)} {
		require.NoError(t, m.SetOverride(ctx, d, booking.EventOverride{
			HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(500),
		}))
	}

	calc := newCalculator(m, checkin.AddDays(-10))
	quote, err := calc.Compute(ctx, booking.SelectAll(), checkin, checkin.AddDays(2), 30)
	require.NoError(t, err)

	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", quote.Subtotal)
	require.Len(t, quote.Breakdown, 2)
	for _, line := range quote.Breakdown {
		assert.Equal(t, booking.PropertyUnit, line.Unit)
		assert.True(t, line.Rate.Equal(decimal.NewFromInt(500)))
	}
}

func TestCompute_InconsistentSpecialPrices_PerUnitRatesApply(t *testing.T) {
	m := store.NewMemory()
	seedUnits(t, m, "suite", "loft")
	ctx := context.Background()
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "suite", RegularPrice: decimal.NewFromInt(120)}))
	require.NoError(t, m.SetProfile(ctx, booking.UnitPriceProfile{Unit: "loft", RegularPrice: decimal.NewFromInt(80)}))

	checkin := date(2026, time.July, 10)
	require.NoError(t, m.SetOverride(ctx, checkin, booking.EventOverride{
		HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(500),
	}))
	require.NoError(t, m.SetOverride(ctx, checkin.AddDays(1), booking.EventOverride{
		HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(600),
	}))

	calc := newCalculator(m, checkin.AddDays(-10))
	quote, err := calc.Compute(ctx, booking.SelectAll(), checkin, checkin.AddDays(2), 30)
	require.NoError(t, err)

	// (120 + 80) * 2 nights
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(400)), "subtotal %s", quote.Subtotal)
	assert.NotEmpty(t, quote.Warnings)
	for _, line := range quote.Breakdown {
		assert.NotEqual(t, booking.PropertyUnit, line.Unit)
	}
}
