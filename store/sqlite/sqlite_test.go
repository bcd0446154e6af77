package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(year int, month time.Month, day int) booking.DateKey {
	return booking.NewDateKey(year, month, day)
}

// =============================================================================
// STATUS CELLS
// =============================================================================

func TestStatusCells_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := date(2026, time.July, 10)

	// Absent cell reads as free.
	status, err := s.GetStatus(ctx, "suite", d)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusFree, status)

	require.NoError(t, s.SetStatus(ctx, "suite", d, booking.StatusBooked, map[string]string{"booking_id": "b1"}))
	status, err = s.GetStatus(ctx, "suite", d)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, status)

	// Resetting to free removes the row.
	require.NoError(t, s.SetStatus(ctx, "suite", d, booking.StatusFree, nil))
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM status_cells`).Scan(&n))
	assert.Equal(t, 0, n, "free cells must not keep rows")
}

func TestGetStatus_CorruptedRow_CoercesToFree(t *testing.T) {
	// GIVEN: A historical row holding a status outside the enumeration
	// WHEN: Reading the cell
	// THEN: It degrades to free rather than sticking unavailable

	s := newTestStore(t)
	ctx := context.Background()
	d := date(2026, time.July, 10)

	_, err := s.db.Exec(`
		INSERT INTO status_cells (unit_id, date, status, metadata_json, updated_at)
		VALUES ('suite', ?, 'maybe-booked', '{}', '2026-01-01T00:00:00Z')`,
		d.String())
	require.NoError(t, err)

	status, err := s.GetStatus(ctx, "suite", d)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusFree, status)
}

func TestBulkSetStatus_WritesEveryCell(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	stay, err := booking.NewStayRange(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)

	require.NoError(t, s.BulkSetStatus(ctx, []booking.UnitID{"suite", "loft"}, stay, booking.StatusBooked, nil))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM status_cells`).Scan(&n))
	assert.Equal(t, 6, n)
}

func TestWithTx_RollbackLeavesNoRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	stay, err := booking.NewStayRange(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(v booking.StatusStore) error {
		if err := v.BulkSetStatus(ctx, []booking.UnitID{"suite"}, stay, booking.StatusBooked, nil); err != nil {
			return err
		}
		// The transaction sees its own writes.
		status, err := v.GetStatus(ctx, "suite", stay.Checkin)
		if err != nil {
			return err
		}
		assert.Equal(t, booking.StatusBooked, status)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM status_cells`).Scan(&n))
	assert.Equal(t, 0, n, "rolled back writes must not land")
}

// =============================================================================
// EVENT OVERRIDES
// =============================================================================

func TestOverrides_RoundTripAndRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := date(2026, time.July, 10)

	want := booking.EventOverride{
		IsPrivate:       true,
		HasSpecialPrice: true,
		SpecialPrice:    decimal.NewFromInt(250),
		Name:            "wedding",
	}
	require.NoError(t, s.SetOverride(ctx, d, want))

	got, ok, err := s.GetOverride(ctx, d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.IsPrivate, got.IsPrivate)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, got.SpecialPrice.Equal(want.SpecialPrice))

	require.NoError(t, s.RemoveOverride(ctx, d))
	_, ok, err = s.GetOverride(ctx, d)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverrides_LegacyModeRows_Normalized(t *testing.T) {
	// GIVEN: Rows written by the legacy single-string schema
	// WHEN: Reading them back
	// THEN: mode maps onto the boolean shape at the scan boundary

	s := newTestStore(t)
	ctx := context.Background()

	legacy := []struct {
		date        booking.DateKey
		mode        string
		price       string
		wantPrivate bool
		wantSpecial bool
	}{
		{date(2026, time.July, 10), "private", "0", true, false},
		{date(2026, time.July, 11), "special", "180", false, true},
	}
	for _, row := range legacy {
		_, err := s.db.Exec(`
			INSERT INTO event_overrides (date, is_private, has_special_price, special_price, name, mode, updated_at)
			VALUES (?, FALSE, FALSE, ?, '', ?, '2026-01-01T00:00:00Z')`,
			row.date.String(), row.price, row.mode)
		require.NoError(t, err)
	}

	for _, row := range legacy {
		ov, ok, err := s.GetOverride(ctx, row.date)
		require.NoError(t, err)
		require.True(t, ok, "row at %s", row.date)
		assert.Equal(t, row.wantPrivate, ov.IsPrivate, "IsPrivate at %s", row.date)
		assert.Equal(t, row.wantSpecial, ov.HasSpecialPrice, "HasSpecialPrice at %s", row.date)
	}

	// A non-special legacy row must not leak its stored price.
	ov, _, err := s.GetOverride(ctx, date(2026, time.July, 10))
	require.NoError(t, err)
	assert.True(t, ov.SpecialPrice.IsZero())
}

func TestListOverrides_LazyIterator(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for day := 12; day >= 10; day-- {
		require.NoError(t, s.SetOverride(ctx, date(2026, time.July, day), booking.EventOverride{
			HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(int64(day)),
		}))
	}

	stay, err := booking.NewStayRange(date(2026, time.July, 10), date(2026, time.July, 12))
	require.NoError(t, err)

	iter, err := s.ListOverrides(ctx, stay)
	require.NoError(t, err)

	var got []string
	for iter.Next() {
		got = append(got, iter.Date().String())
	}
	require.NoError(t, iter.Err())
	// Half-open: the 12th is the checkout day and excluded.
	assert.Equal(t, []string{"2026-07-10", "2026-07-11"}, got)

	// A second ListOverrides call restarts from scratch.
	iter, err = s.ListOverrides(ctx, stay)
	require.NoError(t, err)
	require.True(t, iter.Next())
	assert.Equal(t, "2026-07-10", iter.Date().String())
	for iter.Next() {
	}
	require.NoError(t, iter.Err())
}

// =============================================================================
// PRICE PROFILES / UNITS / SETTINGS
// =============================================================================

func TestPriceProfiles_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetProfile(ctx, "suite")
	require.NoError(t, err)
	assert.False(t, ok)

	want := booking.UnitPriceProfile{
		Unit:           "suite",
		RegularPrice:   decimal.NewFromInt(120),
		EarlyBirdPrice: decimal.NewFromFloat(99.50),
	}
	require.NoError(t, s.SetProfile(ctx, want))

	got, ok, err := s.GetProfile(ctx, "suite")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.RegularPrice.Equal(want.RegularPrice))
	assert.True(t, got.EarlyBirdPrice.Equal(want.EarlyBirdPrice))
}

func TestUnits_ListSortedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, u := range []booking.Unit{{ID: "loft", Name: "Loft"}, {ID: "attic", Name: "Attic"}} {
		require.NoError(t, s.PutUnit(ctx, u))
	}

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, booking.UnitID("attic"), units[0].ID)
	assert.Equal(t, booking.UnitID("loft"), units[1].ID)
}

func TestSettings_DefaultsUntilWritten(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasSettings(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, booking.DefaultSettings().Currency, got.Currency)

	want := booking.Settings{
		Currency:       "USD",
		DefaultPrice:   decimal.NewFromInt(150),
		DepositPercent: 50,
		EarlyBird:      booking.EarlyBirdPolicy{Enabled: true, WindowDays: 21},
	}
	require.NoError(t, s.PutSettings(ctx, want))

	has, err = s.HasSettings(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	got, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, 50, got.DepositPercent)
	assert.True(t, got.EarlyBird.Enabled)
	assert.Equal(t, 21, got.EarlyBird.WindowDays)
	assert.True(t, got.DefaultPrice.Equal(want.DefaultPrice))
}

// =============================================================================
// BOOKINGS
// =============================================================================

func TestBookings_AppendAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	stay, err := booking.NewStayRange(date(2026, time.July, 10), date(2026, time.July, 12))
	require.NoError(t, err)

	b := booking.Booking{
		ID:            "b1",
		Units:         []booking.UnitID{"suite", "loft"},
		WholeProperty: true,
		Stay:          stay,
		Subtotal:      decimal.NewFromInt(400),
		Deposit:       decimal.NewFromInt(120),
		Currency:      "EUR",
		CreatedAt:     date(2026, time.June, 1),
	}
	require.NoError(t, s.AppendBooking(ctx, b))

	got, err := s.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, b.Units, got.Units)
	assert.True(t, got.WholeProperty)
	assert.True(t, got.Subtotal.Equal(b.Subtotal))
	assert.Equal(t, stay, got.Stay)

	_, err = s.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	all, err := s.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// =============================================================================
// FULL ENGINE OVER SQLITE
// =============================================================================

func TestEngine_Quote_InconsistentSpecialPrices_OverSQLite(t *testing.T) {
	// GIVEN: Two units and a 2-night whole-property stay whose nights carry
	//        differing special prices (500 and 600)
	// WHEN: Computing the quote over the single-connection SQLite store
	// THEN: The quote completes with per-unit rates; the override scan that
	//       drops the special pricing must release the sole connection so
	//       the second unit's reads do not starve on the pool

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutUnit(ctx, booking.Unit{ID: "suite", Name: "Suite"}))
	require.NoError(t, s.PutUnit(ctx, booking.Unit{ID: "loft", Name: "Loft"}))
	require.NoError(t, s.SetProfile(ctx, booking.UnitPriceProfile{
		Unit: "suite", RegularPrice: decimal.NewFromInt(100),
	}))
	require.NoError(t, s.SetProfile(ctx, booking.UnitPriceProfile{
		Unit: "loft", RegularPrice: decimal.NewFromInt(80),
	}))

	checkin := date(2026, time.September, 10)
	require.NoError(t, s.SetOverride(ctx, checkin, booking.EventOverride{
		HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(500),
	}))
	require.NoError(t, s.SetOverride(ctx, checkin.AddDays(1), booking.EventOverride{
		HasSpecialPrice: true, SpecialPrice: decimal.NewFromInt(600),
	}))

	eng := booking.NewEngine(booking.Config{
		Statuses:  s,
		Overrides: s,
		Prices:    s,
		Units:     s,
		Settings:  s,
		Bookings:  s,
	})
	eng.Now = func() booking.DateKey { return checkin.AddDays(-10) }

	done := make(chan struct{})
	var quote booking.Quote
	var quoteErr error
	go func() {
		quote, quoteErr = eng.ComputeQuote(ctx, booking.SelectAll(), checkin, checkin.AddDays(2), 30)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("quote blocked: override iterator held the sole connection")
	}
	require.NoError(t, quoteErr)

	// (100 + 80) * 2 nights, special pricing dropped entirely.
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(360)), "subtotal %s", quote.Subtotal)
	assert.NotEmpty(t, quote.Warnings)
	for _, line := range quote.Breakdown {
		assert.NotEqual(t, booking.PropertyUnit, line.Unit)
	}
}

func TestEngine_ConfirmBooking_OverSQLite(t *testing.T) {
	// The engine's commit path must work against the single-connection
	// SQLite store without blocking on its own transaction.

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutUnit(ctx, booking.Unit{ID: "suite", Name: "Suite"}))
	require.NoError(t, s.SetProfile(ctx, booking.UnitPriceProfile{
		Unit: "suite", RegularPrice: decimal.NewFromInt(100),
	}))

	checkin := date(2026, time.July, 10)
	require.NoError(t, s.SetOverride(ctx, checkin.AddDays(10), booking.EventOverride{IsPrivate: true}))

	eng := booking.NewEngine(booking.Config{
		Statuses:  s,
		Overrides: s,
		Prices:    s,
		Units:     s,
		Settings:  s,
		Bookings:  s,
	})
	eng.Now = func() booking.DateKey { return checkin.AddDays(-10) }

	done := make(chan struct{})
	var id booking.BookingID
	var confirmErr error
	go func() {
		id, confirmErr = eng.ConfirmBooking(ctx, booking.SelectUnits("suite"), checkin, checkin.AddDays(2))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ConfirmBooking blocked on the store's own transaction")
	}
	require.NoError(t, confirmErr)

	status, err := s.GetStatus(ctx, "suite", checkin)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, status)

	record, err := s.GetBooking(ctx, id)
	require.NoError(t, err)
	assert.True(t, record.Subtotal.Equal(decimal.NewFromInt(200)))
}
