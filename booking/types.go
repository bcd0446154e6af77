/*
Package booking provides the core availability and pricing engine.

PURPOSE:
  This package contains the domain types and algorithms for running a
  bookable property: per-unit/per-day availability cells, property-wide
  event overrides, price profiles with an early-bird policy, and quote
  computation (subtotal, deposit, remaining balance).

KEY CONCEPTS IN THIS FILE (types.go):
  - UnitID: Opaque identifier for a bookable unit (room, apartment, ticket type)
  - DateKey: A calendar date with no time component (cell keys, canonical YYYY-MM-DD)
  - CellStatus: Closed status enumeration for one (unit, date) cell
  - EventOverride: Property-wide special-day record (private event, special price)
  - UnitPriceProfile / EarlyBirdPolicy / Settings: Pricing inputs
  - Quote: Derived, never-persisted pricing result

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money to avoid floating-point errors
  2. Type Safety: Strong typing for unit IDs and dates prevents key mixups
  3. Purity: Resolvers are read-only functions over store snapshots
  4. Defaults: A missing cell is free; a missing early-bird price falls back
     to a fixed discount of the regular price

USAGE:
  checkin := booking.NewDateKey(2026, time.July, 10)
  stay, _ := booking.NewStayRange(checkin, checkin.AddDays(3))
  quote, err := engine.ComputeQuote(ctx, selection, stay, deposit)

SEE ALSO:
  - availability.go: Per-day aggregate status resolution
  - pricing.go: Nightly rate resolution (regular / early-bird / special)
  - quote.go: Quote computation and validation
  - store.go: Persistence interfaces
*/
package booking

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// UnitID identifies a bookable unit. Unique within a property.
type UnitID string

// BookingID identifies a confirmed booking.
type BookingID string

// Unit is a bookable unit of the property.
type Unit struct {
	ID   UnitID
	Name string
}

// =============================================================================
// CELL STATUS - Closed enumeration for one (unit, date) cell
// =============================================================================

// CellStatus is the booking status of a single (unit, date) cell.
// Exactly one status per cell at any time; an absent cell means StatusFree.
type CellStatus string

const (
	StatusFree     CellStatus = "free"
	StatusBooked   CellStatus = "booked"
	StatusPending  CellStatus = "pending"
	StatusBlocked  CellStatus = "blocked"
	StatusExternal CellStatus = "external"
)

// KnownStatuses lists every valid CellStatus value.
var KnownStatuses = []CellStatus{StatusFree, StatusBooked, StatusPending, StatusBlocked, StatusExternal}

// Valid reports whether s is a member of the closed enumeration.
func (s CellStatus) Valid() bool {
	switch s {
	case StatusFree, StatusBooked, StatusPending, StatusBlocked, StatusExternal:
		return true
	}
	return false
}

// CoerceStatus maps an arbitrary stored string onto the closed enumeration.
// Unrecognized values coerce to StatusFree; callers are expected to log the
// coercion. Historical data occasionally carries corrupted status values and
// a corrupted cell must degrade to sellable, never to stuck-unavailable.
func CoerceStatus(raw string) (CellStatus, bool) {
	s := CellStatus(raw)
	if s.Valid() {
		return s, true
	}
	return StatusFree, false
}

// StatusRecord is one stored availability cell.
type StatusRecord struct {
	Unit     UnitID
	Date     DateKey
	Status   CellStatus
	Metadata map[string]string
}

// =============================================================================
// EVENT OVERRIDE - Property-wide special day
// =============================================================================

// EventOverride marks a date as special for the whole property.
// A date has at most one override. Read-only to the resolvers.
type EventOverride struct {
	IsPrivate       bool
	HasSpecialPrice bool
	SpecialPrice    decimal.Decimal
	Name            string
}

// =============================================================================
// PRICING INPUTS
// =============================================================================

// EarlyBirdFallbackFactor is the discount applied to the regular price when a
// unit has no explicit early-bird price. Default policy constant, not wired
// into the resolver interface.
var EarlyBirdFallbackFactor = decimal.NewFromFloat(0.8)

// UnitPriceProfile holds the pricing metadata for one unit.
type UnitPriceProfile struct {
	Unit         UnitID
	RegularPrice decimal.Decimal
	// EarlyBirdPrice is optional. Zero (or negative) means "not set" and the
	// resolver falls back to RegularPrice * EarlyBirdFallbackFactor.
	EarlyBirdPrice decimal.Decimal
}

// EarlyBird returns the effective early-bird nightly rate for the profile.
func (p UnitPriceProfile) EarlyBird() decimal.Decimal {
	if p.EarlyBirdPrice.IsPositive() {
		return p.EarlyBirdPrice
	}
	return p.RegularPrice.Mul(EarlyBirdFallbackFactor)
}

// EarlyBirdPolicy is the property-wide early-bird rule. A stay qualifies when
// the booking is made at least WindowDays before check-in.
type EarlyBirdPolicy struct {
	Enabled    bool
	WindowDays int
}

// Qualifies reports whether a booking made at `now` for `checkin` falls
// inside the early-bird window. The boundary is inclusive: exactly
// WindowDays out still qualifies.
func (p EarlyBirdPolicy) Qualifies(now, checkin DateKey) bool {
	return p.Enabled && DaysBetween(now, checkin) >= p.WindowDays
}

// Settings are the property-wide knobs consulted by the resolvers.
type Settings struct {
	Currency string
	// DefaultPrice is substituted when a unit's pricing resolves to zero.
	DefaultPrice decimal.Decimal
	// DepositPercent is the default deposit percentage for quotes (0-100).
	DepositPercent int
	EarlyBird      EarlyBirdPolicy
}

// DefaultSettings returns a usable baseline configuration.
func DefaultSettings() Settings {
	return Settings{
		Currency:       "EUR",
		DefaultPrice:   decimal.NewFromInt(100),
		DepositPercent: 30,
		EarlyBird:      EarlyBirdPolicy{Enabled: false, WindowDays: 30},
	}
}

// =============================================================================
// QUOTE - Derived pricing result, never persisted
// =============================================================================

// NightRate is one line of a quote's per-night breakdown.
type NightRate struct {
	Date DateKey
	Unit UnitID
	Rate decimal.Decimal
}

// Quote is the priced outcome for a candidate booking. It is ephemeral:
// recomputed on every request, byte-identical for identical inputs and
// store state, and never stored.
type Quote struct {
	Selection        Selection
	Stay             StayRange
	Breakdown        []NightRate
	Subtotal         decimal.Decimal
	DepositPercent   int
	DepositAmount    decimal.Decimal
	RemainingBalance decimal.Decimal
	Currency         string
	Warnings         []string
}

// Selection is the candidate unit set for a quote or booking: either an
// explicit unit list or the entire property.
type Selection struct {
	Units         []UnitID
	WholeProperty bool
}

// SelectAll returns a whole-property selection.
func SelectAll() Selection { return Selection{WholeProperty: true} }

// SelectUnits returns a selection of specific units.
func SelectUnits(units ...UnitID) Selection { return Selection{Units: units} }

// =============================================================================
// BOOKING RECORD - Confirmed booking, append-only
// =============================================================================

// Booking is a confirmed reservation as persisted by the engine.
type Booking struct {
	ID            BookingID
	Units         []UnitID
	WholeProperty bool
	Stay          StayRange
	Subtotal      decimal.Decimal
	Deposit       decimal.Decimal
	Currency      string
	CreatedAt     DateKey
}
