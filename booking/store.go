/*
store.go - Persistence interfaces for the booking engine

PURPOSE:
  Defines the interface between the domain logic and storage. The engine
  only ever sees these interfaces; implementations back them with SQLite
  in production and an in-memory map for tests and development.

KEY INTERFACES:
  StatusStore:   Per-(unit, date) availability cells
  TxStatusStore: Serialized check-then-act for booking confirmation
  OverrideStore: Property-wide special-day records
  PriceStore:    Per-unit price profiles
  UnitStore:     The known unit set
  SettingsStore: Property-wide settings
  BookingStore:  Append-only record of confirmed bookings

ATOMIC BULK WRITES:
  BulkSetStatus() is all-or-nothing. When a booking spans 3 nights and 2
  units (6 cells), either all 6 cells are written or none are. Partial
  writes would leave the calendar visually corrupted.

COMMIT-TIME RE-VALIDATION:
  Availability reads are advisory snapshots. The final availability check
  before a confirmed write runs inside TxStatusStore.WithTx so that two
  racing bookings for the same cell cannot both win; the loser gets
  UnavailabilityError and writes nothing.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - booking/store/memory.go: In-memory for testing

SEE ALSO:
  - engine.go: ConfirmBooking drives WithTx
  - quote.go: Quote validation reads through these interfaces
*/
package booking

import "context"

// =============================================================================
// STATUS STORE - (unit, date) availability cells
// =============================================================================

// StatusStore persists availability cells. A missing cell reads as
// StatusFree; removing a cell is equivalent to resetting it to free.
type StatusStore interface {
	// GetStatus returns the cell status, defaulting to StatusFree when absent.
	GetStatus(ctx context.Context, unit UnitID, date DateKey) (CellStatus, error)

	// SetStatus writes one cell. Writing StatusFree removes the cell.
	SetStatus(ctx context.Context, unit UnitID, date DateKey, status CellStatus, metadata map[string]string) error

	// BulkSetStatus writes every cell in units x [stay.Checkin, stay.Checkout)
	// atomically: either all cells are updated or none are.
	BulkSetStatus(ctx context.Context, units []UnitID, stay StayRange, status CellStatus, metadata map[string]string) error
}

// TxStatusStore extends StatusStore with a serializing guard. WithTx runs fn
// against a view of the store such that reads and writes inside fn are not
// interleaved with other writers; if fn returns an error nothing is written.
type TxStatusStore interface {
	StatusStore

	WithTx(ctx context.Context, fn func(StatusStore) error) error
}

// =============================================================================
// OVERRIDE STORE - Property-wide special days
// =============================================================================

// OverrideIter is a lazy, finite, restartable sequence of overrides ordered
// by date ascending. Obtain a fresh iterator from ListOverrides to restart.
// Callers must drain the iterator: store-backed implementations release
// their underlying cursor only when Next returns false.
type OverrideIter interface {
	// Next advances the iterator. It returns false when exhausted.
	Next() bool

	// Date and Override return the current element. Only valid after a
	// Next() call that returned true.
	Date() DateKey
	Override() EventOverride

	// Err reports any error that terminated iteration early.
	Err() error
}

// OverrideStore persists EventOverride records, at most one per date.
type OverrideStore interface {
	// GetOverride returns the override for a date, or (zero, false) if none.
	GetOverride(ctx context.Context, date DateKey) (EventOverride, bool, error)

	// SetOverride creates or replaces the override for a date.
	SetOverride(ctx context.Context, date DateKey, ov EventOverride) error

	// RemoveOverride deletes the override for a date. Removing a missing
	// override is a no-op.
	RemoveOverride(ctx context.Context, date DateKey) error

	// ListOverrides returns the overrides in [stay.Checkin, stay.Checkout)
	// ordered by date ascending.
	ListOverrides(ctx context.Context, stay StayRange) (OverrideIter, error)
}

// =============================================================================
// PRICE / UNIT / SETTINGS STORES
// =============================================================================

// PriceStore persists per-unit price profiles.
type PriceStore interface {
	// GetProfile returns the price profile for a unit, or (zero, false) if
	// the unit has no profile yet.
	GetProfile(ctx context.Context, unit UnitID) (UnitPriceProfile, bool, error)

	// SetProfile creates or replaces the profile for a unit.
	SetProfile(ctx context.Context, profile UnitPriceProfile) error
}

// UnitStore holds the property's known unit set.
type UnitStore interface {
	// ListUnits returns all units ordered by ID.
	ListUnits(ctx context.Context) ([]Unit, error)

	// GetUnit returns a unit by ID, or (zero, false) if unknown.
	GetUnit(ctx context.Context, id UnitID) (Unit, bool, error)

	// PutUnit creates or replaces a unit.
	PutUnit(ctx context.Context, u Unit) error
}

// SettingsStore holds the property-wide settings singleton.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	PutSettings(ctx context.Context, s Settings) error
}

// =============================================================================
// BOOKING STORE - Confirmed bookings, append-only
// =============================================================================

// BookingStore records confirmed bookings. Append-only: cancellations are
// expressed by resetting the booking's cells, the record itself remains.
type BookingStore interface {
	AppendBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id BookingID) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
}

// =============================================================================
// AUTHORIZATION - Opaque collaborator
// =============================================================================

// Authorizer gates mutating operations. The engine treats authorization as
// an opaque collaborator supplied by the host.
type Authorizer interface {
	// Allow reports whether the given action may proceed.
	Allow(ctx context.Context, action string) bool
}

// AllowAll is the default Authorizer: every action is permitted.
type AllowAll struct{}

func (AllowAll) Allow(ctx context.Context, action string) bool { return true }
