/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Hosting layers translate these into user-facing messages; the engine
  never swallows them and never retries them (availability conflicts are
  business outcomes, not transient failures).

ERROR CATEGORIES:
  1. Input errors - malformed ranges, unknown units
  2. Conflict errors - cells not free, private-event collisions
  3. Store errors - persistence failures (wrapped, not defined here)

USAGE:
  Callers match with errors.Is / errors.As:

    var unavailable *booking.UnavailabilityError
    if errors.As(err, &unavailable) {
        // unavailable.Conflicts lists the (unit, date) pairs
    }

SEE ALSO:
  - quote.go: Raises conflict errors during validation
  - store.go: Store implementations wrap these where applicable
*/
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned for non-chronological or zero-length ranges.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnknownUnit is returned when a unit is not in the property's unit set.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnavailable is returned when requested cells are not free.
	ErrUnavailable = errors.New("requested cells unavailable")

	// ErrPrivateEventConflict is returned for whole-property/partial
	// collisions on a private-event day.
	ErrPrivateEventConflict = errors.New("private event conflict")

	// ErrInvalidDeposit is returned for a deposit percentage outside 0-100.
	ErrInvalidDeposit = errors.New("invalid deposit percent")

	// ErrBookingNotFound is returned when a booking ID does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUnauthorized is returned when the Authorizer rejects an action.
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports a range whose end does not follow its start.
type InvalidRangeError struct {
	Start DateKey
	End   DateKey
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s, end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidUnitError reports a reference to a unit outside the known unit set.
type InvalidUnitError struct {
	Unit UnitID
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("unknown unit: %s", e.Unit)
}

func (e *InvalidUnitError) Unwrap() error { return ErrUnknownUnit }

// CellRef identifies one conflicting (unit, date) cell.
type CellRef struct {
	Unit   UnitID     `json:"unit"`
	Date   DateKey    `json:"date"`
	Status CellStatus `json:"status"`
}

// UnavailabilityError reports the cells that blocked a quote or booking.
type UnavailabilityError struct {
	Conflicts []CellRef
}

func (e *UnavailabilityError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s@%s=%s", c.Unit, c.Date, c.Status))
	}
	return "unavailable cells: " + strings.Join(parts, ", ")
}

func (e *UnavailabilityError) Unwrap() error { return ErrUnavailable }

// PrivateEventConflictError reports a collision with a private-event day:
// either a partial selection was requested on a private day, or a
// whole-property request collided with an existing partial booking.
type PrivateEventConflictError struct {
	Dates []DateKey
}

func (e *PrivateEventConflictError) Error() string {
	parts := make([]string, 0, len(e.Dates))
	for _, d := range e.Dates {
		parts = append(parts, d.String())
	}
	return "private event conflict on: " + strings.Join(parts, ", ")
}

func (e *PrivateEventConflictError) Unwrap() error { return ErrPrivateEventConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownUnit) ||
		errors.Is(err, ErrInvalidDeposit)
}

// IsConflict returns true if the error is a business-level availability
// conflict. Conflicts must be surfaced immediately, never retried.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrPrivateEventConflict)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound)
}
