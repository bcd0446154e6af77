/*
availability.go - Per-day aggregate status resolution

PURPOSE:
  Classifies each date of a range into an aggregate display status for the
  whole property, and decides per-unit bookability for quote validation.
  This is a pure read layer: it never mutates the stores and never raises
  for missing data (an absent cell is free).

AGGREGATE TIE-BREAK:
  For a date, count the unit statuses and apply the first matching rule:
    1. every unit booked        -> booked
    2. every unit blocked       -> blocked
    3. every unit pending       -> pending
    4. every unit external      -> external
    5. anything non-free exists -> free   (mixed: at least one unit sellable)
    6. all free                 -> free
  The order is fixed; callers depend on it for calendar rendering.

BADGES:
  An EventOverride never changes the aggregate status. A private-event day
  with technically-free units still renders as free with a "private" badge;
  the Quote Calculator is what refuses partial bookings on such days.

SEE ALSO:
  - quote.go: Enforces the private-day rule during validation
  - calendar.go: CalendarView assembles DaySummary rows from this resolver
*/
package booking

import "context"

// =============================================================================
// BADGES - Display annotations attached to a day
// =============================================================================

type Badge string

const (
	BadgePrivate      Badge = "private"
	BadgeSpecialPrice Badge = "special_price"
)

// DaySummary is the resolved aggregate state of one calendar day.
type DaySummary struct {
	Date      DateKey               `json:"date"`
	Aggregate CellStatus            `json:"aggregate_status"`
	Badges    []Badge               `json:"badges,omitempty"`
	Override  *EventOverride        `json:"override,omitempty"`
	PerUnit   map[UnitID]CellStatus `json:"per_unit,omitempty"`
}

// =============================================================================
// AVAILABILITY RESOLVER
// =============================================================================

// AvailabilityResolver computes aggregate and per-unit availability from the
// status and override stores. Stateless; safe for concurrent use.
type AvailabilityResolver struct {
	Statuses  StatusStore
	Overrides OverrideStore
	Units     UnitStore
}

// ResolveDay classifies one date across the given unit set.
func (r *AvailabilityResolver) ResolveDay(ctx context.Context, units []UnitID, date DateKey) (DaySummary, error) {
	perUnit := make(map[UnitID]CellStatus, len(units))
	counts := map[CellStatus]int{}
	for _, u := range units {
		status, err := r.Statuses.GetStatus(ctx, u, date)
		if err != nil {
			return DaySummary{}, err
		}
		perUnit[u] = status
		counts[status]++
	}

	summary := DaySummary{
		Date:      date,
		Aggregate: aggregateStatus(len(units), counts),
		PerUnit:   perUnit,
	}

	ov, ok, err := r.Overrides.GetOverride(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	if ok {
		summary.Override = &ov
		if ov.IsPrivate {
			summary.Badges = append(summary.Badges, BadgePrivate)
		}
		if ov.HasSpecialPrice {
			summary.Badges = append(summary.Badges, BadgeSpecialPrice)
		}
	}
	return summary, nil
}

// ResolveRange classifies every date in [stay.Checkin, stay.Checkout).
func (r *AvailabilityResolver) ResolveRange(ctx context.Context, units []UnitID, stay StayRange) ([]DaySummary, error) {
	if err := r.checkUnits(ctx, units); err != nil {
		return nil, err
	}
	days := make([]DaySummary, 0, stay.Nights())
	for _, date := range stay.Dates() {
		day, err := r.ResolveDay(ctx, units, date)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// Bookable reports whether a single (unit, date) cell can be sold to the
// given selection: the cell must be free, and a private-event day only
// accepts whole-property requests.
func (r *AvailabilityResolver) Bookable(ctx context.Context, unit UnitID, date DateKey, wholeProperty bool) (bool, error) {
	status, err := r.Statuses.GetStatus(ctx, unit, date)
	if err != nil {
		return false, err
	}
	if status != StatusFree {
		return false, nil
	}
	ov, ok, err := r.Overrides.GetOverride(ctx, date)
	if err != nil {
		return false, err
	}
	if ok && ov.IsPrivate && !wholeProperty {
		return false, nil
	}
	return true, nil
}

// checkUnits rejects references outside the known unit set.
func (r *AvailabilityResolver) checkUnits(ctx context.Context, units []UnitID) error {
	for _, u := range units {
		_, ok, err := r.Units.GetUnit(ctx, u)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidUnitError{Unit: u}
		}
	}
	return nil
}

// aggregateStatus applies the fixed tie-break order. First match wins.
func aggregateStatus(total int, counts map[CellStatus]int) CellStatus {
	if total == 0 {
		return StatusFree
	}
	switch {
	case counts[StatusBooked] == total:
		return StatusBooked
	case counts[StatusBlocked] == total:
		return StatusBlocked
	case counts[StatusPending] == total:
		return StatusPending
	case counts[StatusExternal] == total:
		return StatusExternal
	default:
		// Mixed availability or all free: at least one unit remains sellable.
		return StatusFree
	}
}
