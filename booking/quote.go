/*
quote.go - Quote computation and validation

PURPOSE:
  Combines the Availability Resolver and Price Resolver into a structured
  quote (per-night breakdown, subtotal, deposit, remaining balance) for a
  candidate booking. Computation is a pure function of its inputs plus the
  stores' current state: repeated calls with unchanged store state return
  identical quotes. Nothing here writes anything, anywhere.

VALIDATION ORDER:
  1. checkout > checkin, deposit percent within 0-100
  2. every selected unit exists in the known unit set
  3. private-event days: a partial selection touching a private day is a
     PrivateEventConflictError; a whole-property request whose private days
     already carry partial bookings is one too
  4. every remaining (unit, date) cell is free, else UnavailabilityError
     with the full conflict list

WHOLE-PROPERTY SPECIAL PRICING:
  A whole-property stay whose nights all share one special price is billed
  at that price per night for the property as a whole (one breakdown line
  per night under the "property" pseudo-unit). Inconsistent special prices
  drop special pricing entirely and the per-unit rates apply.

SEE ALSO:
  - availability.go, pricing.go: The resolvers
  - engine.go: ConfirmBooking re-runs this validation at commit time
*/
package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

// PropertyUnit is the pseudo-unit used in breakdown lines when a uniform
// special price bills the property as a whole rather than per unit.
const PropertyUnit UnitID = "property"

// =============================================================================
// QUOTE CALCULATOR
// =============================================================================

// QuoteCalculator validates a candidate booking and prices it.
type QuoteCalculator struct {
	Availability *AvailabilityResolver
	Prices       *PriceResolver
	Units        UnitStore
	Settings     SettingsStore

	// Now supplies the booking time for early-bird eligibility. Defaults to
	// Today when nil; tests inject a fixed clock.
	Now func() DateKey
}

// DepositPercentDefault signals "use the property's configured deposit".
const DepositPercentDefault = -1

func (qc *QuoteCalculator) now() DateKey {
	if qc.Now != nil {
		return qc.Now()
	}
	return Today()
}

// Compute validates the candidate booking and returns its quote.
func (qc *QuoteCalculator) Compute(ctx context.Context, sel Selection, checkin, checkout DateKey, depositPercent int) (Quote, error) {
	stay, err := NewStayRange(checkin, checkout)
	if err != nil {
		return Quote{}, err
	}

	settings, err := qc.Settings.GetSettings(ctx)
	if err != nil {
		return Quote{}, err
	}
	if depositPercent == DepositPercentDefault {
		depositPercent = settings.DepositPercent
	}
	if depositPercent < 0 || depositPercent > 100 {
		return Quote{}, ErrInvalidDeposit
	}

	units, err := qc.expandSelection(ctx, sel)
	if err != nil {
		return Quote{}, err
	}

	if err := ValidateAvailability(ctx, qc.Availability.Statuses, qc.Availability.Overrides, units, stay, sel.WholeProperty); err != nil {
		return Quote{}, err
	}

	return qc.price(ctx, sel, units, stay, depositPercent, settings)
}

// expandSelection resolves a Selection into concrete unit IDs. Whole-property
// selections expand to every known unit; explicit selections are checked
// against the known unit set.
func (qc *QuoteCalculator) expandSelection(ctx context.Context, sel Selection) ([]UnitID, error) {
	if sel.WholeProperty {
		all, err := qc.Units.ListUnits(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]UnitID, len(all))
		for i, u := range all {
			ids[i] = u.ID
		}
		return ids, nil
	}
	for _, id := range sel.Units {
		_, ok, err := qc.Units.GetUnit(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InvalidUnitError{Unit: id}
		}
	}
	return sel.Units, nil
}

// ValidateAvailability rejects the stay when any requested cell is taken or
// a private-event day is violated. Shared by quote computation and by
// ConfirmBooking, which re-runs the cell check at commit time.
//
// Private-day collisions are reported as PrivateEventConflictError rather
// than plain unavailability, in both directions: a partial selection
// touching a private day, and a whole-property request whose private days
// already carry claimed cells.
func ValidateAvailability(ctx context.Context, statuses StatusStore, overrides OverrideStore, units []UnitID, stay StayRange, wholeProperty bool) error {
	privateDates, err := listPrivateDates(ctx, overrides, stay)
	if err != nil {
		return err
	}
	return validateCells(ctx, statuses, units, stay, wholeProperty, privateDates)
}

// validateCells is the store-facing half of ValidateAvailability. The commit
// path calls it directly with pre-fetched private dates so that a status
// transaction never has to read the override store mid-flight.
func validateCells(ctx context.Context, statuses StatusStore, units []UnitID, stay StayRange, wholeProperty bool, privateDates []DateKey) error {
	if !wholeProperty && len(privateDates) > 0 {
		// Private-event days accept whole-property bookings only.
		return &PrivateEventConflictError{Dates: privateDates}
	}

	isPrivate := make(map[DateKey]bool, len(privateDates))
	for _, d := range privateDates {
		isPrivate[d] = true
	}

	var cellConflicts []CellRef
	var privateConflicts []DateKey
	seenPrivate := make(map[DateKey]bool)
	for _, date := range stay.Dates() {
		for _, u := range units {
			status, err := statuses.GetStatus(ctx, u, date)
			if err != nil {
				return err
			}
			if status == StatusFree {
				continue
			}
			if wholeProperty && isPrivate[date] {
				// Any claimed cell collides with the private-day
				// whole-property request. Cell state cannot tell a partial
				// claim from an earlier whole-property one, so both count.
				if !seenPrivate[date] {
					seenPrivate[date] = true
					privateConflicts = append(privateConflicts, date)
				}
				continue
			}
			cellConflicts = append(cellConflicts, CellRef{Unit: u, Date: date, Status: status})
		}
	}

	if len(privateConflicts) > 0 {
		return &PrivateEventConflictError{Dates: privateConflicts}
	}
	if len(cellConflicts) > 0 {
		return &UnavailabilityError{Conflicts: cellConflicts}
	}
	return nil
}

func listPrivateDates(ctx context.Context, overrides OverrideStore, stay StayRange) ([]DateKey, error) {
	iter, err := overrides.ListOverrides(ctx, stay)
	if err != nil {
		return nil, err
	}
	var dates []DateKey
	for iter.Next() {
		if iter.Override().IsPrivate {
			dates = append(dates, iter.Date())
		}
	}
	return dates, iter.Err()
}

// price resolves rates and assembles the quote. Rates are flat per stay per
// unit (resolved once against the check-in date), except that a uniform
// special price bills the property as a whole.
func (qc *QuoteCalculator) price(ctx context.Context, sel Selection, units []UnitID, stay StayRange, depositPercent int, settings Settings) (Quote, error) {
	now := qc.now()
	nights := stay.Nights()

	quote := Quote{
		Selection:      sel,
		Stay:           stay,
		DepositPercent: depositPercent,
		Currency:       settings.Currency,
		Subtotal:       decimal.Zero,
	}

	for _, u := range units {
		rate, err := qc.Prices.Resolve(ctx, u, stay, now, sel.WholeProperty, settings)
		if err != nil {
			return Quote{}, err
		}
		quote.Warnings = appendUnique(quote.Warnings, rate.Warnings...)

		if rate.SpecialPrice {
			// Uniform special price: one property-wide line per night, not
			// one per unit. Every unit resolves to the same special rate so
			// the first unit settles the whole stay.
			for _, date := range stay.Dates() {
				quote.Breakdown = append(quote.Breakdown, NightRate{Date: date, Unit: PropertyUnit, Rate: rate.Nightly})
			}
			quote.Subtotal = rate.Nightly.Mul(decimal.NewFromInt(int64(nights)))
			break
		}

		for _, date := range stay.Dates() {
			quote.Breakdown = append(quote.Breakdown, NightRate{Date: date, Unit: u, Rate: rate.Nightly})
		}
		quote.Subtotal = quote.Subtotal.Add(rate.Nightly.Mul(decimal.NewFromInt(int64(nights))))
	}

	quote.DepositAmount = quote.Subtotal.
		Mul(decimal.NewFromInt(int64(depositPercent))).
		Div(decimal.NewFromInt(100))
	quote.RemainingBalance = quote.Subtotal.Sub(quote.DepositAmount)
	return quote, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
