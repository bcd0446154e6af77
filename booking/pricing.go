/*
pricing.go - Nightly rate resolution

PURPOSE:
  Picks the nightly rate for one unit and one stay. The rate is flat across
  the stay and evaluated once against the check-in date: regular price,
  early-bird price (when the booking is far enough out), or a uniform
  special-event price for whole-property stays.

RESOLUTION ORDER:
  1. regular  = profile.RegularPrice
  2. early    = profile.EarlyBirdPrice, or regular * 0.8 when unset
  3. candidate = early when the early-bird policy is enabled, the check-in
     is at least WindowDays out, and early > 0; otherwise regular
  4. whole-property stays where EVERY night carries the same special price
     replace the candidate with that special price for the entire stay
  5. a rate that still resolves to zero is substituted with the property's
     fallback default price

ALL-OR-NOTHING SPECIAL PRICING:
  When a stay's nights carry inconsistent special prices, special pricing
  is dropped for the whole stay and the step-3 candidate applies to every
  night. A mix of per-night special prices would make the bill ambiguous;
  the conservative rule is intentional and must not be relaxed.

SEE ALSO:
  - quote.go: Multiplies resolved rates across nights and units
  - types.go: EarlyBirdFallbackFactor, UnitPriceProfile, Settings
*/
package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRICE RESOLVER
// =============================================================================

// PriceResolver computes nightly rates from price profiles, the early-bird
// policy, and event overrides. Stateless; safe for concurrent use.
type PriceResolver struct {
	Prices    PriceStore
	Overrides OverrideStore
}

// ResolvedRate is the outcome of rate resolution for one unit and stay.
type ResolvedRate struct {
	Unit    UnitID
	Nightly decimal.Decimal
	// EarlyBird is true when the early-bird rate was selected.
	EarlyBird bool
	// SpecialPrice is true when a uniform event special price replaced the
	// regular/early-bird candidate.
	SpecialPrice bool
	Warnings     []string
}

// Resolve returns the flat nightly rate for one unit across the stay,
// evaluated as of `now` against the property settings.
func (r *PriceResolver) Resolve(ctx context.Context, unit UnitID, stay StayRange, now DateKey, wholeProperty bool, settings Settings) (ResolvedRate, error) {
	profile, _, err := r.Prices.GetProfile(ctx, unit)
	if err != nil {
		return ResolvedRate{}, err
	}
	// A missing profile behaves as an all-zero profile; step 5 substitutes
	// the property default.

	resolved := ResolvedRate{Unit: unit, Nightly: profile.RegularPrice}

	early := profile.EarlyBird()
	if settings.EarlyBird.Qualifies(now, stay.Checkin) && early.IsPositive() {
		resolved.Nightly = early
		resolved.EarlyBird = true
	}

	if wholeProperty {
		special, ok, err := r.uniformSpecialPrice(ctx, stay)
		if err != nil {
			return ResolvedRate{}, err
		}
		if ok {
			resolved.Nightly = special
			resolved.EarlyBird = false
			resolved.SpecialPrice = true
		} else if hasAny, err := r.anySpecialPrice(ctx, stay); err != nil {
			return ResolvedRate{}, err
		} else if hasAny {
			resolved.Warnings = append(resolved.Warnings,
				"special pricing ignored: nights carry inconsistent special prices")
		}
	}

	if !resolved.Nightly.IsPositive() {
		resolved.Nightly = settings.DefaultPrice
		resolved.EarlyBird = false
		resolved.SpecialPrice = false
	}
	return resolved, nil
}

// uniformSpecialPrice returns the special price shared by EVERY night of the
// stay. ok is false when any night lacks a special price or when prices
// differ between nights.
func (r *PriceResolver) uniformSpecialPrice(ctx context.Context, stay StayRange) (decimal.Decimal, bool, error) {
	var price decimal.Decimal
	seen := 0
	for _, date := range stay.Dates() {
		ov, ok, err := r.Overrides.GetOverride(ctx, date)
		if err != nil {
			return decimal.Zero, false, err
		}
		if !ok || !ov.HasSpecialPrice {
			return decimal.Zero, false, nil
		}
		if seen == 0 {
			price = ov.SpecialPrice
		} else if !ov.SpecialPrice.Equal(price) {
			return decimal.Zero, false, nil
		}
		seen++
	}
	return price, seen == stay.Nights() && seen > 0, nil
}

// anySpecialPrice reports whether at least one night of the stay carries a
// special price. Used only to attach the dropped-special-pricing warning.
func (r *PriceResolver) anySpecialPrice(ctx context.Context, stay StayRange) (bool, error) {
	iter, err := r.Overrides.ListOverrides(ctx, stay)
	if err != nil {
		return false, err
	}
	// Drain the iterator even after a hit: store-backed iterators release
	// their underlying cursor only on exhaustion, and the sqlite store has a
	// single connection to give.
	found := false
	for iter.Next() {
		if iter.Override().HasSpecialPrice {
			found = true
		}
	}
	return found, iter.Err()
}
