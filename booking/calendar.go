package booking

import "context"

// =============================================================================
// CALENDAR VIEW - Aggregate status map for rendering
// =============================================================================

// CalendarView maps each date of a range to its resolved day summary.
// Ordered access goes through Days; the map is for point lookups.
type CalendarView struct {
	Range StayRange
	Days  []DaySummary
}

// Get returns the summary for a date within the view.
func (v CalendarView) Get(d DateKey) (DaySummary, bool) {
	if !v.Range.Contains(d) {
		return DaySummary{}, false
	}
	return v.Days[DaysBetween(v.Range.Checkin, d)], true
}

// BuildCalendarView resolves every date of the range across the unit set.
// An empty unit list means the property's full unit set.
func BuildCalendarView(ctx context.Context, resolver *AvailabilityResolver, units []UnitID, from, to DateKey) (CalendarView, error) {
	r, err := NewStayRange(from, to)
	if err != nil {
		return CalendarView{}, err
	}
	if len(units) == 0 {
		all, err := resolver.Units.ListUnits(ctx)
		if err != nil {
			return CalendarView{}, err
		}
		units = make([]UnitID, len(all))
		for i, u := range all {
			units[i] = u.ID
		}
	}
	days, err := resolver.ResolveRange(ctx, units, r)
	if err != nil {
		return CalendarView{}, err
	}
	return CalendarView{Range: r, Days: days}, nil
}
