/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: prices travel
  as decimal strings, dates as YYYY-MM-DD.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
)

// =============================================================================
// QUOTE
// =============================================================================

// QuoteRequest asks for a priced quote for a candidate booking.
type QuoteRequest struct {
	Units          []string `json:"units,omitempty"`
	WholeProperty  bool     `json:"whole_property,omitempty"`
	Checkin        string   `json:"checkin"`
	Checkout       string   `json:"checkout"`
	DepositPercent *int     `json:"deposit_percent,omitempty"`
}

// NightRateDTO is one per-night breakdown line.
type NightRateDTO struct {
	Date string `json:"date"`
	Unit string `json:"unit"`
	Rate string `json:"rate"`
}

// QuoteDTO is the priced outcome of a quote request.
type QuoteDTO struct {
	Checkin          string         `json:"checkin"`
	Checkout         string         `json:"checkout"`
	Nights           int            `json:"nights"`
	Breakdown        []NightRateDTO `json:"breakdown"`
	Subtotal         string         `json:"subtotal"`
	DepositPercent   int            `json:"deposit_percent"`
	DepositAmount    string         `json:"deposit_amount"`
	RemainingBalance string         `json:"remaining_balance"`
	Currency         string         `json:"currency"`
	Warnings         []string       `json:"warnings,omitempty"`
}

func quoteDTO(q booking.Quote) QuoteDTO {
	breakdown := make([]NightRateDTO, len(q.Breakdown))
	for i, line := range q.Breakdown {
		breakdown[i] = NightRateDTO{
			Date: line.Date.String(),
			Unit: string(line.Unit),
			Rate: line.Rate.String(),
		}
	}
	return QuoteDTO{
		Checkin:          q.Stay.Checkin.String(),
		Checkout:         q.Stay.Checkout.String(),
		Nights:           q.Stay.Nights(),
		Breakdown:        breakdown,
		Subtotal:         q.Subtotal.String(),
		DepositPercent:   q.DepositPercent,
		DepositAmount:    q.DepositAmount.String(),
		RemainingBalance: q.RemainingBalance.String(),
		Currency:         q.Currency,
		Warnings:         q.Warnings,
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

// DayDTO is one calendar day in a calendar response.
type DayDTO struct {
	Date            string            `json:"date"`
	AggregateStatus string            `json:"aggregate_status"`
	Badges          []string          `json:"badges,omitempty"`
	SpecialPrice    string            `json:"special_price,omitempty"`
	EventName       string            `json:"event_name,omitempty"`
	PerUnit         map[string]string `json:"per_unit,omitempty"`
}

// CalendarDTO maps dates to day summaries.
type CalendarDTO struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Days []DayDTO `json:"days"`
}

func calendarDTO(view booking.CalendarView) CalendarDTO {
	days := make([]DayDTO, len(view.Days))
	for i, day := range view.Days {
		badges := make([]string, len(day.Badges))
		for j, b := range day.Badges {
			badges[j] = string(b)
		}
		perUnit := make(map[string]string, len(day.PerUnit))
		for u, s := range day.PerUnit {
			perUnit[string(u)] = string(s)
		}
		dto := DayDTO{
			Date:            day.Date.String(),
			AggregateStatus: string(day.Aggregate),
			Badges:          badges,
			PerUnit:         perUnit,
		}
		if day.Override != nil {
			dto.EventName = day.Override.Name
			if day.Override.HasSpecialPrice {
				dto.SpecialPrice = day.Override.SpecialPrice.String()
			}
		}
		days[i] = dto
	}
	return CalendarDTO{
		From: view.Range.Checkin.String(),
		To:   view.Range.Checkout.String(),
		Days: days,
	}
}

// =============================================================================
// BOOKINGS
// =============================================================================

// ConfirmBookingRequest confirms a candidate booking.
type ConfirmBookingRequest struct {
	Units         []string `json:"units,omitempty"`
	WholeProperty bool     `json:"whole_property,omitempty"`
	Checkin       string   `json:"checkin"`
	Checkout      string   `json:"checkout"`
}

// BookingDTO is a confirmed booking in API responses.
type BookingDTO struct {
	ID            string   `json:"id"`
	Units         []string `json:"units"`
	WholeProperty bool     `json:"whole_property"`
	Checkin       string   `json:"checkin"`
	Checkout      string   `json:"checkout"`
	Subtotal      string   `json:"subtotal"`
	Deposit       string   `json:"deposit"`
	Currency      string   `json:"currency"`
	CreatedAt     string   `json:"created_at"`
}

func bookingDTO(b booking.Booking) BookingDTO {
	units := make([]string, len(b.Units))
	for i, u := range b.Units {
		units[i] = string(u)
	}
	return BookingDTO{
		ID:            string(b.ID),
		Units:         units,
		WholeProperty: b.WholeProperty,
		Checkin:       b.Stay.Checkin.String(),
		Checkout:      b.Stay.Checkout.String(),
		Subtotal:      b.Subtotal.String(),
		Deposit:       b.Deposit.String(),
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt.String(),
	}
}

// =============================================================================
// UNITS & PRICES
// =============================================================================

// UnitDTO represents a bookable unit.
type UnitDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateUnitRequest creates or renames a unit.
type CreateUnitRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PriceProfileDTO is a unit's price profile. EarlyBirdPrice is empty when
// the fallback discount applies.
type PriceProfileDTO struct {
	Unit           string `json:"unit"`
	RegularPrice   string `json:"regular_price"`
	EarlyBirdPrice string `json:"early_bird_price,omitempty"`
}

// SetPriceProfileRequest replaces a unit's price profile.
type SetPriceProfileRequest struct {
	RegularPrice   string `json:"regular_price"`
	EarlyBirdPrice string `json:"early_bird_price,omitempty"`
}

// =============================================================================
// OVERRIDES & SETTINGS
// =============================================================================

// OverrideDTO is one special-day record.
type OverrideDTO struct {
	Date            string `json:"date"`
	IsPrivate       bool   `json:"is_private"`
	HasSpecialPrice bool   `json:"has_special_price"`
	SpecialPrice    string `json:"special_price,omitempty"`
	Name            string `json:"name,omitempty"`
}

// SetOverrideRequest creates or replaces a special-day record.
type SetOverrideRequest struct {
	IsPrivate       bool   `json:"is_private"`
	HasSpecialPrice bool   `json:"has_special_price"`
	SpecialPrice    string `json:"special_price,omitempty"`
	Name            string `json:"name,omitempty"`
}

// SettingsDTO is the property-wide configuration.
type SettingsDTO struct {
	Currency            string `json:"currency"`
	DefaultPrice        string `json:"default_price"`
	DepositPercent      int    `json:"deposit_percent"`
	EarlyBirdEnabled    bool   `json:"early_bird_enabled"`
	EarlyBirdWindowDays int    `json:"early_bird_window_days"`
}

func settingsDTO(s booking.Settings) SettingsDTO {
	return SettingsDTO{
		Currency:            s.Currency,
		DefaultPrice:        s.DefaultPrice.String(),
		DepositPercent:      s.DepositPercent,
		EarlyBirdEnabled:    s.EarlyBird.Enabled,
		EarlyBirdWindowDays: s.EarlyBird.WindowDays,
	}
}

// =============================================================================
// ADMIN
// =============================================================================

// SetStatusRequest manually overrides cell statuses. With both From and To
// set it spans [From, To); with only Date set it targets one cell.
type SetStatusRequest struct {
	Units  []string          `json:"units"`
	Date   string            `json:"date,omitempty"`
	From   string            `json:"from,omitempty"`
	To     string            `json:"to,omitempty"`
	Status string            `json:"status"`
	Meta   map[string]string `json:"meta,omitempty"`
}

// ErrorDTO is the uniform error envelope.
type ErrorDTO struct {
	Error     string            `json:"error"`
	Detail    string            `json:"detail,omitempty"`
	Conflicts []booking.CellRef `json:"conflicts,omitempty"`
	Dates     []string          `json:"dates,omitempty"`
}
