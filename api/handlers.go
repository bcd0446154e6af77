/*
handlers.go - HTTP API handlers for the booking engine

PURPOSE:
  Exposes the availability and pricing engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Quotes & calendar:
    POST   /api/quotes                Compute a quote
    GET    /api/calendar              Calendar view (from, to, units)

  Bookings:
    POST   /api/bookings              Confirm a booking
    GET    /api/bookings              List confirmed bookings
    GET    /api/bookings/{id}         Get one booking

  Units & prices:
    GET    /api/units                 List units
    POST   /api/units                 Create unit
    GET    /api/units/{id}/prices     Get price profile
    PUT    /api/units/{id}/prices     Set price profile

  Overrides & settings:
    GET    /api/overrides             List overrides in range
    PUT    /api/overrides/{date}      Set override
    DELETE /api/overrides/{date}      Remove override
    GET    /api/settings              Get settings
    PUT    /api/settings              Update settings

  Admin:
    POST   /api/admin/status          Manual cell status override

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid ranges, unknown units, malformed input
  - 404: Missing booking/unit
  - 409: Availability or private-event conflicts
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *booking.Engine
	Log    *zap.Logger
}

// NewHandler creates a handler around an engine.
func NewHandler(engine *booking.Engine, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Engine: engine, Log: log}
}

// =============================================================================
// QUOTES & CALENDAR
// =============================================================================

// ComputeQuote prices a candidate booking.
func (h *Handler) ComputeQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sel, checkin, checkout, err := parseSelection(req.Units, req.WholeProperty, req.Checkin, req.Checkout)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	deposit := booking.DepositPercentDefault
	if req.DepositPercent != nil {
		deposit = *req.DepositPercent
	}

	quote, err := h.Engine.ComputeQuote(r.Context(), sel, checkin, checkout, deposit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteDTO(quote))
}

// Calendar returns the aggregate day statuses for a range.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := booking.ParseDateKey(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'from' date", err)
		return
	}
	to, err := booking.ParseDateKey(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'to' date", err)
		return
	}

	var units []booking.UnitID
	for _, u := range q["unit"] {
		units = append(units, booking.UnitID(u))
	}

	view, err := h.Engine.CalendarView(r.Context(), units, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarDTO(view))
}

// =============================================================================
// BOOKINGS
// =============================================================================

// ConfirmBooking claims the cells and records the booking.
func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sel, checkin, checkout, err := parseSelection(req.Units, req.WholeProperty, req.Checkin, req.Checkout)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err)
		return
	}

	id, err := h.Engine.ConfirmBooking(r.Context(), sel, checkin, checkout)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	record, err := h.Engine.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingDTO(record))
}

// ListBookings returns all confirmed bookings.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.Bookings.ListBookings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]BookingDTO, len(records))
	for i, b := range records {
		dtos[i] = bookingDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBooking returns one confirmed booking.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := booking.BookingID(chi.URLParam(r, "id"))
	record, err := h.Engine.Bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingDTO(record))
}

// =============================================================================
// UNITS & PRICES
// =============================================================================

// ListUnits returns the known unit set.
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Engine.Units.ListUnits(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = UnitDTO{ID: string(u.ID), Name: u.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateUnit creates or renames a unit.
func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "unit id required", nil)
		return
	}

	u := booking.Unit{ID: booking.UnitID(req.ID), Name: req.Name}
	if err := h.Engine.Units.PutUnit(r.Context(), u); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UnitDTO{ID: req.ID, Name: req.Name})
}

// GetPriceProfile returns a unit's price profile.
func (h *Handler) GetPriceProfile(w http.ResponseWriter, r *http.Request) {
	id := booking.UnitID(chi.URLParam(r, "id"))
	if _, ok, err := h.Engine.Units.GetUnit(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	} else if !ok {
		writeError(w, http.StatusNotFound, "unit not found", nil)
		return
	}

	profile, ok, err := h.Engine.Prices.GetProfile(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dto := PriceProfileDTO{Unit: string(id)}
	if ok {
		dto.RegularPrice = profile.RegularPrice.String()
		if profile.EarlyBirdPrice.IsPositive() {
			dto.EarlyBirdPrice = profile.EarlyBirdPrice.String()
		}
	} else {
		dto.RegularPrice = "0"
	}
	writeJSON(w, http.StatusOK, dto)
}

// SetPriceProfile replaces a unit's price profile.
func (h *Handler) SetPriceProfile(w http.ResponseWriter, r *http.Request) {
	id := booking.UnitID(chi.URLParam(r, "id"))
	if _, ok, err := h.Engine.Units.GetUnit(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	} else if !ok {
		writeError(w, http.StatusNotFound, "unit not found", nil)
		return
	}

	var req SetPriceProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	regular, err := decimal.NewFromString(req.RegularPrice)
	if err != nil || regular.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid regular_price", err)
		return
	}
	early := decimal.Zero
	if req.EarlyBirdPrice != "" {
		early, err = decimal.NewFromString(req.EarlyBirdPrice)
		if err != nil || early.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid early_bird_price", err)
			return
		}
	}

	profile := booking.UnitPriceProfile{Unit: id, RegularPrice: regular, EarlyBirdPrice: early}
	if err := h.Engine.Prices.SetProfile(r.Context(), profile); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OVERRIDES & SETTINGS
// =============================================================================

// ListOverrides returns the special-day records in a range.
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := booking.ParseDateKey(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'from' date", err)
		return
	}
	to, err := booking.ParseDateKey(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'to' date", err)
		return
	}
	stay, err := booking.NewStayRange(from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	iter, err := h.Engine.Overrides.ListOverrides(r.Context(), stay)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := []OverrideDTO{}
	for iter.Next() {
		ov := iter.Override()
		dto := OverrideDTO{
			Date:            iter.Date().String(),
			IsPrivate:       ov.IsPrivate,
			HasSpecialPrice: ov.HasSpecialPrice,
			Name:            ov.Name,
		}
		if ov.HasSpecialPrice {
			dto.SpecialPrice = ov.SpecialPrice.String()
		}
		dtos = append(dtos, dto)
	}
	if err := iter.Err(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetOverride creates or replaces the special-day record for a date.
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	date, err := booking.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	var req SetOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ov := booking.EventOverride{
		IsPrivate:       req.IsPrivate,
		HasSpecialPrice: req.HasSpecialPrice,
		Name:            req.Name,
	}
	if req.HasSpecialPrice {
		price, err := decimal.NewFromString(req.SpecialPrice)
		if err != nil || price.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid special_price", err)
			return
		}
		ov.SpecialPrice = price
	}

	if err := h.Engine.Overrides.SetOverride(r.Context(), date, ov); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveOverride deletes the special-day record for a date.
func (h *Handler) RemoveOverride(w http.ResponseWriter, r *http.Request) {
	date, err := booking.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	if err := h.Engine.Overrides.RemoveOverride(r.Context(), date); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings returns the property settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Engine.Settings.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsDTO(settings))
}

// UpdateSettings replaces the property settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	price, err := decimal.NewFromString(req.DefaultPrice)
	if err != nil || price.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid default_price", err)
		return
	}
	if req.DepositPercent < 0 || req.DepositPercent > 100 {
		writeError(w, http.StatusBadRequest, "deposit_percent must be 0-100", nil)
		return
	}
	if req.EarlyBirdWindowDays < 0 {
		writeError(w, http.StatusBadRequest, "early_bird_window_days must be >= 0", nil)
		return
	}

	settings := booking.Settings{
		Currency:       req.Currency,
		DefaultPrice:   price,
		DepositPercent: req.DepositPercent,
		EarlyBird: booking.EarlyBirdPolicy{
			Enabled:    req.EarlyBirdEnabled,
			WindowDays: req.EarlyBirdWindowDays,
		},
	}
	if err := h.Engine.Settings.PutSettings(r.Context(), settings); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN
// =============================================================================

// SetStatus manually overrides cell statuses (operator action).
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	status, valid := booking.CoerceStatus(req.Status)
	if !valid {
		writeError(w, http.StatusBadRequest, "unknown status", nil)
		return
	}
	if len(req.Units) == 0 {
		writeError(w, http.StatusBadRequest, "at least one unit required", nil)
		return
	}

	units := make([]booking.UnitID, len(req.Units))
	for i, u := range req.Units {
		units[i] = booking.UnitID(u)
	}

	// Single-cell form.
	if req.Date != "" {
		date, err := booking.ParseDateKey(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err)
			return
		}
		for _, u := range units {
			if err := h.Engine.Statuses.SetStatus(r.Context(), u, date, status, req.Meta); err != nil {
				writeDomainError(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	from, err := booking.ParseDateKey(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'from' date", err)
		return
	}
	to, err := booking.ParseDateKey(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'to' date", err)
		return
	}
	stay, err := booking.NewStayRange(from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Engine.Statuses.BulkSetStatus(r.Context(), units, stay, status, req.Meta); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseSelection(units []string, wholeProperty bool, checkinStr, checkoutStr string) (booking.Selection, booking.DateKey, booking.DateKey, error) {
	checkin, err := booking.ParseDateKey(checkinStr)
	if err != nil {
		return booking.Selection{}, booking.DateKey{}, booking.DateKey{}, err
	}
	checkout, err := booking.ParseDateKey(checkoutStr)
	if err != nil {
		return booking.Selection{}, booking.DateKey{}, booking.DateKey{}, err
	}

	sel := booking.Selection{WholeProperty: wholeProperty}
	if !wholeProperty {
		sel.Units = make([]booking.UnitID, len(units))
		for i, u := range units {
			sel.Units[i] = booking.UnitID(u)
		}
	}
	return sel, checkin, checkout, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	dto := ErrorDTO{Error: msg}
	if err != nil {
		dto.Detail = err.Error()
	}
	writeJSON(w, status, dto)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var unavailable *booking.UnavailabilityError
	if errors.As(err, &unavailable) {
		writeJSON(w, http.StatusConflict, ErrorDTO{
			Error:     "requested cells unavailable",
			Conflicts: unavailable.Conflicts,
		})
		return
	}

	var private *booking.PrivateEventConflictError
	if errors.As(err, &private) {
		dates := make([]string, len(private.Dates))
		for i, d := range private.Dates {
			dates[i] = d.String()
		}
		writeJSON(w, http.StatusConflict, ErrorDTO{
			Error: "private event conflict",
			Dates: dates,
		})
		return
	}

	switch {
	case booking.IsClientError(err):
		writeError(w, http.StatusBadRequest, "invalid request", err)
	case booking.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, booking.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
