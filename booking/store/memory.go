// Package store provides in-memory implementations of the booking store
// interfaces, used for tests and local development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
	"go.uber.org/zap"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements every booking store interface with plain maps.
//
// Two locks: mu guards the status cells only, recMu guards everything else.
// WithTx holds mu across the whole transaction body, and that body still
// reads overrides through the same store, so overrides must not share the
// cell lock.
type Memory struct {
	mu       sync.RWMutex
	cells    map[cellKey]booking.CellStatus
	cellMeta map[cellKey]map[string]string

	recMu     sync.RWMutex
	overrides map[booking.DateKey]booking.EventOverride
	profiles  map[booking.UnitID]booking.UnitPriceProfile
	units     map[booking.UnitID]booking.Unit
	settings  booking.Settings
	bookings  []booking.Booking

	log *zap.Logger
}

type cellKey struct {
	Unit booking.UnitID
	Date booking.DateKey
}

// NewMemory creates an empty in-memory store with default settings.
func NewMemory() *Memory {
	return &Memory{
		cells:     make(map[cellKey]booking.CellStatus),
		cellMeta:  make(map[cellKey]map[string]string),
		overrides: make(map[booking.DateKey]booking.EventOverride),
		profiles:  make(map[booking.UnitID]booking.UnitPriceProfile),
		units:     make(map[booking.UnitID]booking.Unit),
		settings:  booking.DefaultSettings(),
		log:       zap.NewNop(),
	}
}

// WithLogger attaches a logger for status coercion warnings.
func (m *Memory) WithLogger(log *zap.Logger) *Memory {
	m.log = log
	return m
}

// =============================================================================
// STATUS STORE
// =============================================================================

func (m *Memory) GetStatus(_ context.Context, unit booking.UnitID, date booking.DateKey) (booking.CellStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getStatusLocked(unit, date), nil
}

func (m *Memory) getStatusLocked(unit booking.UnitID, date booking.DateKey) booking.CellStatus {
	status, ok := m.cells[cellKey{Unit: unit, Date: date}]
	if !ok {
		return booking.StatusFree
	}
	coerced, valid := booking.CoerceStatus(string(status))
	if !valid {
		m.log.Warn("coerced unrecognized cell status to free",
			zap.String("unit", string(unit)),
			zap.String("date", date.String()),
			zap.String("raw", string(status)))
	}
	return coerced
}

func (m *Memory) SetStatus(_ context.Context, unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setStatusLocked(unit, date, status, metadata)
	return nil
}

func (m *Memory) setStatusLocked(unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) {
	k := cellKey{Unit: unit, Date: date}
	if status == booking.StatusFree {
		// Resetting to free is the same as removing the cell.
		delete(m.cells, k)
		delete(m.cellMeta, k)
		return
	}
	m.cells[k] = status
	if metadata != nil {
		copied := make(map[string]string, len(metadata))
		for mk, mv := range metadata {
			copied[mk] = mv
		}
		m.cellMeta[k] = copied
	}
}

func (m *Memory) BulkSetStatus(_ context.Context, units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bulkSetLocked(units, stay, status, metadata)
}

func (m *Memory) bulkSetLocked(units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	if !stay.Checkout.After(stay.Checkin) {
		return &booking.InvalidRangeError{Start: stay.Checkin, End: stay.Checkout}
	}
	// Map writes cannot fail, so writing each cell in turn under the lock is
	// already all-or-nothing.
	for _, u := range units {
		for _, date := range stay.Dates() {
			m.setStatusLocked(u, date, status, metadata)
		}
	}
	return nil
}

// SeedRawStatus writes a raw status string without validation, bypassing the
// typed API. Used to simulate corrupted historical rows in tests.
func (m *Memory) SeedRawStatus(unit booking.UnitID, date booking.DateKey, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[cellKey{Unit: unit, Date: date}] = booking.CellStatus(raw)
}

// =============================================================================
// TRANSACTIONAL VIEW - snapshot + rollback
// =============================================================================

// WithTx runs fn holding the store lock. On error the pre-transaction
// snapshot is restored, so fn's writes never partially land.
func (m *Memory) WithTx(ctx context.Context, fn func(booking.StatusStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(&txMemoryView{parent: m}); err != nil {
		m.restoreLocked(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	cells    map[cellKey]booking.CellStatus
	cellMeta map[cellKey]map[string]string
}

func (m *Memory) snapshotLocked() memorySnapshot {
	cells := make(map[cellKey]booking.CellStatus, len(m.cells))
	for k, v := range m.cells {
		cells[k] = v
	}
	meta := make(map[cellKey]map[string]string, len(m.cellMeta))
	for k, v := range m.cellMeta {
		meta[k] = v
	}
	return memorySnapshot{cells: cells, cellMeta: meta}
}

func (m *Memory) restoreLocked(s memorySnapshot) {
	m.cells = s.cells
	m.cellMeta = s.cellMeta
}

type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) GetStatus(_ context.Context, unit booking.UnitID, date booking.DateKey) (booking.CellStatus, error) {
	return tv.parent.getStatusLocked(unit, date), nil
}

func (tv *txMemoryView) SetStatus(_ context.Context, unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) error {
	tv.parent.setStatusLocked(unit, date, status, metadata)
	return nil
}

func (tv *txMemoryView) BulkSetStatus(_ context.Context, units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	return tv.parent.bulkSetLocked(units, stay, status, metadata)
}

// =============================================================================
// OVERRIDE STORE
// =============================================================================

func (m *Memory) GetOverride(_ context.Context, date booking.DateKey) (booking.EventOverride, bool, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	ov, ok := m.overrides[date]
	return ov, ok, nil
}

func (m *Memory) SetOverride(_ context.Context, date booking.DateKey, ov booking.EventOverride) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	m.overrides[date] = ov
	return nil
}

func (m *Memory) RemoveOverride(_ context.Context, date booking.DateKey) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	delete(m.overrides, date)
	return nil
}

func (m *Memory) ListOverrides(_ context.Context, stay booking.StayRange) (booking.OverrideIter, error) {
	if !stay.Checkout.After(stay.Checkin) {
		return nil, &booking.InvalidRangeError{Start: stay.Checkin, End: stay.Checkout}
	}

	m.recMu.RLock()
	defer m.recMu.RUnlock()

	var dates []booking.DateKey
	for d := range m.overrides {
		if stay.Contains(d) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	items := make([]overrideItem, len(dates))
	for i, d := range dates {
		items[i] = overrideItem{date: d, ov: m.overrides[d]}
	}
	return &sliceOverrideIter{items: items, pos: -1}, nil
}

type overrideItem struct {
	date booking.DateKey
	ov   booking.EventOverride
}

// sliceOverrideIter iterates a pre-sorted override snapshot. Each
// ListOverrides call returns a fresh iterator, which is what makes the
// sequence restartable.
type sliceOverrideIter struct {
	items []overrideItem
	pos   int
}

func (it *sliceOverrideIter) Next() bool {
	if it.pos+1 >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceOverrideIter) Date() booking.DateKey           { return it.items[it.pos].date }
func (it *sliceOverrideIter) Override() booking.EventOverride { return it.items[it.pos].ov }
func (it *sliceOverrideIter) Err() error                      { return nil }

// =============================================================================
// PRICE / UNIT / SETTINGS / BOOKING STORES
// =============================================================================

func (m *Memory) GetProfile(_ context.Context, unit booking.UnitID) (booking.UnitPriceProfile, bool, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	p, ok := m.profiles[unit]
	return p, ok, nil
}

func (m *Memory) SetProfile(_ context.Context, profile booking.UnitPriceProfile) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	m.profiles[profile.Unit] = profile
	return nil
}

func (m *Memory) ListUnits(_ context.Context) ([]booking.Unit, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	units := make([]booking.Unit, 0, len(m.units))
	for _, u := range m.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

func (m *Memory) GetUnit(_ context.Context, id booking.UnitID) (booking.Unit, bool, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	u, ok := m.units[id]
	return u, ok, nil
}

func (m *Memory) PutUnit(_ context.Context, u booking.Unit) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	m.units[u.ID] = u
	return nil
}

func (m *Memory) GetSettings(_ context.Context) (booking.Settings, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	return m.settings, nil
}

func (m *Memory) PutSettings(_ context.Context, s booking.Settings) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	m.settings = s
	return nil
}

func (m *Memory) AppendBooking(_ context.Context, b booking.Booking) error {
	m.recMu.Lock()
	defer m.recMu.Unlock()
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *Memory) GetBooking(_ context.Context, id booking.BookingID) (booking.Booking, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return booking.Booking{}, booking.ErrBookingNotFound
}

func (m *Memory) ListBookings(_ context.Context) ([]booking.Booking, error) {
	m.recMu.RLock()
	defer m.recMu.RUnlock()
	out := make([]booking.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

// Compile-time interface checks.
var (
	_ booking.TxStatusStore = (*Memory)(nil)
	_ booking.OverrideStore = (*Memory)(nil)
	_ booking.PriceStore    = (*Memory)(nil)
	_ booking.UnitStore     = (*Memory)(nil)
	_ booking.SettingsStore = (*Memory)(nil)
	_ booking.BookingStore  = (*Memory)(nil)
)
