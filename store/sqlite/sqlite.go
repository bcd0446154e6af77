/*
Package sqlite provides a SQLite-backed implementation of the booking
storage interfaces.

PURPOSE:
  Implements every persistence interface (TxStatusStore, OverrideStore,
  PriceStore, UnitStore, SettingsStore, BookingStore) using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  status_cells:    One row per non-free (unit, date) cell
  event_overrides: At most one special-day record per date
  price_profiles:  Per-unit regular and early-bird prices
  units:           The property's known unit set
  settings:        Property-wide singleton row
  bookings:        Append-only record of confirmed bookings

CELL REPRESENTATION:
  A free cell has NO row: absence means free, and resetting a cell to free
  deletes its row. Unrecognized status strings found in historical rows are
  coerced to free on read with a logged warning.

LEGACY OVERRIDE SCHEMA:
  Older deployments stored a single `mode` string ('private'/'special')
  instead of the is_private/has_special_price booleans. Rows are normalized
  at the scan boundary so the resolvers only ever see the current shape;
  writes always use the current columns and clear `mode`.

CONCURRENCY:
  Uses sync.Mutex around write transactions. WithTx opens a database
  transaction and hands callers a view bound to it; the commit-time
  availability re-check and the bulk cell write run inside one transaction,
  so a racing booking either sees the winner's rows or none.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/booking.db", logger)
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - booking/store.go: Interface definitions
  - booking/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store implements all booking storage interfaces using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database. A nil logger is replaced with a no-op logger.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory SQLite database exists per connection; cap the pool at
	// one so every query sees the same database.
	db.SetMaxOpenConns(1)
	if log == nil {
		log = zap.NewNop()
	}

	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Availability cells: absence of a row means free
	CREATE TABLE IF NOT EXISTS status_cells (
		unit_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		metadata_json TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (unit_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_status_cells_date
		ON status_cells(date);
	CREATE INDEX IF NOT EXISTS idx_status_cells_status
		ON status_cells(status);

	-- Event overrides: at most one per date (property-wide).
	-- mode is the legacy single-string schema, normalized on read.
	CREATE TABLE IF NOT EXISTS event_overrides (
		date TEXT PRIMARY KEY,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		has_special_price BOOLEAN NOT NULL DEFAULT FALSE,
		special_price TEXT NOT NULL DEFAULT '0',
		name TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	-- Per-unit price profiles
	CREATE TABLE IF NOT EXISTS price_profiles (
		unit_id TEXT PRIMARY KEY,
		regular_price TEXT NOT NULL DEFAULT '0',
		early_bird_price TEXT NOT NULL DEFAULT '0',
		updated_at TEXT NOT NULL
	);

	-- The known unit set
	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Property-wide settings singleton
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		currency TEXT NOT NULL,
		default_price TEXT NOT NULL,
		deposit_percent INTEGER NOT NULL,
		early_bird_enabled BOOLEAN NOT NULL,
		early_bird_window_days INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Confirmed bookings (append-only)
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		units_json TEXT NOT NULL,
		whole_property BOOLEAN NOT NULL,
		checkin TEXT NOT NULL,
		checkout TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		deposit TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_checkin
		ON bookings(checkin);
	`

	_, err := s.db.Exec(schema)
	return err
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// STATUS STORE (booking.StatusStore / booking.TxStatusStore)
// =============================================================================

func (s *Store) GetStatus(ctx context.Context, unit booking.UnitID, date booking.DateKey) (booking.CellStatus, error) {
	return s.getStatus(ctx, s.db, unit, date)
}

func (s *Store) getStatus(ctx context.Context, db execer, unit booking.UnitID, date booking.DateKey) (booking.CellStatus, error) {
	var raw string
	err := db.QueryRowContext(ctx,
		`SELECT status FROM status_cells WHERE unit_id = ? AND date = ?`,
		string(unit), date.String(),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return booking.StatusFree, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cell status: %w", err)
	}

	status, valid := booking.CoerceStatus(raw)
	if !valid {
		s.log.Warn("coerced unrecognized cell status to free",
			zap.String("unit", string(unit)),
			zap.String("date", date.String()),
			zap.String("raw", raw))
	}
	return status, nil
}

func (s *Store) SetStatus(ctx context.Context, unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatus(ctx, s.db, unit, date, status, metadata)
}

func (s *Store) setStatus(ctx context.Context, db execer, unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) error {
	if status == booking.StatusFree {
		// Absence means free.
		_, err := db.ExecContext(ctx,
			`DELETE FROM status_cells WHERE unit_id = ? AND date = ?`,
			string(unit), date.String())
		if err != nil {
			return fmt.Errorf("failed to reset cell: %w", err)
		}
		return nil
	}

	metadataJSON, _ := json.Marshal(metadata)
	_, err := db.ExecContext(ctx, `
		INSERT INTO status_cells (unit_id, date, status, metadata_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(unit_id, date) DO UPDATE SET
			status = excluded.status,
			metadata_json = excluded.metadata_json,
			updated_at = excluded.updated_at`,
		string(unit), date.String(), string(status), string(metadataJSON), nowStamp())
	if err != nil {
		return fmt.Errorf("failed to write cell: %w", err)
	}
	return nil
}

// BulkSetStatus writes every cell of units x stay inside one transaction:
// either every cell lands or none do.
func (s *Store) BulkSetStatus(ctx context.Context, units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.bulkSet(ctx, tx, units, stay, status, metadata); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) bulkSet(ctx context.Context, db execer, units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	if !stay.Checkout.After(stay.Checkin) {
		return &booking.InvalidRangeError{Start: stay.Checkin, End: stay.Checkout}
	}
	for _, u := range units {
		for _, date := range stay.Dates() {
			if err := s.setStatus(ctx, db, u, date, status, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithTx runs fn against a transaction-bound status view. fn's reads and
// writes commit together or not at all; the store mutex serializes writers.
func (s *Store) WithTx(ctx context.Context, fn func(booking.StatusStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&txStatusView{store: s, tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type txStatusView struct {
	store *Store
	tx    *sql.Tx
}

func (v *txStatusView) GetStatus(ctx context.Context, unit booking.UnitID, date booking.DateKey) (booking.CellStatus, error) {
	return v.store.getStatus(ctx, v.tx, unit, date)
}

func (v *txStatusView) SetStatus(ctx context.Context, unit booking.UnitID, date booking.DateKey, status booking.CellStatus, metadata map[string]string) error {
	return v.store.setStatus(ctx, v.tx, unit, date, status, metadata)
}

func (v *txStatusView) BulkSetStatus(ctx context.Context, units []booking.UnitID, stay booking.StayRange, status booking.CellStatus, metadata map[string]string) error {
	return v.store.bulkSet(ctx, v.tx, units, stay, status, metadata)
}

// =============================================================================
// OVERRIDE STORE (booking.OverrideStore)
// =============================================================================

func (s *Store) GetOverride(ctx context.Context, date booking.DateKey) (booking.EventOverride, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT is_private, has_special_price, special_price, name, mode
		FROM event_overrides WHERE date = ?`, date.String())

	ov, err := s.scanOverride(row, date)
	if err == sql.ErrNoRows {
		return booking.EventOverride{}, false, nil
	}
	if err != nil {
		return booking.EventOverride{}, false, err
	}
	return ov, true, nil
}

// scanOverride reads one override row and normalizes the legacy mode schema
// into the current shape.
func (s *Store) scanOverride(row rowScanner, date booking.DateKey) (booking.EventOverride, error) {
	var (
		isPrivate  bool
		hasSpecial bool
		priceStr   string
		name       string
		mode       string
	)
	if err := row.Scan(&isPrivate, &hasSpecial, &priceStr, &name, &mode); err != nil {
		return booking.EventOverride{}, err
	}
	return s.normalizeOverride(date, isPrivate, hasSpecial, priceStr, name, mode), nil
}

func (s *Store) normalizeOverride(date booking.DateKey, isPrivate, hasSpecial bool, priceStr, name, mode string) booking.EventOverride {
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		s.log.Warn("unparseable special price, treating as zero",
			zap.String("date", date.String()),
			zap.String("raw", priceStr))
		price = decimal.Zero
	}

	ov := booking.EventOverride{
		IsPrivate:       isPrivate,
		HasSpecialPrice: hasSpecial,
		SpecialPrice:    price,
		Name:            name,
	}

	// Legacy rows carry mode instead of the booleans.
	switch mode {
	case "private":
		ov.IsPrivate = true
	case "special":
		ov.HasSpecialPrice = true
	}
	if !ov.HasSpecialPrice {
		ov.SpecialPrice = decimal.Zero
	}
	return ov
}

func (s *Store) SetOverride(ctx context.Context, date booking.DateKey, ov booking.EventOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_overrides (date, is_private, has_special_price, special_price, name, mode, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?)
		ON CONFLICT(date) DO UPDATE SET
			is_private = excluded.is_private,
			has_special_price = excluded.has_special_price,
			special_price = excluded.special_price,
			name = excluded.name,
			mode = '',
			updated_at = excluded.updated_at`,
		date.String(), ov.IsPrivate, ov.HasSpecialPrice, ov.SpecialPrice.String(), ov.Name, nowStamp())
	if err != nil {
		return fmt.Errorf("failed to write override: %w", err)
	}
	return nil
}

func (s *Store) RemoveOverride(ctx context.Context, date booking.DateKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM event_overrides WHERE date = ?`, date.String())
	if err != nil {
		return fmt.Errorf("failed to remove override: %w", err)
	}
	return nil
}

func (s *Store) ListOverrides(ctx context.Context, stay booking.StayRange) (booking.OverrideIter, error) {
	if !stay.Checkout.After(stay.Checkin) {
		return nil, &booking.InvalidRangeError{Start: stay.Checkin, End: stay.Checkout}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, is_private, has_special_price, special_price, name, mode
		FROM event_overrides
		WHERE date >= ? AND date < ?
		ORDER BY date ASC`,
		stay.Checkin.String(), stay.Checkout.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return &rowOverrideIter{store: s, rows: rows}, nil
}

// rowOverrideIter walks the result set lazily. Restart by calling
// ListOverrides again.
type rowOverrideIter struct {
	store *Store
	rows  *sql.Rows
	date  booking.DateKey
	ov    booking.EventOverride
	err   error
	done  bool
}

func (it *rowOverrideIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		it.rows.Close()
		it.done = true
		return false
	}

	var dateStr string
	var isPrivate, hasSpecial bool
	var priceStr, name, mode string
	if err := it.rows.Scan(&dateStr, &isPrivate, &hasSpecial, &priceStr, &name, &mode); err != nil {
		it.fail(err)
		return false
	}

	date, err := booking.ParseDateKey(dateStr)
	if err != nil {
		it.fail(err)
		return false
	}

	it.date = date
	it.ov = it.store.normalizeOverride(date, isPrivate, hasSpecial, priceStr, name, mode)
	return true
}

func (it *rowOverrideIter) fail(err error) {
	it.err = err
	it.rows.Close()
	it.done = true
}

func (it *rowOverrideIter) Date() booking.DateKey           { return it.date }
func (it *rowOverrideIter) Override() booking.EventOverride { return it.ov }
func (it *rowOverrideIter) Err() error                      { return it.err }

// =============================================================================
// PRICE STORE (booking.PriceStore)
// =============================================================================

func (s *Store) GetProfile(ctx context.Context, unit booking.UnitID) (booking.UnitPriceProfile, bool, error) {
	var regularStr, earlyStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT regular_price, early_bird_price
		FROM price_profiles WHERE unit_id = ?`, string(unit),
	).Scan(&regularStr, &earlyStr)
	if err == sql.ErrNoRows {
		return booking.UnitPriceProfile{}, false, nil
	}
	if err != nil {
		return booking.UnitPriceProfile{}, false, fmt.Errorf("failed to read price profile: %w", err)
	}

	regular, err := decimal.NewFromString(regularStr)
	if err != nil {
		regular = decimal.Zero
	}
	early, err := decimal.NewFromString(earlyStr)
	if err != nil {
		early = decimal.Zero
	}
	return booking.UnitPriceProfile{Unit: unit, RegularPrice: regular, EarlyBirdPrice: early}, true, nil
}

func (s *Store) SetProfile(ctx context.Context, profile booking.UnitPriceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO price_profiles (unit_id, regular_price, early_bird_price, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
			regular_price = excluded.regular_price,
			early_bird_price = excluded.early_bird_price,
			updated_at = excluded.updated_at`,
		string(profile.Unit), profile.RegularPrice.String(), profile.EarlyBirdPrice.String(), nowStamp())
	if err != nil {
		return fmt.Errorf("failed to write price profile: %w", err)
	}
	return nil
}

// =============================================================================
// UNIT STORE (booking.UnitStore)
// =============================================================================

func (s *Store) ListUnits(ctx context.Context) ([]booking.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM units ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []booking.Unit
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		units = append(units, booking.Unit{ID: booking.UnitID(id), Name: name})
	}
	return units, rows.Err()
}

func (s *Store) GetUnit(ctx context.Context, id booking.UnitID) (booking.Unit, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM units WHERE id = ?`, string(id)).Scan(&name)
	if err == sql.ErrNoRows {
		return booking.Unit{}, false, nil
	}
	if err != nil {
		return booking.Unit{}, false, fmt.Errorf("failed to read unit: %w", err)
	}
	return booking.Unit{ID: id, Name: name}, true, nil
}

func (s *Store) PutUnit(ctx context.Context, u booking.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO units (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		string(u.ID), u.Name, nowStamp())
	if err != nil {
		return fmt.Errorf("failed to write unit: %w", err)
	}
	return nil
}

// =============================================================================
// SETTINGS STORE (booking.SettingsStore)
// =============================================================================

// HasSettings reports whether a settings row has been written yet.
func (s *Store) HasSettings(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check settings: %w", err)
	}
	return n > 0, nil
}

func (s *Store) GetSettings(ctx context.Context) (booking.Settings, error) {
	var (
		currency     string
		defaultPrice string
		depositPct   int
		ebEnabled    bool
		ebWindow     int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT currency, default_price, deposit_percent, early_bird_enabled, early_bird_window_days
		FROM settings WHERE id = 1`,
	).Scan(&currency, &defaultPrice, &depositPct, &ebEnabled, &ebWindow)
	if err == sql.ErrNoRows {
		return booking.DefaultSettings(), nil
	}
	if err != nil {
		return booking.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	price, err := decimal.NewFromString(defaultPrice)
	if err != nil {
		price = booking.DefaultSettings().DefaultPrice
	}
	return booking.Settings{
		Currency:       currency,
		DefaultPrice:   price,
		DepositPercent: depositPct,
		EarlyBird:      booking.EarlyBirdPolicy{Enabled: ebEnabled, WindowDays: ebWindow},
	}, nil
}

func (s *Store) PutSettings(ctx context.Context, set booking.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, currency, default_price, deposit_percent, early_bird_enabled, early_bird_window_days, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			currency = excluded.currency,
			default_price = excluded.default_price,
			deposit_percent = excluded.deposit_percent,
			early_bird_enabled = excluded.early_bird_enabled,
			early_bird_window_days = excluded.early_bird_window_days,
			updated_at = excluded.updated_at`,
		set.Currency, set.DefaultPrice.String(), set.DepositPercent,
		set.EarlyBird.Enabled, set.EarlyBird.WindowDays, nowStamp())
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// =============================================================================
// BOOKING STORE (booking.BookingStore)
// =============================================================================

func (s *Store) AppendBooking(ctx context.Context, b booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unitsJSON, _ := json.Marshal(b.Units)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, units_json, whole_property, checkin, checkout, subtotal, deposit, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(b.ID), string(unitsJSON), b.WholeProperty,
		b.Stay.Checkin.String(), b.Stay.Checkout.String(),
		b.Subtotal.String(), b.Deposit.String(), b.Currency, b.CreatedAt.String())
	if err != nil {
		return fmt.Errorf("failed to append booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id booking.BookingID) (booking.Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, units_json, whole_property, checkin, checkout, subtotal, deposit, currency, created_at
		FROM bookings WHERE id = ?`, string(id))
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	return b, err
}

func (s *Store) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, units_json, whole_property, checkin, checkout, subtotal, deposit, currency, created_at
		FROM bookings ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row rowScanner) (booking.Booking, error) {
	var (
		id, unitsJSON, checkin, checkout       string
		subtotal, deposit, currency, createdAt string
		wholeProperty                          bool
	)
	if err := row.Scan(&id, &unitsJSON, &wholeProperty, &checkin, &checkout, &subtotal, &deposit, &currency, &createdAt); err != nil {
		return booking.Booking{}, err
	}

	var units []booking.UnitID
	if err := json.Unmarshal([]byte(unitsJSON), &units); err != nil {
		return booking.Booking{}, fmt.Errorf("failed to decode booking units: %w", err)
	}

	ci, err := booking.ParseDateKey(checkin)
	if err != nil {
		return booking.Booking{}, err
	}
	co, err := booking.ParseDateKey(checkout)
	if err != nil {
		return booking.Booking{}, err
	}
	created, err := booking.ParseDateKey(createdAt)
	if err != nil {
		return booking.Booking{}, err
	}

	sub, err := decimal.NewFromString(subtotal)
	if err != nil {
		sub = decimal.Zero
	}
	dep, err := decimal.NewFromString(deposit)
	if err != nil {
		dep = decimal.Zero
	}

	return booking.Booking{
		ID:            booking.BookingID(id),
		Units:         units,
		WholeProperty: wholeProperty,
		Stay:          booking.StayRange{Checkin: ci, Checkout: co},
		Subtotal:      sub,
		Deposit:       dep,
		Currency:      currency,
		CreatedAt:     created,
	}, nil
}

// Compile-time interface checks.
var (
	_ booking.TxStatusStore = (*Store)(nil)
	_ booking.OverrideStore = (*Store)(nil)
	_ booking.PriceStore    = (*Store)(nil)
	_ booking.UnitStore     = (*Store)(nil)
	_ booking.SettingsStore = (*Store)(nil)
	_ booking.BookingStore  = (*Store)(nil)
)
