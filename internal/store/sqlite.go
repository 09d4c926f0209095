package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/thermolog-dev/thermolog/internal/model"
)

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary creates) the database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			theme TEXT NOT NULL DEFAULT 'light',
			dashboard_layout TEXT NOT NULL DEFAULT 'default',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL,
			temperature REAL NOT NULL,
			humidity REAL,
			ts INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_readings_sensor_ts ON readings (sensor_id, ts);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			requires_admin INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// mapErr translates driver errors into the package sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// Timestamps are stored as Unix microseconds to keep range comparisons
// integer-only.

func toMicros(t time.Time) int64    { return t.UTC().UnixMicro() }
func fromMicros(us int64) time.Time { return time.UnixMicro(us).UTC() }

func (s *SQLiteStore) CreateAccount(ctx context.Context, a *model.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, role, theme, dashboard_layout, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.PasswordHash, string(a.Role),
		a.Theme, a.DashboardLayout, toMicros(a.CreatedAt), toMicros(a.UpdatedAt),
	)
	return mapErr(err)
}

const accountCols = `id, username, email, password_hash, role, theme, dashboard_layout, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	var role string
	var created, updated int64
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role,
		&a.Theme, &a.DashboardLayout, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	a.Role = model.Role(role)
	a.CreatedAt = fromMicros(created)
	a.UpdatedAt = fromMicros(updated)
	return &a, nil
}

func (s *SQLiteStore) AccountByID(ctx context.Context, id string) (*model.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id = ?`, id))
}

func (s *SQLiteStore) AccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE username = ?`, username))
}

func (s *SQLiteStore) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE email = ?`, email))
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountCols+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateAccount(ctx context.Context, a *model.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET email = ?, password_hash = ?, role = ?, theme = ?, dashboard_layout = ?, updated_at = ?
		 WHERE id = ?`,
		a.Email, a.PasswordHash, string(a.Role), a.Theme, a.DashboardLayout,
		toMicros(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) InsertReading(ctx context.Context, r *model.Reading) error {
	var hum sql.NullFloat64
	if r.Humidity != nil {
		hum = sql.NullFloat64{Float64: *r.Humidity, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO readings (id, sensor_id, temperature, humidity, ts) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.SensorID, r.Temperature, hum, toMicros(r.Timestamp),
	)
	return mapErr(err)
}

func (s *SQLiteStore) ReadingsBySensor(ctx context.Context, sensorID string, start, end time.Time) ([]model.Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sensor_id, temperature, humidity, ts FROM readings
		 WHERE sensor_id = ? AND ts >= ? AND ts < ? ORDER BY ts`,
		sensorID, toMicros(start), toMicros(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		var r model.Reading
		var hum sql.NullFloat64
		var ts int64
		if err := rows.Scan(&r.ID, &r.SensorID, &r.Temperature, &hum, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		if hum.Valid {
			v := hum.Float64
			r.Humidity = &v
		}
		r.Timestamp = fromMicros(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SensorIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT sensor_id FROM readings ORDER BY sensor_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sensors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateSetting(ctx context.Context, st *model.Setting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, description, requires_admin) VALUES (?, ?, ?, ?)`,
		st.Key, st.Value, st.Description, boolInt(st.RequiresAdmin),
	)
	return mapErr(err)
}

func (s *SQLiteStore) SettingByKey(ctx context.Context, key string) (*model.Setting, error) {
	var st model.Setting
	var admin int
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, description, requires_admin FROM settings WHERE key = ?`, key,
	).Scan(&st.Key, &st.Value, &st.Description, &admin)
	if err != nil {
		return nil, mapErr(err)
	}
	st.RequiresAdmin = admin != 0
	return &st, nil
}

func (s *SQLiteStore) ListSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, description, requires_admin FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var out []model.Setting
	for rows.Next() {
		var st model.Setting
		var admin int
		if err := rows.Scan(&st.Key, &st.Value, &st.Description, &admin); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		st.RequiresAdmin = admin != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateSetting(ctx context.Context, st *model.Setting) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settings SET value = ?, description = ?, requires_admin = ? WHERE key = ?`,
		st.Value, st.Description, boolInt(st.RequiresAdmin), st.Key,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
