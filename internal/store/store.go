// Package store defines the persistence contract for the Thermolog
// service and its SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/thermolog-dev/thermolog/internal/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

// Store is the persistence interface consumed by the services. All
// methods execute as single independent statements; the implementation
// provides read-your-writes within each call and nothing across calls.
type Store interface {
	// CreateAccount inserts a new account. Returns ErrDuplicate if the
	// username or email is already taken.
	CreateAccount(ctx context.Context, a *model.Account) error
	// AccountByID looks an account up by its ID.
	AccountByID(ctx context.Context, id string) (*model.Account, error)
	// AccountByUsername looks an account up by its unique handle.
	AccountByUsername(ctx context.Context, username string) (*model.Account, error)
	// AccountByEmail looks an account up by its unique contact address.
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
	// ListAccounts returns every account ordered by creation time.
	ListAccounts(ctx context.Context) ([]model.Account, error)
	// UpdateAccount persists all mutable fields of the account.
	UpdateAccount(ctx context.Context, a *model.Account) error
	// DeleteAccount removes an account permanently.
	DeleteAccount(ctx context.Context, id string) error
	// CountAccounts returns the total number of accounts.
	CountAccounts(ctx context.Context) (int64, error)

	// InsertReading stores a new immutable sensor reading.
	InsertReading(ctx context.Context, r *model.Reading) error
	// ReadingsBySensor returns the readings of one sensor with
	// timestamp in [start, end), ordered by timestamp.
	ReadingsBySensor(ctx context.Context, sensorID string, start, end time.Time) ([]model.Reading, error)
	// SensorIDs returns the distinct sensor identifiers seen so far.
	SensorIDs(ctx context.Context) ([]string, error)

	// CreateSetting inserts a new setting. Returns ErrDuplicate if the
	// key already exists.
	CreateSetting(ctx context.Context, s *model.Setting) error
	// SettingByKey looks a setting up by its unique key.
	SettingByKey(ctx context.Context, key string) (*model.Setting, error)
	// ListSettings returns every setting ordered by key.
	ListSettings(ctx context.Context) ([]model.Setting, error)
	// UpdateSetting persists all mutable fields of the setting.
	UpdateSetting(ctx context.Context, s *model.Setting) error

	// Close releases the underlying database handle.
	Close() error
}
