// Package model defines the persisted record types shared across the Thermolog service.
package model

import (
	"fmt"
	"time"

	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// Role is the closed set of account roles. Every authorization decision
// switches exhaustively over this type.
type Role string

const (
	// RoleAdmin may perform every operation, including account and
	// settings administration and reading ingestion.
	RoleAdmin Role = "admin"
	// RoleUser may read aggregated data, manage its own profile, and
	// update settings not flagged as admin-only.
	RoleUser Role = "user"
)

// ParseRole validates a role string from an untrusted payload.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// Account is a registered user as stored in the accounts table.
// PasswordHash holds only the bcrypt digest and is never serialized
// to any client; use Public for outbound representations.
type Account struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	Role            Role
	Theme           string
	DashboardLayout string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Public returns the client-facing view of the account, with the
// credential hash omitted.
func (a *Account) Public() schema.Account {
	return schema.Account{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		Role:            string(a.Role),
		Theme:           a.Theme,
		DashboardLayout: a.DashboardLayout,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// Reading is one immutable sensor observation. Humidity is nil when the
// sensor did not report it.
type Reading struct {
	ID          string
	SensorID    string
	Temperature float64
	Humidity    *float64
	Timestamp   time.Time
}

// Public returns the client-facing view of the reading.
func (r *Reading) Public() schema.Reading {
	return schema.Reading{
		ID:          r.ID,
		SensorID:    r.SensorID,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Timestamp:   r.Timestamp,
	}
}

// Setting is a named configuration entry. RequiresAdmin governs who may
// change the value; reading is open to any authenticated account.
type Setting struct {
	Key           string
	Value         string
	Description   string
	RequiresAdmin bool
}

// Public returns the client-facing view of the setting.
func (s *Setting) Public() schema.Setting {
	return schema.Setting{
		Key:           s.Key,
		Value:         s.Value,
		Description:   s.Description,
		RequiresAdmin: s.RequiresAdmin,
	}
}
