// Package policy is the single authorization decision table for the
// service. Every operation that touches an account, reading, or setting
// is mapped to an Action here and checked through Allow; no handler or
// service re-implements role checks inline.
package policy

import "github.com/thermolog-dev/thermolog/internal/model"

// Action identifies one guarded operation.
type Action int

const (
	// ListAccounts enumerates every account.
	ListAccounts Action = iota
	// UpdateAccount mutates another account's non-role profile fields.
	UpdateAccount
	// DeleteAccount removes an account permanently.
	DeleteAccount
	// ChangeRole alters an account's role field.
	ChangeRole
	// ReadProfile reads an account's profile.
	ReadProfile
	// UpdateProfile mutates an account's own non-role profile fields.
	UpdateProfile
	// IngestReading stores a new sensor reading.
	IngestReading
	// QueryReadings reads aggregated sensor data.
	QueryReadings
	// ListSensors enumerates known sensor identifiers.
	ListSensors
	// ListSettings enumerates configuration entries.
	ListSettings
	// CreateSetting adds a new configuration entry.
	CreateSetting
	// UpdateSettingValue changes a setting's value.
	UpdateSettingValue
	// UpdateSettingMeta changes a setting's description or its
	// requires_admin flag.
	UpdateSettingMeta
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role model.Role
}

// Resource carries the per-entity attributes a decision may depend on.
// OwnerID is consulted for profile actions, RequiresAdmin for setting
// value updates; the zero value suffices for everything else.
type Resource struct {
	OwnerID       string
	RequiresAdmin bool
}

// Allow decides whether the actor may perform the action on the
// resource. Unknown actions and unknown roles are denied.
func Allow(actor Actor, action Action, res Resource) bool {
	switch action {
	case ListAccounts, UpdateAccount, DeleteAccount, ChangeRole,
		IngestReading, CreateSetting, UpdateSettingMeta:
		return isAdmin(actor.Role)

	case ReadProfile, UpdateProfile:
		return isAdmin(actor.Role) || actor.ID == res.OwnerID

	case QueryReadings, ListSensors, ListSettings:
		// Any authenticated actor.
		return actor.ID != ""

	case UpdateSettingValue:
		if res.RequiresAdmin {
			return isAdmin(actor.Role)
		}
		return actor.ID != ""
	}
	return false
}

func isAdmin(r model.Role) bool {
	switch r {
	case model.RoleAdmin:
		return true
	case model.RoleUser:
		return false
	}
	return false
}
