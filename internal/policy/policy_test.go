package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thermolog-dev/thermolog/internal/model"
)

var (
	admin = Actor{ID: "admin-1", Role: model.RoleAdmin}
	user  = Actor{ID: "user-1", Role: model.RoleUser}
)

func TestAdminAllowedEverything(t *testing.T) {
	actions := []Action{
		ListAccounts, UpdateAccount, DeleteAccount, ChangeRole,
		ReadProfile, UpdateProfile, IngestReading, QueryReadings,
		ListSensors, ListSettings, CreateSetting, UpdateSettingValue,
		UpdateSettingMeta,
	}
	for _, action := range actions {
		assert.True(t, Allow(admin, action, Resource{OwnerID: "someone-else", RequiresAdmin: true}),
			"admin denied action %d", action)
	}
}

func TestUserDeniedAdminOperations(t *testing.T) {
	actions := []Action{
		ListAccounts, UpdateAccount, DeleteAccount, ChangeRole,
		IngestReading, CreateSetting, UpdateSettingMeta,
	}
	for _, action := range actions {
		assert.False(t, Allow(user, action, Resource{}), "user permitted action %d", action)
	}
}

func TestUserProfileOwnership(t *testing.T) {
	own := Resource{OwnerID: user.ID}
	other := Resource{OwnerID: "someone-else"}

	assert.True(t, Allow(user, ReadProfile, own))
	assert.True(t, Allow(user, UpdateProfile, own))
	assert.False(t, Allow(user, ReadProfile, other))
	assert.False(t, Allow(user, UpdateProfile, other))

	assert.True(t, Allow(admin, ReadProfile, other))
	assert.True(t, Allow(admin, UpdateProfile, other))
}

func TestAnyAuthenticatedActorReads(t *testing.T) {
	for _, action := range []Action{QueryReadings, ListSensors, ListSettings} {
		assert.True(t, Allow(user, action, Resource{}), "user denied action %d", action)
		assert.True(t, Allow(admin, action, Resource{}), "admin denied action %d", action)
	}
}

func TestSettingValueGatedByFlag(t *testing.T) {
	open := Resource{RequiresAdmin: false}
	locked := Resource{RequiresAdmin: true}

	assert.True(t, Allow(user, UpdateSettingValue, open))
	assert.False(t, Allow(user, UpdateSettingValue, locked))
	assert.True(t, Allow(admin, UpdateSettingValue, open))
	assert.True(t, Allow(admin, UpdateSettingValue, locked))
}

// The description and requires_admin fields are admin-only even when the
// setting itself is open to all.
func TestSettingMetaAlwaysAdminOnly(t *testing.T) {
	assert.False(t, Allow(user, UpdateSettingMeta, Resource{RequiresAdmin: false}))
	assert.True(t, Allow(admin, UpdateSettingMeta, Resource{RequiresAdmin: false}))
}

func TestUnknownRoleDenied(t *testing.T) {
	stranger := Actor{ID: "x", Role: model.Role("superuser")}
	assert.False(t, Allow(stranger, IngestReading, Resource{}))
	assert.False(t, Allow(stranger, ListAccounts, Resource{}))
	// Ownership still works without a recognized role.
	assert.True(t, Allow(stranger, ReadProfile, Resource{OwnerID: "x"}))
}

func TestUnauthenticatedDenied(t *testing.T) {
	nobody := Actor{}
	assert.False(t, Allow(nobody, QueryReadings, Resource{}))
	assert.False(t, Allow(nobody, ListSettings, Resource{}))
	assert.False(t, Allow(nobody, UpdateSettingValue, Resource{}))
}
