package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/policy"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

var (
	adminActor = policy.Actor{ID: "admin-1", Role: model.RoleAdmin}
	userActor  = policy.Actor{ID: "user-1", Role: model.RoleUser}
)

func boolPtr(b bool) *bool { return &b }

func newSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	return NewSettingsService(newTestStore(t))
}

func TestCreateSetting(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	setting, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{
		Key:   "display_unit",
		Value: "celsius",
	})
	require.NoError(t, err)
	assert.Equal(t, "display_unit", setting.Key)
	assert.Equal(t, "", setting.Description)
	assert.False(t, setting.RequiresAdmin)
}

func TestCreateSettingDeniedForUsers(t *testing.T) {
	svc := newSettingsService(t)
	_, err := svc.Create(context.Background(), userActor, schema.SettingCreateRequest{
		Key: "k", Value: "v",
	})
	assert.Equal(t, KindPermission, KindOf(err))
}

func TestCreateSettingDuplicateInsertsNothing(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{Key: "k", Value: "v1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminActor, schema.SettingCreateRequest{Key: "k", Value: "v2"})
	assert.Equal(t, KindConflict, KindOf(err))

	all, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "v1", all[0].Value, "failed create must not mutate the existing row")
}

func TestCreateSettingValidation(t *testing.T) {
	svc := newSettingsService(t)
	_, err := svc.Create(context.Background(), adminActor, schema.SettingCreateRequest{Key: "k"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestListSettingsOpenToAllAuthenticated(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{
		Key: "secret_threshold", Value: "42", RequiresAdmin: true,
	})
	require.NoError(t, err)

	settings, err := svc.List(ctx, userActor)
	require.NoError(t, err)
	assert.Len(t, settings, 1, "requires_admin gates mutation, not reads")
}

func TestUpdateSettingValueRespectsFlag(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{
		Key: "open", Value: "a",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, adminActor, schema.SettingCreateRequest{
		Key: "locked", Value: "a", RequiresAdmin: true,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, userActor, "open", schema.SettingUpdateRequest{Value: strPtr("b")})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Value)

	_, err = svc.Update(ctx, userActor, "locked", schema.SettingUpdateRequest{Value: strPtr("b")})
	assert.Equal(t, KindPermission, KindOf(err))

	updated, err = svc.Update(ctx, adminActor, "locked", schema.SettingUpdateRequest{Value: strPtr("c")})
	require.NoError(t, err)
	assert.Equal(t, "c", updated.Value)
}

func TestUpdateSettingMetaAdminOnly(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{Key: "open", Value: "a"})
	require.NoError(t, err)

	// Even on a setting anyone may update, the meta fields stay admin-only.
	_, err = svc.Update(ctx, userActor, "open", schema.SettingUpdateRequest{
		Description: strPtr("hijacked"),
	})
	assert.Equal(t, KindPermission, KindOf(err))

	_, err = svc.Update(ctx, userActor, "open", schema.SettingUpdateRequest{
		RequiresAdmin: boolPtr(true),
	})
	assert.Equal(t, KindPermission, KindOf(err))

	updated, err := svc.Update(ctx, adminActor, "open", schema.SettingUpdateRequest{
		Description:   strPtr("documented"),
		RequiresAdmin: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "documented", updated.Description)
	assert.True(t, updated.RequiresAdmin)
}

// A denied field denies the whole update: the permitted value change in
// the same request must not be applied.
func TestUpdateSettingDenialLeavesNoPartialWrite(t *testing.T) {
	svc := newSettingsService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, adminActor, schema.SettingCreateRequest{Key: "open", Value: "a"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, userActor, "open", schema.SettingUpdateRequest{
		Value:         strPtr("b"),
		RequiresAdmin: boolPtr(false),
	})
	assert.Equal(t, KindPermission, KindOf(err))

	all, err := svc.List(ctx, userActor)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Value)
}

func TestUpdateSettingNotFound(t *testing.T) {
	svc := newSettingsService(t)
	_, err := svc.Update(context.Background(), adminActor, "missing", schema.SettingUpdateRequest{
		Value: strPtr("x"),
	})
	assert.Equal(t, KindNotFound, KindOf(err))
}
