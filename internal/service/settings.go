package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/policy"
	"github.com/thermolog-dev/thermolog/internal/store"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// SettingsService orchestrates reads and updates of named configuration
// entries. Mutability is a property of the setting itself: its
// requires_admin flag gates value changes, while description and the
// flag itself are always admin-only.
type SettingsService struct {
	store store.Store
}

// NewSettingsService wires a settings service.
func NewSettingsService(st store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// List returns every setting; open to any authenticated actor.
func (s *SettingsService) List(ctx context.Context, actor policy.Actor) ([]model.Setting, error) {
	if !policy.Allow(actor, policy.ListSettings, policy.Resource{}) {
		return nil, permissionf("Authentication required")
	}
	return s.store.ListSettings(ctx)
}

// Create adds a new setting; admin only. A duplicate key is rejected
// without inserting anything.
func (s *SettingsService) Create(ctx context.Context, actor policy.Actor, req schema.SettingCreateRequest) (*model.Setting, error) {
	if !policy.Allow(actor, policy.CreateSetting, policy.Resource{}) {
		return nil, permissionf("Admin privileges required")
	}
	if req.Key == "" || req.Value == "" {
		return nil, validationf("Missing required fields")
	}

	setting := &model.Setting{
		Key:           req.Key,
		Value:         req.Value,
		Description:   req.Description,
		RequiresAdmin: req.RequiresAdmin,
	}
	if err := s.store.CreateSetting(ctx, setting); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictf("Setting with key %s already exists", req.Key)
		}
		return nil, fmt.Errorf("failed to create setting: %w", err)
	}
	return setting, nil
}

// Update applies a per-field setting update. A denied field leaves the
// setting entirely untouched.
func (s *SettingsService) Update(ctx context.Context, actor policy.Actor, key string, req schema.SettingUpdateRequest) (*model.Setting, error) {
	setting, err := s.store.SettingByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("Setting not found")
		}
		return nil, fmt.Errorf("failed to load setting: %w", err)
	}

	if req.Value != nil {
		if !policy.Allow(actor, policy.UpdateSettingValue, policy.Resource{RequiresAdmin: setting.RequiresAdmin}) {
			return nil, permissionf("Admin privileges required to modify this setting")
		}
	}
	if req.Description != nil || req.RequiresAdmin != nil {
		if !policy.Allow(actor, policy.UpdateSettingMeta, policy.Resource{}) {
			return nil, permissionf("Admin privileges required to modify this setting")
		}
	}

	if req.Value != nil {
		setting.Value = *req.Value
	}
	if req.Description != nil {
		setting.Description = *req.Description
	}
	if req.RequiresAdmin != nil {
		setting.RequiresAdmin = *req.RequiresAdmin
	}

	if err := s.store.UpdateSetting(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}
	return setting, nil
}
