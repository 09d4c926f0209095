package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thermolog-dev/thermolog/internal/auth"
	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/policy"
	"github.com/thermolog-dev/thermolog/internal/store"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

const (
	defaultTheme  = "light"
	defaultLayout = "default"
)

// AccountService orchestrates registration, login, and profile
// management around the hashing and token collaborators.
type AccountService struct {
	store  store.Store
	tokens *auth.TokenIssuer
	now    func() time.Time
}

// NewAccountService wires an account service.
func NewAccountService(st store.Store, tokens *auth.TokenIssuer) *AccountService {
	return &AccountService{store: st, tokens: tokens, now: time.Now}
}

// Register creates a new account. The first account ever created is
// promoted to admin; every later one defaults to user.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, validationf("Missing required fields")
	}

	if _, err := s.store.AccountByUsername(ctx, username); err == nil {
		return nil, conflictf("Username already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.store.AccountByEmail(ctx, email); err == nil {
		return nil, conflictf("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	count, err := s.store.CountAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	account := &model.Account{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		Theme:           defaultTheme,
		DashboardLayout: defaultLayout,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictf("Username already exists")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// Login verifies the credentials and issues an access/refresh token pair.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.Account, *schema.LoginResponse, error) {
	account, err := s.store.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, authf("Invalid username or password")
		}
		return nil, nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, nil, authf("Invalid username or password")
	}

	access, err := s.tokens.AccessToken(account.ID)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.tokens.RefreshToken(account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, &schema.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         account.Public(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	accountID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", authf("Invalid refresh token")
	}
	if _, err := s.store.AccountByID(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", authf("Invalid refresh token")
		}
		return "", fmt.Errorf("failed to load account: %w", err)
	}
	return s.tokens.AccessToken(accountID)
}

// Authenticate resolves an access token to the live account behind it.
func (s *AccountService) Authenticate(ctx context.Context, accessToken string) (*model.Account, error) {
	accountID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, authf("Invalid or expired token")
	}
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, authf("Invalid or expired token")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// Profile returns an account's profile, subject to the read policy.
func (s *AccountService) Profile(ctx context.Context, actor policy.Actor, accountID string) (*model.Account, error) {
	if !policy.Allow(actor, policy.ReadProfile, policy.Resource{OwnerID: accountID}) {
		return nil, permissionf("Not allowed to read this profile")
	}
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("User not found")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// UpdateProfile applies a self-service profile update. Each field is an
// explicit optional; a credential change requires the old/new pair with
// the old password verified.
func (s *AccountService) UpdateProfile(ctx context.Context, actor policy.Actor, accountID string, upd schema.ProfileUpdateRequest) (*model.Account, error) {
	if !policy.Allow(actor, policy.UpdateProfile, policy.Resource{OwnerID: accountID}) {
		return nil, permissionf("Not allowed to update this profile")
	}
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("User not found")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if upd.Email != nil && *upd.Email != account.Email {
		if err := s.checkEmailFree(ctx, *upd.Email, account.ID); err != nil {
			return nil, err
		}
		account.Email = *upd.Email
	}
	if upd.Theme != nil {
		account.Theme = *upd.Theme
	}
	if upd.DashboardLayout != nil {
		account.DashboardLayout = *upd.DashboardLayout
	}

	if upd.OldPassword != nil || upd.NewPassword != nil {
		if upd.OldPassword == nil || upd.NewPassword == nil {
			return nil, validationf("Password change requires old_password and new_password")
		}
		if !auth.CheckPassword(account.PasswordHash, *upd.OldPassword) {
			return nil, validationf("Invalid current password")
		}
		hash, err := auth.HashPassword(*upd.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	account.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// List returns every account; admin only.
func (s *AccountService) List(ctx context.Context, actor policy.Actor) ([]model.Account, error) {
	if !policy.Allow(actor, policy.ListAccounts, policy.Resource{}) {
		return nil, permissionf("Admin privileges required")
	}
	return s.store.ListAccounts(ctx)
}

// AdminUpdate applies an administrative account update, including role
// changes and password resets.
func (s *AccountService) AdminUpdate(ctx context.Context, actor policy.Actor, targetID string, upd schema.AccountUpdateRequest) (*model.Account, error) {
	if !policy.Allow(actor, policy.UpdateAccount, policy.Resource{OwnerID: targetID}) {
		return nil, permissionf("Admin privileges required")
	}
	account, err := s.store.AccountByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundf("User not found")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if upd.Role != nil {
		if !policy.Allow(actor, policy.ChangeRole, policy.Resource{OwnerID: targetID}) {
			return nil, permissionf("Admin privileges required")
		}
		role, err := model.ParseRole(*upd.Role)
		if err != nil {
			return nil, validationf("Invalid role: %s", *upd.Role)
		}
		account.Role = role
	}
	if upd.Email != nil && *upd.Email != account.Email {
		if err := s.checkEmailFree(ctx, *upd.Email, account.ID); err != nil {
			return nil, err
		}
		account.Email = *upd.Email
	}
	if upd.Theme != nil {
		account.Theme = *upd.Theme
	}
	if upd.DashboardLayout != nil {
		account.DashboardLayout = *upd.DashboardLayout
	}
	if upd.NewPassword != nil {
		hash, err := auth.HashPassword(*upd.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	account.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// Delete removes an account permanently; admin only.
func (s *AccountService) Delete(ctx context.Context, actor policy.Actor, targetID string) error {
	if !policy.Allow(actor, policy.DeleteAccount, policy.Resource{OwnerID: targetID}) {
		return permissionf("Admin privileges required")
	}
	if err := s.store.DeleteAccount(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundf("User not found")
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *AccountService) checkEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.store.AccountByEmail(ctx, email)
	if err == nil && other.ID != selfID {
		return conflictf("Email already exists")
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}
