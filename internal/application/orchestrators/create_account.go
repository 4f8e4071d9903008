package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tailorshop/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var ErrUsernameExists = errors.New("an account with this username already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Username non-empty, password >= account.MinPasswordLength, valid role
// POST: Account created with a bcrypt password hash
// INVARIANT: Usernames are unique, ignoring case
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        deps.GenerateID(),
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.TrimSpace(input.Email),
		Role:      input.Role,
		CreatedAt: nowOr(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}

	if _, err := deps.AccountStore.GetByUsername(ctx, acct.Username); err == nil {
		return account.Account{}, ErrUsernameExists
	}

	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("account_event", "event", "account_created", "account_id", acct.ID, "username", acct.Username, "role", acct.Role)
	return acct, nil
}

// SeedMasterInput names the master account created on an empty database.
type SeedMasterInput struct {
	Username string
	Password string
}

// ExecuteSeedMaster creates the master account when no accounts exist.
// PRE: none
// POST: Returns true when an account was created. An empty password skips
// seeding with a warning.
func ExecuteSeedMaster(ctx context.Context, input SeedMasterInput, deps CreateAccountDeps) (bool, error) {
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if input.Password == "" {
		slog.Warn("account_event", "event", "master_seed_skipped", "reason", "admin.password not set")
		return false, nil
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Username: input.Username,
		Password: input.Password,
		Role:     account.RoleMaster,
	}, deps)
	if err != nil {
		return false, err
	}
	return true, nil
}
