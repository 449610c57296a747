package service

import (
	"errors"
	"log/slog"

	"github.com/nearhand/nearhand-go/internal/auth"
	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/internal/storage"
)

// Collection names. Both services open their collections on the same
// engine so one transaction can span accounts and requests.
const (
	accountsCollection = "accounts"
	requestsCollection = "help_requests"
)

// resolveAccount validates the bearer token and loads the account it
// is bound to.
//
// A valid token whose username no longer resolves means the token was
// minted for an account the store never held; accounts are never
// deleted, so this is reported as an unknown username rather than an
// authentication failure.
func resolveAccount(authenticator *auth.Authenticator, accounts *storage.Collection[domain.Account], token string) (domain.Account, error) {
	username, ok := authenticator.ValidateToken(token)
	if !ok {
		return domain.Account{}, domain.ErrInvalidToken
	}

	account, found, err := accounts.Get(username)
	if err != nil {
		return domain.Account{}, domain.ErrStorage.WithCause(err)
	}
	if !found {
		return domain.Account{}, domain.ErrUsernameDoesntExist.WithDetails(username)
	}

	return account, nil
}

// requireSenior guards senior-only operations.
func requireSenior(account domain.Account) error {
	switch account.Role.Kind {
	case domain.RoleSenior:
		return nil
	case domain.RoleVolunteer:
		return domain.ErrNotSenior
	default:
		return domain.ErrInternal.WithDetails("account has unknown role kind " + string(account.Role.Kind))
	}
}

// requireVolunteer guards volunteer-only operations.
func requireVolunteer(account domain.Account) error {
	switch account.Role.Kind {
	case domain.RoleVolunteer:
		return nil
	case domain.RoleSenior:
		return domain.ErrNotVolunteer
	default:
		return domain.ErrInternal.WithDetails("account has unknown role kind " + string(account.Role.Kind))
	}
}

// wrapStorage passes through domain errors and transaction conflicts
// unchanged and wraps everything else as an opaque storage failure,
// logging it at error level.
func wrapStorage(logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err, "") || errors.Is(err, storage.ErrConflict) {
		return err
	}
	logger.Error("storage failure", "op", op, "error", err)
	return domain.ErrStorage.WithCause(err)
}
