package service

import (
	"errors"
	"log/slog"

	"github.com/nearhand/nearhand-go/internal/auth"
	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/internal/storage"
	"github.com/nearhand/nearhand-go/internal/telemetry/metric"
	"github.com/nearhand/nearhand-go/pkg/geo"
	"github.com/nearhand/nearhand-go/pkg/random"
)

// SignupParams carries everything needed to create an account.
type SignupParams struct {
	Username    string
	Password    string
	DisplayName string
	Address     string
	Location    geo.Point
	Role        domain.RoleKind
}

// AccountService handles account creation, login, and profile lookup.
type AccountService struct {
	engine        *storage.Engine
	accounts      *storage.Collection[domain.Account]
	authenticator *auth.Authenticator
	logger        *slog.Logger
	metrics       *metric.Metrics
}

// NewAccountService creates an AccountService on the engine.
func NewAccountService(engine *storage.Engine, authenticator *auth.Authenticator, logger *slog.Logger, metrics *metric.Metrics) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		engine:        engine,
		accounts:      storage.OpenCollection[domain.Account](engine, accountsCollection),
		authenticator: authenticator,
		logger:        logger,
		metrics:       metrics,
	}
}

// CreateAccount registers a new account and returns a fresh token for
// it, so signup doubles as login.
//
// The username check and the insert run in one transaction. When two
// concurrent signups race on the same username exactly one commits;
// the loser observes ErrUsernameAlreadyExists.
func (s *AccountService) CreateAccount(params SignupParams) (string, error) {
	s.logger.Debug("attempting to create account", "username", params.Username)

	if params.Password == "" {
		return "", domain.ErrAccountValidation.WithDetails("password is required")
	}

	salt, err := random.Bytes(domain.SaltLength)
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	var role domain.Role
	switch params.Role {
	case domain.RoleSenior:
		role = domain.NewSeniorRole()
	case domain.RoleVolunteer:
		role = domain.NewVolunteerRole()
	default:
		return "", domain.ErrAccountValidation.WithDetails("role must be Senior or Volunteer")
	}

	account := domain.Account{
		Username:    params.Username,
		DisplayName: params.DisplayName,
		Address:     params.Address,
		Location:    params.Location,
		Role:        role,
		Credential: domain.Credential{
			Salt:         salt,
			PasswordHash: auth.HashPassword(params.Password, salt),
		},
	}
	if err := account.Validate(); err != nil {
		return "", err
	}

	err = s.engine.Transaction(func(tx *storage.Tx) error {
		exists, err := s.accounts.ContainsTx(tx, params.Username)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrUsernameAlreadyExists.WithDetails(params.Username)
		}
		return s.accounts.PutTx(tx, params.Username, account)
	})
	if errors.Is(err, storage.ErrConflict) {
		// A conflicting commit on this key can only be a concurrent
		// signup for the same username.
		return "", domain.ErrUsernameAlreadyExists.WithDetails(params.Username)
	}
	if err != nil {
		return "", wrapStorage(s.logger, "create account", err)
	}

	token, err := s.authenticator.CreateToken(params.Username)
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	s.metrics.AccountCreated()
	s.logger.Info("created account", "username", params.Username, "role", string(params.Role))
	return token, nil
}

// Login verifies the password and returns a fresh token.
func (s *AccountService) Login(username, password string) (string, error) {
	s.logger.Debug("login attempt", "username", username)

	account, found, err := s.accounts.Get(username)
	if err != nil {
		return "", wrapStorage(s.logger, "login", err)
	}
	if !found {
		s.metrics.Login("unknown_username")
		return "", domain.ErrUsernameDoesntExist.WithDetails(username)
	}

	if !auth.VerifyPassword(password, account.Credential.Salt, account.Credential.PasswordHash) {
		s.metrics.Login("wrong_password")
		return "", domain.ErrIncorrectPassword.WithDetails(username)
	}

	token, err := s.authenticator.CreateToken(username)
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	s.metrics.Login("success")
	s.logger.Info("logged in", "username", username)
	return token, nil
}

// PublicProfile returns the public projection of the named account.
// The credential never leaves this package.
func (s *AccountService) PublicProfile(username string) (domain.PublicProfile, error) {
	account, found, err := s.accounts.Get(username)
	if err != nil {
		return domain.PublicProfile{}, wrapStorage(s.logger, "public profile", err)
	}
	if !found {
		return domain.PublicProfile{}, domain.ErrUsernameDoesntExist.WithDetails(username)
	}
	return account.Public(), nil
}

// ResolveToken validates a bearer token and loads the account it is
// bound to. The HTTP layer uses it for the user-data endpoint.
func (s *AccountService) ResolveToken(token string) (domain.Account, error) {
	return resolveAccount(s.authenticator, s.accounts, token)
}
