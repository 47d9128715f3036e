package services

import (
	"context"
	"errors"
	"fmt"

	"bizdesk/models"
	"bizdesk/utils"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAccountNotFound    = errors.New("account not found")
)

// AccountStore reads active accounts. Implementations return
// ErrAccountNotFound when no active row matches.
type AccountStore interface {
	FindActiveSuperAdminByUsername(ctx context.Context, username string) (*models.SuperAdmin, error)
	FindActiveStaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindActiveSuperAdminByID(ctx context.Context, id string) (*models.SuperAdmin, error)
	FindActiveStaffByID(ctx context.Context, id string) (*models.Staff, error)
}

type AuthService struct {
	store AccountStore
	log   zerolog.Logger
}

func NewAuthService(store AccountStore, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, log: log.With().Str("component", "auth").Logger()}
}

// Authenticate checks the administrator collection first and falls back to
// staff. Every rejection is ErrInvalidCredentials; storage failures are
// returned wrapped so callers can answer 500 instead of 401.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.Profile, error) {
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	lookups := []struct {
		kind models.AccountKind
		find func() (models.Account, error)
	}{
		{models.KindSuperAdmin, func() (models.Account, error) {
			return adminAccount(s.store.FindActiveSuperAdminByUsername(ctx, login))
		}},
		{models.KindStaff, func() (models.Account, error) {
			return staffAccount(s.store.FindActiveStaffByEmail(ctx, login))
		}},
	}

	for _, l := range lookups {
		account, err := l.find()
		if errors.Is(err, ErrAccountNotFound) {
			s.log.Debug().Str("branch", string(l.kind)).Msg("no active account for login")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", l.kind, err)
		}

		if err := utils.VerifyPassword(account.PasswordHash(), password); err != nil {
			s.log.Info().Str("branch", string(l.kind)).Err(err).Msg("credential rejected")
			continue
		}

		profile := account.Profile()
		s.log.Info().Str("user_id", profile.ID).Str("user_type", string(profile.Kind)).Msg("login succeeded")
		return profile, nil
	}

	return nil, ErrInvalidCredentials
}

// ResolveSession maps a (subject id, subject kind) pair back to a profile.
// Unknown kinds, missing ids and deactivated accounts all yield
// ErrUnauthenticated.
func (s *AuthService) ResolveSession(ctx context.Context, subjectID, subjectKind string) (*models.Profile, error) {
	if subjectID == "" {
		return nil, ErrUnauthenticated
	}
	kind, ok := models.ParseAccountKind(subjectKind)
	if !ok {
		return nil, ErrUnauthenticated
	}

	var account models.Account
	var err error
	switch kind {
	case models.KindSuperAdmin:
		account, err = adminAccount(s.store.FindActiveSuperAdminByID(ctx, subjectID))
	case models.KindStaff:
		account, err = staffAccount(s.store.FindActiveStaffByID(ctx, subjectID))
	}
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind, err)
	}
	return account.Profile(), nil
}

func adminAccount(a *models.SuperAdmin, err error) (models.Account, error) {
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

func staffAccount(st *models.Staff, err error) (models.Account, error) {
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrAccountNotFound
	}
	return st, nil
}
