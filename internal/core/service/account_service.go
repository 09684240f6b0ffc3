package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrack/tasktrack/internal/core/domain"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// AccountService implements registration, login and profile management.
type AccountService struct {
	users  ports.UserRepository
	cost   int
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, cost: bcrypt.DefaultCost, logger: logger}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AccountService) WithHashCost(cost int) *AccountService {
	s.cost = cost
	return s
}

func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidUser
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Authenticate accepts either the username or the email as identifier.
func (s *AccountService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.User, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)
	if usernameOrEmail == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, usernameOrEmail)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.FindByEmail(ctx, usernameOrEmail)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Get returns an active user. Deactivated accounts are reported as
// domain.ErrAccountInactive so their sessions stop working.
func (s *AccountService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.ErrInvalidUser
	}
	if email != user.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrWrongPassword
	}
	if next == "" {
		return domain.ErrInvalidUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AccountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return available(s.users.FindByUsername(ctx, strings.TrimSpace(username)))
}

func (s *AccountService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return available(s.users.FindByEmail(ctx, strings.TrimSpace(email)))
}

func available(_ *domain.User, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return true, nil
	default:
		return false, err
	}
}

var _ ports.AccountService = (*AccountService)(nil)
