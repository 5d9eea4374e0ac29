package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskbook/internal/auth"
	dom "taskbook/internal/domain"
	"taskbook/internal/repo"
	"taskbook/internal/utils"

	"github.com/jackc/pgx/v5"
)

// One shared outcome for unknown user and wrong password, so callers cannot
// enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid username or password")

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrUsernameTooLong = errors.New("username must be at most 30 characters")
)

const maxUsernameLen = 30

// UserService handles signup and credential validation.
type UserService struct {
	repo   repo.UserRepo
	hasher *auth.PasswordHasher
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, hasher *auth.PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

// ValidateCredentials checks username and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with a hashed password. The duplicate check is
// proactive; the unique constraint still backstops a concurrent signup.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	if len(username) > maxUsernameLen {
		return dom.User{}, ErrUsernameTooLong
	}
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return dom.User{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return dom.User{}, ErrUsernameTaken
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// GetByID returns the user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return s.repo.GetByID(ctx, id)
}
