package service

import (
	"context"
	"testing"

	"taskbook/internal/auth"
	dom "taskbook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]dom.User
	nextID int64

	// hideExisting makes ExistsByUsername lie, simulating a signup race where
	// the proactive check passes but the unique constraint still fires.
	hideExisting bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]dom.User)}
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if r.hideExisting {
		return false, nil
	}
	_, ok := r.users[username]
	return ok, nil
}

func (r *fakeUserRepo) Create(_ context.Context, username, passwordHash string) (dom.User, error) {
	if _, ok := r.users[username]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.users[username] = u
	return u, nil
}

func newUserService(r *fakeUserRepo) *UserService {
	return NewUserService(r, auth.NewPasswordHasher(4))
}

func TestUserService_RegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.NotEqual(t, "pw1", created.PasswordHash)

	got, err := svc.ValidateCredentials(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserService_DuplicateSignup(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Len(t, repo.users, 1, "failed signup must leave zero net new users")
}

func TestUserService_DuplicateSignupRace(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Proactive check passes, insert hits the unique constraint.
	repo.hideExisting = true
	_, err = svc.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Len(t, repo.users, 1)
}

func TestUserService_LoginErrorsDoNotEnumerate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, wrongPassword := svc.ValidateCredentials(ctx, "alice", "nope")
	_, unknownUser := svc.ValidateCredentials(ctx, "mallory", "pw1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUserService_RegisterValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "empty username", username: "", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "blank username", username: "   ", password: "pw", wantErr: ErrInvalidCredentials},
		{name: "empty password", username: "bob", password: "", wantErr: ErrInvalidCredentials},
		{name: "too long", username: "a123456789b123456789c123456789x", password: "pw", wantErr: ErrUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, repo.users)
}

func TestUserService_RegisterTrimsUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  alice  ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.ValidateCredentials(ctx, "alice", "pw1")
	assert.NoError(t, err)
}
