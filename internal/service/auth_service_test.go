package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/tasty/internal/repository/memory"
)

func newAuthService(t *testing.T, loginField string) (*AuthService, *memory.UserRepo) {
	t.Helper()
	userRepo := memory.NewUserRepo()
	tokenRepo := memory.NewTokenRepo()
	return NewAuthService(userRepo, tokenRepo, "test-secret", 15*time.Minute, time.Hour, loginField), userRepo
}

func registerUser(t *testing.T, s *AuthService, username, email, password string) {
	t.Helper()
	_, err := s.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
}

func TestRegisterNormalizesEmailDomain(t *testing.T) {
	s, _ := newAuthService(t, "email")

	user, err := s.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "A@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "A@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicateEmailCaseInsensitiveDomain(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "A@Example.COM", "password123")

	_, err := s.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "A@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	_, err := s.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Tokens.Access)
	assert.NotEmpty(t, resp.Tokens.Refresh)
	assert.NotEqual(t, resp.Tokens.Access, resp.Tokens.Refresh)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestLoginDoesNotLeakWhichFieldFailed(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	_, errUnknown := s.Login(context.Background(), LoginInput{
		Identifier: "nobody@example.com",
		Password:   "password123",
	})
	_, errWrongPw := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "wrong-password",
	})

	assert.ErrorIs(t, errUnknown, ErrInvalidCreds)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCreds)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestLoginInactiveAccount(t *testing.T) {
	s, userRepo := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	user, err := userRepo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, userRepo.Update(context.Background(), user))

	_, err = s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLoginByUsername(t *testing.T) {
	s, _ := newAuthService(t, "username")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice",
		Password:   "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.Access)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.NoError(t, err)

	access, err := s.Refresh(context.Background(), resp.Tokens.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.NoError(t, err)

	_, err = s.Refresh(context.Background(), resp.Tokens.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutBlacklistsRefreshToken(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.NoError(t, err)

	// Works before logout
	_, err = s.Refresh(context.Background(), resp.Tokens.Refresh)
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), resp.Tokens.Refresh))

	_, err = s.Refresh(context.Background(), resp.Tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutMalformedToken(t *testing.T) {
	s, _ := newAuthService(t, "email")

	assert.ErrorIs(t, s.Logout(context.Background(), "not-a-jwt"), ErrInvalidToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	s, _ := newAuthService(t, "email")
	registerUser(t, s, "alice", "alice@example.com", "password123")

	resp, err := s.Login(context.Background(), LoginInput{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background(), resp.Tokens.Refresh))
	require.NoError(t, s.Logout(context.Background(), resp.Tokens.Refresh))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("password123")
	require.NoError(t, err)

	assert.True(t, verifyPassword("password123", hash))
	assert.False(t, verifyPassword("password124", hash))
	assert.False(t, verifyPassword("password123", "garbage"))

	// Same password hashes differently thanks to the random salt.
	hash2, err := hashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}
