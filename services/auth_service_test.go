package services

import (
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/mocks"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("test-secret-of-enough-length"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, newTokenService(t))

	t.Run("should register a USER by default with a hashed password", func(t *testing.T) {
		req := require.New(t)
		var saved domain.User
		mockRepo.EXPECT().SaveUser(gomock.Any()).DoAndReturn(func(u domain.User) error {
			saved = u
			return nil
		})

		id, err := svc.Register(RegisterCommand{Name: "alice", Email: "alice@example.com", Password: "ComplexPass123!"})

		req.NoError(err)
		req.Equal(saved.ID, id)
		req.Equal(domain.RoleUser, saved.Role)
		req.NotEqual("ComplexPass123!", saved.PasswordHash)
		match, err := auth.ComparePassword("ComplexPass123!", saved.PasswordHash)
		req.NoError(err)
		req.True(match)
	})

	t.Run("should honour an explicit role in any case", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().SaveUser(gomock.Any()).DoAndReturn(func(u domain.User) error {
			req.Equal(domain.RoleAdmin, u.Role)
			return nil
		})

		_, err := svc.Register(RegisterCommand{Name: "root", Email: "root@example.com", Password: "ComplexPass123!", Role: "admin"})
		req.NoError(err)
	})

	t.Run("should fail validation before touching storage", func(t *testing.T) {
		tests := []RegisterCommand{
			{Name: "", Email: "a@example.com", Password: "ComplexPass123!"},
			{Name: "alice", Email: "not-an-email", Password: "ComplexPass123!"},
			{Name: "alice", Email: "a@example.com", Password: "short"},
			{Name: "alice", Email: "a@example.com", Password: "ComplexPass123!", Role: "GOD"},
		}
		for i, cmd := range tests {
			t.Run(fmt.Sprint(i), func(t *testing.T) {
				_, err := svc.Register(cmd)
				require.ErrorIs(t, err, errors.ErrInvalidPayload)
			})
		}
	})

	t.Run("should propagate a duplicate email", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().SaveUser(gomock.Any()).Return(errors.ErrUserAlreadyExists)

		_, err := svc.Register(RegisterCommand{Name: "alice", Email: "alice@example.com", Password: "ComplexPass123!"})

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	tokens := newTokenService(t)
	svc := NewAuthService(mockRepo, tokens)

	hash, err := auth.HashPassword("ComplexPass123!")
	require.NoError(t, err)
	alice := domain.User{ID: "alice-id", Name: "alice", Email: "alice@example.com", PasswordHash: hash, Role: domain.RoleUser}

	t.Run("should issue a token for valid credentials", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindUserByEmail(alice.Email).Return(alice, nil)

		result, err := svc.Login(LoginCommand{Email: alice.Email, Password: "ComplexPass123!"})

		req.NoError(err)
		req.Equal(alice.Summary(), result.User)
		subject, err := tokens.SubjectOf(result.Token)
		req.NoError(err)
		req.Equal(alice.ID, subject)
	})

	t.Run("should accept a matching role hint", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindUserByEmail(alice.Email).Return(alice, nil)

		_, err := svc.Login(LoginCommand{Email: alice.Email, Password: "ComplexPass123!", Role: "user"})
		req.NoError(err)
	})

	t.Run("should refuse a role hint the user does not hold", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindUserByEmail(alice.Email).Return(alice, nil)

		_, err := svc.Login(LoginCommand{Email: alice.Email, Password: "ComplexPass123!", Role: "ADMIN"})
		req.ErrorIs(err, errors.ErrForbidden)
	})

	t.Run("should refuse a wrong password", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindUserByEmail(alice.Email).Return(alice, nil)

		_, err := svc.Login(LoginCommand{Email: alice.Email, Password: "WrongPass123!"})
		req.ErrorIs(err, errors.ErrUnauthorized)
	})

	t.Run("should refuse an unknown email", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().FindUserByEmail("ghost@example.com").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Login(LoginCommand{Email: "ghost@example.com", Password: "ComplexPass123!"})
		req.ErrorIs(err, errors.ErrUnauthorized)
	})
}
