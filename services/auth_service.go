package services

import (
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/repositories"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginCommand struct {
	Email    string
	Password string
	// Role is an optional hint checked against the stored role.
	Role string
}

type LoginResult struct {
	Token string
	User  domain.UserSummary
}

type IAuthService interface {
	Register(cmd RegisterCommand) (string, error)
	Login(cmd LoginCommand) (LoginResult, error)
}

type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenService
	now    func() time.Time
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenService) IAuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Register creates a user and returns its id. The role defaults to USER.
func (s *AuthService) Register(cmd RegisterCommand) (string, error) {
	// Validation runs before any hashing.
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Password: cmd.Password,
		Role:     cmd.Role,
	}); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	role := domain.RoleUser
	if cmd.Role != "" {
		parsed, err := domain.ParseRole(cmd.Role)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		role = parsed
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(cmd.Name),
		Email:        strings.TrimSpace(cmd.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.SaveUser(user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login checks the credentials and issues a bearer token.
// Unknown email and wrong password fail the same way.
func (s *AuthService) Login(cmd LoginCommand) (LoginResult, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{
		Email:    cmd.Email,
		Password: cmd.Password,
		Role:     cmd.Role,
	}); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	user, err := s.users.FindUserByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return LoginResult{}, errors.ErrUnauthorized
		}
		return LoginResult{}, err
	}

	if cmd.Role != "" {
		hint, err := domain.ParseRole(cmd.Role)
		if err != nil || hint != user.Role {
			return LoginResult{}, fmt.Errorf("%w: role %s not granted", errors.ErrForbidden, cmd.Role)
		}
	}

	match, err := auth.ComparePassword(cmd.Password, user.PasswordHash)
	if err != nil || !match {
		return LoginResult{}, errors.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user.Summary()}, nil
}
