package auth

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("a-test-secret-long-enough-for-hs256")

var bob = domain.User{ID: "bob-id", Name: "bob", Email: "bob@example.com", Role: domain.RoleUser}

func TestTokenService_Issue_And_Verify(t *testing.T) {
	req := require.New(t)
	tokens, err := NewTokenService(testSecret, time.Hour)
	req.NoError(err)

	token, err := tokens.Issue(bob)
	req.NoError(err)

	claims, err := tokens.Verify(token)
	req.NoError(err)
	req.Equal(bob.ID, claims.Subject)
	req.Equal(bob.Email, claims.Email)
	req.Equal(bob.Name, claims.Name)
	req.Equal(domain.RoleUser, claims.Role)
	req.Equal(Identity{UserID: bob.ID, Role: domain.RoleUser}, claims.Identity())

	subject, err := tokens.SubjectOf(token)
	req.NoError(err)
	req.Equal(bob.ID, subject)

	role, err := tokens.RoleOf(token)
	req.NoError(err)
	req.Equal(domain.RoleUser, role)
}

func TestTokenService_Empty_Secret(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour)
	require.Error(t, err)
}

func TestTokenService_Expired(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	issuer, err := NewTokenService(testSecret, time.Minute, WithClock(func() time.Time { return now }))
	req.NoError(err)
	later, err := NewTokenService(testSecret, time.Minute, WithClock(func() time.Time { return now.Add(2 * time.Minute) }))
	req.NoError(err)

	token, err := issuer.Issue(bob)
	req.NoError(err)

	_, err = later.Verify(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestTokenService_Rejects(t *testing.T) {
	tokens, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService([]byte("another-secret-entirely-different"), time.Hour)
	require.NoError(t, err)
	valid, err := tokens.Issue(bob)
	require.NoError(t, err)
	forged, err := other.Issue(bob)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	registered := jwt.RegisteredClaims{
		Subject:   bob.ID,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered payload", valid[:strings.LastIndex(valid, ".")] + ".c2lnbmF0dXJl"},
		{"other secret", forged},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{Role: domain.RoleUser, RegisteredClaims: registered})},
		{"hs512", sign(jwt.SigningMethodHS512, testSecret, &Claims{Role: domain.RoleUser, RegisteredClaims: registered})},
		{"no expiry", sign(jwt.SigningMethodHS256, testSecret, &Claims{Role: domain.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: bob.ID, Issuer: issuer}})},
		{"unknown role", sign(jwt.SigningMethodHS256, testSecret, &Claims{Role: "ROOT", RegisteredClaims: registered})},
		{"no subject", sign(jwt.SigningMethodHS256, testSecret, &Claims{Role: domain.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: registered.ExpiresAt}})},
		{"other issuer", sign(jwt.SigningMethodHS256, testSecret, &Claims{Role: domain.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: bob.ID, Issuer: "someone-else", ExpiresAt: registered.ExpiresAt}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			require.ErrorIs(t, err, errors.ErrInvalidToken)

			_, err = tokens.RoleOf(tt.token)
			require.ErrorIs(t, err, errors.ErrInvalidToken)
		})
	}
}

func TestUnverifiedClaims(t *testing.T) {
	req := require.New(t)
	other, err := NewTokenService([]byte("a-secret-this-process-does-not-know"), time.Hour)
	req.NoError(err)
	token, err := other.Issue(bob)
	req.NoError(err)

	claims, err := UnverifiedClaims(token)
	req.NoError(err)
	req.Equal(bob.ID, claims.Subject)

	_, err = UnverifiedClaims("garbage")
	req.ErrorIs(err, errors.ErrInvalidToken)
}
