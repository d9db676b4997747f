package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPasswordIsV3rySafe!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_Malformed_Hash(t *testing.T) {
	req := require.New(t)

	for _, hash := range []string{
		"",
		"plain-text",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=1$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=3,p=2$c2FsdA$aGFzaA",
	} {
		match, err := ComparePassword("whatever", hash)
		req.Error(err, hash)
		req.False(match)
	}
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{Name: "alice", Email: "test@example.com", Password: "ComplexPass123!"}, false},
		{"Valid admin", RegisterRequest{Name: "root", Email: "root@example.com", Password: "ComplexPass123!", Role: "ADMIN"}, false},
		{"Missing name", RegisterRequest{Email: "test@example.com", Password: "ComplexPass123!"}, true},
		{"Invalid email", RegisterRequest{Name: "alice", Email: "notanemail", Password: "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{Name: "alice", Email: "test@example.com", Password: "Short1!"}, true},
		{"Password too long", RegisterRequest{Name: "alice", Email: "test@example.com", Password: strings.Repeat("a", 73)}, true},
		{"Unknown role", RegisterRequest{Name: "alice", Email: "test@example.com", Password: "ComplexPass123!", Role: "ROOT"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
