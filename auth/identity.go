package auth

import (
	"context"
	"direct-chat/domain"
	"strings"

	"google.golang.org/grpc/metadata"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

// Identity is the authenticated principal of a single call or stream.
// It lives in the context of that call only.
type Identity struct {
	UserID string
	Role   domain.Role
}

func (i Identity) Authority() string { return i.Role.Authority() }

func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom returns the identity bound to ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// bearerToken extracts the token of an "authorization: Bearer <token>" header.
// It returns false when the header is absent, uses another scheme or is empty.
func bearerToken(md metadata.MD) (string, bool) {
	values := md.Get(authorizationHeader)
	if len(values) == 0 {
		return "", false
	}
	if !strings.HasPrefix(values[0], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(values[0], bearerPrefix))
	return token, token != ""
}

// BearerMetadata builds the outgoing header a client sends at call or stream open.
func BearerMetadata(token string) metadata.MD {
	return metadata.Pairs(authorizationHeader, bearerPrefix+token)
}
