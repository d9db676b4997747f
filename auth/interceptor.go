package auth

import (
	"context"
	pb "direct-chat/proto/account"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Methods that never carry a token worth checking.
var bypassMethods = map[string]struct{}{
	pb.AuthService_Login_FullMethodName:    {},
	pb.AuthService_Register_FullMethodName: {},
}

// RequestAuthenticator validates the bearer token of every unary call.
//
// It fails open: a missing, malformed or invalid token lets the call continue
// without identity, and the Authorizer further down the chain decides whether
// the method needed one. A valid token binds an Identity to this call only.
type RequestAuthenticator struct {
	log    *slog.Logger
	tokens *TokenService
}

func NewRequestAuthenticator(log *slog.Logger, tokens *TokenService) *RequestAuthenticator {
	return &RequestAuthenticator{log: log, tokens: tokens}
}

func (a *RequestAuthenticator) Interceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isBypassed(info.FullMethod) {
			return handler(ctx, req)
		}
		return handler(a.Authenticate(ctx, info.FullMethod), req)
	}
}

// Authenticate returns ctx enriched with the caller identity, or ctx unchanged.
func (a *RequestAuthenticator) Authenticate(ctx context.Context, method string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	token, ok := bearerToken(md)
	if !ok {
		return ctx
	}
	claims, err := a.tokens.Verify(token)
	if err != nil {
		a.log.Debug("Ignoring invalid bearer token", "method", method, "error", err)
		return ctx
	}
	return WithIdentity(ctx, claims.Identity())
}

func isBypassed(method string) bool {
	_, ok := bypassMethods[method]
	return ok
}
