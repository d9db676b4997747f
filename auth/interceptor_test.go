package auth_test

import (
	"context"
	"direct-chat/auth"
	"direct-chat/domain"
	pb "direct-chat/proto/account"
	pbchat "direct-chat/proto/chat"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("interceptor-test-secret"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *auth.TokenService, id string, role domain.Role) string {
	t.Helper()
	token, err := tokens.Issue(domain.User{ID: id, Name: id, Email: id + "@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func incoming(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), auth.BearerMetadata(token))
}

// chain runs the authenticator then the authorizer, like the server does.
func chain(tokens *auth.TokenService, ctx context.Context, method string) (context.Context, bool, error) {
	authenticate := auth.NewRequestAuthenticator(slog.Default(), tokens).Interceptor()
	authorize := auth.NewAuthorizer(auth.DefaultRules).Interceptor()
	info := &grpc.UnaryServerInfo{FullMethod: method}

	var seen context.Context
	called := false
	handler := func(ctx context.Context, req any) (any, error) {
		seen = ctx
		called = true
		return nil, nil
	}
	_, err := authenticate(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		return authorize(ctx, req, info, handler)
	})
	return seen, called, err
}

func TestRequestAuthenticator(t *testing.T) {
	tokens := newTokens(t)

	t.Run("should let public methods through without token", func(t *testing.T) {
		req := require.New(t)

		_, called, err := chain(tokens, context.Background(), pb.AuthService_Login_FullMethodName)

		req.NoError(err)
		req.True(called)
	})

	t.Run("should fail open on an invalid token", func(t *testing.T) {
		req := require.New(t)
		authenticate := auth.NewRequestAuthenticator(slog.Default(), tokens)

		// Given a garbage token
		ctx := authenticate.Authenticate(incoming("garbage"), pbchat.ChatService_ListUsers_FullMethodName)

		// Then the call continues without identity
		_, ok := auth.IdentityFrom(ctx)
		req.False(ok)
	})

	t.Run("should bind the identity of a valid token", func(t *testing.T) {
		req := require.New(t)
		token := issue(t, tokens, "alice", domain.RoleUser)

		ctx, called, err := chain(tokens, incoming(token), pbchat.ChatService_ListUsers_FullMethodName)

		req.NoError(err)
		req.True(called)
		identity, ok := auth.IdentityFrom(ctx)
		req.True(ok)
		req.Equal(auth.Identity{UserID: "alice", Role: domain.RoleUser}, identity)
	})
}

func TestAuthorizer(t *testing.T) {
	tokens := newTokens(t)
	user := issue(t, tokens, "alice", domain.RoleUser)
	admin := issue(t, tokens, "root", domain.RoleAdmin)

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		code   codes.Code
	}{
		{"register is public", context.Background(), pb.AuthService_Register_FullMethodName, codes.OK},
		{"chat needs identity", context.Background(), pbchat.ChatService_GetChatHistory_FullMethodName, codes.Unauthenticated},
		{"invalid token counts as absent", incoming("garbage"), pbchat.ChatService_MarkSeen_FullMethodName, codes.Unauthenticated},
		{"user reaches chat", incoming(user), pbchat.ChatService_GetChatHistory_FullMethodName, codes.OK},
		{"admin reaches chat", incoming(admin), pbchat.ChatService_SearchMessages_FullMethodName, codes.OK},
		{"user denied admin", incoming(user), pbchat.AdminService_GetAllMessages_FullMethodName, codes.PermissionDenied},
		{"admin reaches admin", incoming(admin), pbchat.AdminService_GetAllMessages_FullMethodName, codes.OK},
		{"unknown method needs identity", context.Background(), "/other.Service/Call", codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			_, called, err := chain(tokens, tt.ctx, tt.method)

			req.Equal(tt.code, status.Code(err))
			req.Equal(tt.code == codes.OK, called)
		})
	}
}

func TestAuthorizer_First_Match_Wins(t *testing.T) {
	req := require.New(t)
	authorizer := auth.NewAuthorizer([]auth.Rule{
		{Prefix: "/chat.ChatService/ListUsers", Public: true},
		{Prefix: "/chat.ChatService/", Role: domain.RoleAdmin},
	})

	req.True(authorizer.Match("/chat.ChatService/ListUsers").Public)
	req.Equal(domain.RoleAdmin, authorizer.Match("/chat.ChatService/MarkSeen").Role)
	req.NoError(authorizer.Authorize(context.Background(), "/chat.ChatService/ListUsers"))
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }

func TestStreamAuthenticator(t *testing.T) {
	tokens := newTokens(t)
	info := &grpc.StreamServerInfo{FullMethod: pbchat.ChatService_Connect_FullMethodName, IsClientStream: true, IsServerStream: true}

	t.Run("should reject a stream without token", func(t *testing.T) {
		req := require.New(t)
		var rejected []string
		interceptor := auth.NewStreamAuthenticator(slog.Default(), tokens).
			OnReject(func(method string, err error) { rejected = append(rejected, method) }).
			Interceptor()

		called := false
		err := interceptor(nil, &fakeServerStream{ctx: context.Background()}, info, func(any, grpc.ServerStream) error {
			called = true
			return nil
		})

		req.Equal(codes.Unauthenticated, status.Code(err))
		req.False(called)
		req.Equal([]string{info.FullMethod}, rejected)
	})

	t.Run("should reject a stream with an invalid token", func(t *testing.T) {
		req := require.New(t)
		interceptor := auth.NewStreamAuthenticator(slog.Default(), tokens).Interceptor()

		err := interceptor(nil, &fakeServerStream{ctx: incoming("garbage")}, info, func(any, grpc.ServerStream) error {
			return nil
		})

		req.Equal(codes.Unauthenticated, status.Code(err))
	})

	t.Run("should bind the identity for the stream lifetime", func(t *testing.T) {
		req := require.New(t)
		interceptor := auth.NewStreamAuthenticator(slog.Default(), tokens).Interceptor()
		token := issue(t, tokens, "bob", domain.RoleUser)

		var identity auth.Identity
		err := interceptor(nil, &fakeServerStream{ctx: incoming(token)}, info, func(_ any, ss grpc.ServerStream) error {
			identity, _ = auth.IdentityFrom(ss.Context())
			return nil
		})

		req.NoError(err)
		req.Equal("bob", identity.UserID)
	})
}
