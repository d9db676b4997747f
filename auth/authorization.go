package auth

import (
	"context"
	"direct-chat/domain"
	pb "direct-chat/proto/account"
	pbchat "direct-chat/proto/chat"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Rule grants access to every method whose full name starts with Prefix.
// Role restricts the rule to one role; empty means any authenticated caller.
type Rule struct {
	Prefix string
	Public bool
	Role   domain.Role
}

// DefaultRules is evaluated top to bottom, the first matching prefix wins.
// Streaming methods are public here because the handshake gates them.
var DefaultRules = []Rule{
	{Prefix: pb.AuthService_Register_FullMethodName, Public: true},
	{Prefix: pb.AuthService_Login_FullMethodName, Public: true},
	{Prefix: pbchat.ChatService_Connect_FullMethodName, Public: true},
	{Prefix: pbchat.ChatService_Subscribe_FullMethodName, Public: true},
	{Prefix: "/" + pbchat.AdminService_ServiceName + "/", Role: domain.RoleAdmin},
	{Prefix: "/" + pbchat.ChatService_ServiceName + "/"},
}

// Authorizer turns the identity bound by RequestAuthenticator into an access decision.
// Methods matching no rule require an authenticated caller.
type Authorizer struct {
	rules []Rule
}

func NewAuthorizer(rules []Rule) *Authorizer {
	return &Authorizer{rules: rules}
}

// Match returns the first rule matching method, or the authenticated fallback.
func (a *Authorizer) Match(method string) Rule {
	for _, rule := range a.rules {
		if strings.HasPrefix(method, rule.Prefix) {
			return rule
		}
	}
	return Rule{Prefix: method}
}

// Authorize returns codes.Unauthenticated without identity on a protected
// method and codes.PermissionDenied when the role does not match.
func (a *Authorizer) Authorize(ctx context.Context, method string) error {
	rule := a.Match(method)
	if rule.Public {
		return nil
	}
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if rule.Role != "" && identity.Role != rule.Role {
		return status.Errorf(codes.PermissionDenied, "%s required", rule.Role.Authority())
	}
	return nil
}

func (a *Authorizer) Interceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := a.Authorize(ctx, info.FullMethod); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}
