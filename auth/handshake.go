package auth

import (
	"context"
	"direct-chat/errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type HandshakeState int

const (
	ConnectPending HandshakeState = iota
	Rejected
	Authenticated
)

func (s HandshakeState) String() string {
	switch s {
	case ConnectPending:
		return "CONNECT_PENDING"
	case Rejected:
		return "REJECTED"
	case Authenticated:
		return "AUTHENTICATED"
	default:
		return "UNKNOWN"
	}
}

// Handshake authenticates one streaming connection at open time.
// Stream metadata is only sent when the stream opens, so this is the single
// point where the bearer token is visible. A Handshake is one-shot: once
// Rejected or Authenticated it never changes state again.
type Handshake struct {
	tokens   *TokenService
	state    HandshakeState
	identity Identity
}

func NewHandshake(tokens *TokenService) *Handshake {
	return &Handshake{tokens: tokens, state: ConnectPending}
}

func (h *Handshake) State() HandshakeState { return h.state }

// Authenticate moves the handshake out of CONNECT_PENDING.
func (h *Handshake) Authenticate(md metadata.MD) (Identity, error) {
	if h.state != ConnectPending {
		return Identity{}, errors.ErrHandshakeCompleted
	}

	token, ok := bearerToken(md)
	if !ok {
		h.state = Rejected
		return Identity{}, errors.ErrMissingCredential
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		h.state = Rejected
		return Identity{}, err
	}

	h.state = Authenticated
	h.identity = claims.Identity()
	return h.identity, nil
}

// StreamAuthenticator runs the handshake for every streaming call, before the
// handler sees a single frame. It fails closed: a rejected handshake tears the
// stream down with codes.Unauthenticated and the handler never runs.
type StreamAuthenticator struct {
	log      *slog.Logger
	tokens   *TokenService
	onReject func(method string, err error)
}

func NewStreamAuthenticator(log *slog.Logger, tokens *TokenService) *StreamAuthenticator {
	return &StreamAuthenticator{log: log, tokens: tokens}
}

// OnReject registers a callback invoked for each rejected handshake.
func (a *StreamAuthenticator) OnReject(fn func(method string, err error)) *StreamAuthenticator {
	a.onReject = fn
	return a
}

func (a *StreamAuthenticator) Interceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		md, _ := metadata.FromIncomingContext(ss.Context())

		handshake := NewHandshake(a.tokens)
		identity, err := handshake.Authenticate(md)
		if err != nil {
			a.log.Warn("Stream handshake rejected",
				"method", info.FullMethod,
				"state", handshake.State().String(),
				"error", err)
			if a.onReject != nil {
				a.onReject(info.FullMethod, err)
			}
			return status.Error(codes.Unauthenticated, err.Error())
		}

		a.log.Debug("Stream handshake accepted",
			"method", info.FullMethod,
			"user_id", identity.UserID,
			"authority", identity.Authority())
		return handler(srv, &authenticatedStream{
			ServerStream: ss,
			ctx:          WithIdentity(ss.Context(), identity),
		})
	}
}

// authenticatedStream carries the handshake identity for the whole stream lifetime.
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }

// RejectReason gives a bounded label for a handshake failure.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, errors.ErrInvalidToken):
		return "invalid_token"
	default:
		return "other"
	}
}
