package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"missing credential", ErrMissingCredential, codes.Unauthenticated},
		{"wrapped invalid token", fmt.Errorf("%w: expired", ErrInvalidToken), codes.Unauthenticated},
		{"unauthorized", ErrUnauthorized, codes.Unauthenticated},
		{"forbidden", ErrForbidden, codes.PermissionDenied},
		{"invalid payload", fmt.Errorf("%w: text is blank", ErrInvalidPayload), codes.InvalidArgument},
		{"unknown user", ErrUnknownUser, codes.NotFound},
		{"message not found", ErrMessageNotFound, codes.NotFound},
		{"duplicate user", ErrUserAlreadyExists, codes.AlreadyExists},
		{"status transition", ErrInvalidStatusTransition, codes.FailedPrecondition},
		{"persistence", fmt.Errorf("%w: disk full", ErrPersistence), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			st, ok := status.FromError(MapToGRPCError(tt.err))
			req.True(ok)
			req.Equal(tt.code, st.Code())
		})
	}
}

func TestMapToGRPCError_KeepsExistingStatus(t *testing.T) {
	req := require.New(t)
	original := status.Error(codes.Unavailable, "draining")

	req.Equal(original, MapToGRPCError(original))
	req.NoError(MapToGRPCError(nil))
}
