package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrMissingCredential       = fmt.Errorf("missing credential")
	ErrInvalidToken            = fmt.Errorf("invalid token")
	ErrInvalidPayload          = fmt.Errorf("invalid payload")
	ErrUnknownUser             = fmt.Errorf("unknown user")
	ErrPersistence             = fmt.Errorf("persistence error")
	ErrUnauthorized            = fmt.Errorf("unauthorized")
	ErrForbidden               = fmt.Errorf("forbidden")
	ErrUserNotFound            = fmt.Errorf("user not found")
	ErrMessageNotFound         = fmt.Errorf("message not found")
	ErrUserAlreadyExists       = fmt.Errorf("user already exists")
	ErrTokenGeneration         = fmt.Errorf("token generation failed")
	ErrHandshakeCompleted      = fmt.Errorf("handshake already completed")
	ErrInvalidStatusTransition = fmt.Errorf("invalid status transition")
	ErrWorkerPanic             = fmt.Errorf("worker panic")
)

// Is and As forward to the standard library so callers importing this
// package under the name errors keep the usual helpers.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// MapToGRPCError converts a domain error into a gRPC status error.
// Errors already carrying a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeOf(err), err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, ErrInvalidPayload):
		return codes.InvalidArgument
	case errors.Is(err, ErrUnknownUser),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrMessageNotFound):
		return codes.NotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, ErrInvalidStatusTransition):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
