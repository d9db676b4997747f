package server

import (
	"context"
	"direct-chat/errors"
	pb "direct-chat/proto/account"
	"direct-chat/services"
)

type AuthServer struct {
	pb.UnimplementedAuthServiceServer
	authService services.IAuthService
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register creates the account. No token is issued here, the client logs in afterwards.
func (s *AuthServer) Register(_ context.Context, in *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	id, err := s.authService.Register(services.RegisterCommand{
		Name:     in.GetName(),
		Email:    in.GetEmail(),
		Password: in.GetPassword(),
		Role:     in.GetRole(),
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.RegisterResponse{UserId: id}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(_ context.Context, in *pb.LoginRequest) (*pb.LoginResponse, error) {
	result, err := s.authService.Login(services.LoginCommand{
		Email:    in.GetEmail(),
		Password: in.GetPassword(),
		Role:     in.GetRole(),
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.LoginResponse{
		Token: result.Token,
		User:  toUserSummary(result.User),
	}, nil
}
