package server

import (
	"context"
	"direct-chat/errors"
	pb "direct-chat/proto/chat"
	"direct-chat/services"
)

// AdminServer exposes operator-only reads. Access is restricted to
// ROLE_ADMIN by the authorization interceptor, not here.
type AdminServer struct {
	pb.UnimplementedAdminServiceServer
	chatService services.IChatService
}

func NewAdminServer(chatService services.IChatService) *AdminServer {
	return &AdminServer{chatService: chatService}
}

// GetAllMessages returns every stored message, newest first.
func (s *AdminServer) GetAllMessages(_ context.Context, _ *pb.AllMessagesRequest) (*pb.MessageList, error) {
	messages, err := s.chatService.AllMessages()
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toMessageList(messages), nil
}
