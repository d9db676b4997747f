package server

import (
	"context"
	"direct-chat/auth"
	"direct-chat/contract"
	"direct-chat/domain"
	"direct-chat/errors"
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"
	"direct-chat/services"
	"direct-chat/sink"
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	log                  *slog.Logger
	chatService          services.IChatService
	dispatcher           contract.IDispatcher
	registry             contract.IRegistry
	connectionBufferSize int
}

func NewChatServer(
	log *slog.Logger,
	chatService services.IChatService,
	dispatcher contract.IDispatcher,
	registry contract.IRegistry,
	connectionBufferSize int,
) *ChatServer {
	return &ChatServer{
		log:                  log,
		chatService:          chatService,
		dispatcher:           dispatcher,
		registry:             registry,
		connectionBufferSize: connectionBufferSize,
	}
}

// Connect is the live connection of one authenticated user.
// The handshake already ran in the stream interceptor: the identity in the
// stream context is the only one this connection can send as.
// The handle is registered for the whole lifetime of the call and removed on
// every exit path: client cancel, server shutdown, send or receive error.
func (s *ChatServer) Connect(stream grpc.BidiStreamingServer[pb.ClientFrame, pb.ServerFrame]) error {
	identity, ok := auth.IdentityFrom(stream.Context())
	if !ok {
		return status.Error(codes.Unauthenticated, errors.ErrMissingCredential.Error())
	}

	handle := sink.NewGrpcSink(s.log, identity.UserID, s.connectionBufferSize)
	s.registry.Register(identity.UserID, handle)
	defer func() {
		handle.Close()
		s.registry.Unregister(handle)
		s.log.Debug("Connection closed", "user_id", identity.UserID)
	}()
	s.log.Info("Connection opened", "user_id", identity.UserID)

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	recvErr := make(chan error, 1)
	go func() {
		// Half-close keeps the connection open for deliveries.
		if err := s.receive(ctx, stream, identity); err != nil {
			recvErr <- err
			cancel()
		}
	}()

	err := handle.Pump(ctx, func(delivery domain.Delivery) error {
		return stream.Send(toServerFrame(delivery))
	})
	if err != nil {
		s.log.Warn("Failed to push delivery", "user_id", identity.UserID, "error", err)
		return err
	}

	select {
	case err := <-recvErr:
		if status.Code(err) != codes.Canceled {
			s.log.Debug("Connection receive ended", "user_id", identity.UserID, "error", err)
		}
	default:
	}
	return nil
}

// receive reads inbound frames until the client half-closes or the stream breaks.
func (s *ChatServer) receive(ctx context.Context, stream grpc.BidiStreamingServer[pb.ClientFrame, pb.ServerFrame], identity auth.Identity) error {
	for {
		frame, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		send := frame.GetSendMessage()
		if send == nil {
			s.log.Debug("Ignoring empty frame", "user_id", identity.UserID)
			continue
		}
		// No ack frame exists: failures are only visible in the logs.
		if err := s.sendMessage(ctx, identity, send); err != nil {
			s.log.Warn("Send message failed",
				"user_id", identity.UserID,
				"receiver_id", send.ReceiverId,
				"error", err)
		}
	}
}

func (s *ChatServer) sendMessage(ctx context.Context, identity auth.Identity, in *pb.SendMessage) error {
	senderID := in.SenderId
	if senderID == "" {
		senderID = identity.UserID
	}
	if senderID != identity.UserID {
		return fmt.Errorf("%w: cannot send as %s", errors.ErrForbidden, senderID)
	}
	_, err := s.dispatcher.SendMessage(ctx, domain.SendMessageCommand{
		SenderID:   senderID,
		ReceiverID: in.ReceiverId,
		Text:       in.Text,
		Status:     in.Status,
	})
	return err
}

// Subscribe streams every delivery of the broadcast topic until the client leaves.
func (s *ChatServer) Subscribe(_ *pb.SubscribeRequest, stream grpc.ServerStreamingServer[pb.ServerFrame]) error {
	identity, ok := auth.IdentityFrom(stream.Context())
	if !ok {
		return status.Error(codes.Unauthenticated, errors.ErrMissingCredential.Error())
	}

	listener := sink.NewGrpcSink(s.log, identity.UserID, s.connectionBufferSize)
	s.registry.Subscribe(listener)
	defer func() {
		listener.Close()
		s.registry.Unsubscribe(listener)
	}()

	return listener.Pump(stream.Context(), func(delivery domain.Delivery) error {
		return stream.Send(toServerFrame(delivery))
	})
}

func (s *ChatServer) GetChatHistory(_ context.Context, in *pb.ChatHistoryRequest) (*pb.MessageList, error) {
	if in.UserA == "" || in.UserB == "" {
		return nil, errors.MapToGRPCError(fmt.Errorf("%w: both users are required", errors.ErrInvalidPayload))
	}
	messages, err := s.chatService.ChatHistory(in.UserA, in.UserB)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toMessageList(messages), nil
}

// GetLatestChats defaults to the caller when no user id is given.
func (s *ChatServer) GetLatestChats(ctx context.Context, in *pb.LatestChatsRequest) (*pb.MessageList, error) {
	userID := in.UserId
	if userID == "" {
		identity, _ := auth.IdentityFrom(ctx)
		userID = identity.UserID
	}
	messages, err := s.chatService.LatestChats(userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toMessageList(messages), nil
}

func (s *ChatServer) GetUserDetails(_ context.Context, in *pb.UserDetailsRequest) (*pbaccount.UserSummary, error) {
	user, err := s.chatService.UserDetails(in.UserId)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toUserSummary(user), nil
}

func (s *ChatServer) ListUsers(_ context.Context, _ *pb.ListUsersRequest) (*pb.UserList, error) {
	users, err := s.chatService.Directory()
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.UserList{Users: lo.Map(users, func(u domain.UserSummary, _ int) *pbaccount.UserSummary {
		return toUserSummary(u)
	})}, nil
}

// MarkSeen acts on behalf of the caller: only the receiver may mark a message seen.
func (s *ChatServer) MarkSeen(ctx context.Context, in *pb.MarkSeenRequest) (*pb.MarkSeenResponse, error) {
	identity, _ := auth.IdentityFrom(ctx)
	message, err := s.chatService.MarkSeen(ctx, in.MessageId, identity.UserID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.MarkSeenResponse{Message: toMessage(message)}, nil
}

// SearchMessages only ever searches the caller's own conversations.
func (s *ChatServer) SearchMessages(ctx context.Context, in *pb.SearchMessagesRequest) (*pb.MessageList, error) {
	identity, _ := auth.IdentityFrom(ctx)
	messages, err := s.chatService.Search(ctx, identity.UserID, in.Query, int(in.Limit))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toMessageList(messages), nil
}
