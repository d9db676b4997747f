package chat

import (
	"context"
	"direct-chat/proto/account"
	"direct-chat/proto/codec"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ChatService_ServiceName                   = "chat.ChatService"
	ChatService_Connect_FullMethodName        = "/chat.ChatService/Connect"
	ChatService_Subscribe_FullMethodName      = "/chat.ChatService/Subscribe"
	ChatService_GetChatHistory_FullMethodName = "/chat.ChatService/GetChatHistory"
	ChatService_GetLatestChats_FullMethodName = "/chat.ChatService/GetLatestChats"
	ChatService_GetUserDetails_FullMethodName = "/chat.ChatService/GetUserDetails"
	ChatService_ListUsers_FullMethodName      = "/chat.ChatService/ListUsers"
	ChatService_MarkSeen_FullMethodName       = "/chat.ChatService/MarkSeen"
	ChatService_SearchMessages_FullMethodName = "/chat.ChatService/SearchMessages"

	AdminService_ServiceName                   = "chat.AdminService"
	AdminService_GetAllMessages_FullMethodName = "/chat.AdminService/GetAllMessages"
)

type ChatServiceClient interface {
	Connect(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ClientFrame, ServerFrame], error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ServerFrame], error)
	GetChatHistory(ctx context.Context, in *ChatHistoryRequest, opts ...grpc.CallOption) (*MessageList, error)
	GetLatestChats(ctx context.Context, in *LatestChatsRequest, opts ...grpc.CallOption) (*MessageList, error)
	GetUserDetails(ctx context.Context, in *UserDetailsRequest, opts ...grpc.CallOption) (*account.UserSummary, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*UserList, error)
	MarkSeen(ctx context.Context, in *MarkSeenRequest, opts ...grpc.CallOption) (*MarkSeenResponse, error)
	SearchMessages(ctx context.Context, in *SearchMessagesRequest, opts ...grpc.CallOption) (*MessageList, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

func (c *chatServiceClient) Connect(ctx context.Context, opts ...grpc.CallOption) (grpc.BidiStreamingClient[ClientFrame, ServerFrame], error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_Connect_FullMethodName, codec.WithDefault(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[ClientFrame, ServerFrame]{ClientStream: stream}, nil
}

func (c *chatServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[ServerFrame], error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[1], ChatService_Subscribe_FullMethodName, codec.WithDefault(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeRequest, ServerFrame]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *chatServiceClient) GetChatHistory(ctx context.Context, in *ChatHistoryRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, ChatService_GetChatHistory_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetLatestChats(ctx context.Context, in *LatestChatsRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, ChatService_GetLatestChats_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetUserDetails(ctx context.Context, in *UserDetailsRequest, opts ...grpc.CallOption) (*account.UserSummary, error) {
	return invoke[account.UserSummary](ctx, c.cc, ChatService_GetUserDetails_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*UserList, error) {
	return invoke[UserList](ctx, c.cc, ChatService_ListUsers_FullMethodName, in, opts)
}

func (c *chatServiceClient) MarkSeen(ctx context.Context, in *MarkSeenRequest, opts ...grpc.CallOption) (*MarkSeenResponse, error) {
	return invoke[MarkSeenResponse](ctx, c.cc, ChatService_MarkSeen_FullMethodName, in, opts)
}

func (c *chatServiceClient) SearchMessages(ctx context.Context, in *SearchMessagesRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, ChatService_SearchMessages_FullMethodName, in, opts)
}

type ChatServiceServer interface {
	Connect(grpc.BidiStreamingServer[ClientFrame, ServerFrame]) error
	Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[ServerFrame]) error
	GetChatHistory(context.Context, *ChatHistoryRequest) (*MessageList, error)
	GetLatestChats(context.Context, *LatestChatsRequest) (*MessageList, error)
	GetUserDetails(context.Context, *UserDetailsRequest) (*account.UserSummary, error)
	ListUsers(context.Context, *ListUsersRequest) (*UserList, error)
	MarkSeen(context.Context, *MarkSeenRequest) (*MarkSeenResponse, error)
	SearchMessages(context.Context, *SearchMessagesRequest) (*MessageList, error)
	mustEmbedUnimplementedChatServiceServer()
}

// UnimplementedChatServiceServer must be embedded by implementations.
type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) Connect(grpc.BidiStreamingServer[ClientFrame, ServerFrame]) error {
	return status.Errorf(codes.Unimplemented, "method Connect not implemented")
}

func (UnimplementedChatServiceServer) Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[ServerFrame]) error {
	return status.Errorf(codes.Unimplemented, "method Subscribe not implemented")
}

func (UnimplementedChatServiceServer) GetChatHistory(context.Context, *ChatHistoryRequest) (*MessageList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetChatHistory not implemented")
}

func (UnimplementedChatServiceServer) GetLatestChats(context.Context, *LatestChatsRequest) (*MessageList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLatestChats not implemented")
}

func (UnimplementedChatServiceServer) GetUserDetails(context.Context, *UserDetailsRequest) (*account.UserSummary, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUserDetails not implemented")
}

func (UnimplementedChatServiceServer) ListUsers(context.Context, *ListUsersRequest) (*UserList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListUsers not implemented")
}

func (UnimplementedChatServiceServer) MarkSeen(context.Context, *MarkSeenRequest) (*MarkSeenResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MarkSeen not implemented")
}

func (UnimplementedChatServiceServer) SearchMessages(context.Context, *SearchMessagesRequest) (*MessageList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SearchMessages not implemented")
}

func (UnimplementedChatServiceServer) mustEmbedUnimplementedChatServiceServer() {}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

func _ChatService_Connect_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(ChatServiceServer).Connect(&grpc.GenericServerStream[ClientFrame, ServerFrame]{ServerStream: stream})
}

func _ChatService_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatServiceServer).Subscribe(m, &grpc.GenericServerStream[SubscribeRequest, ServerFrame]{ServerStream: stream})
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChatService_ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetChatHistory",
			Handler: unaryHandler(ChatService_GetChatHistory_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *ChatHistoryRequest) (*MessageList, error) {
					return s.GetChatHistory(ctx, in)
				}),
		},
		{
			MethodName: "GetLatestChats",
			Handler: unaryHandler(ChatService_GetLatestChats_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *LatestChatsRequest) (*MessageList, error) {
					return s.GetLatestChats(ctx, in)
				}),
		},
		{
			MethodName: "GetUserDetails",
			Handler: unaryHandler(ChatService_GetUserDetails_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *UserDetailsRequest) (*account.UserSummary, error) {
					return s.GetUserDetails(ctx, in)
				}),
		},
		{
			MethodName: "ListUsers",
			Handler: unaryHandler(ChatService_ListUsers_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *ListUsersRequest) (*UserList, error) {
					return s.ListUsers(ctx, in)
				}),
		},
		{
			MethodName: "MarkSeen",
			Handler: unaryHandler(ChatService_MarkSeen_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *MarkSeenRequest) (*MarkSeenResponse, error) {
					return s.MarkSeen(ctx, in)
				}),
		},
		{
			MethodName: "SearchMessages",
			Handler: unaryHandler(ChatService_SearchMessages_FullMethodName,
				func(s ChatServiceServer, ctx context.Context, in *SearchMessagesRequest) (*MessageList, error) {
					return s.SearchMessages(ctx, in)
				}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       _ChatService_Connect_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
		{
			StreamName:    "Subscribe",
			Handler:       _ChatService_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "chat.proto",
}

type AdminServiceClient interface {
	GetAllMessages(ctx context.Context, in *AllMessagesRequest, opts ...grpc.CallOption) (*MessageList, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func (c *adminServiceClient) GetAllMessages(ctx context.Context, in *AllMessagesRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, AdminService_GetAllMessages_FullMethodName, in, opts)
}

type AdminServiceServer interface {
	GetAllMessages(context.Context, *AllMessagesRequest) (*MessageList, error)
	mustEmbedUnimplementedAdminServiceServer()
}

// UnimplementedAdminServiceServer must be embedded by implementations.
type UnimplementedAdminServiceServer struct{}

func (UnimplementedAdminServiceServer) GetAllMessages(context.Context, *AllMessagesRequest) (*MessageList, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAllMessages not implemented")
}

func (UnimplementedAdminServiceServer) mustEmbedUnimplementedAdminServiceServer() {}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminService_ServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAllMessages",
			Handler: unaryHandler(AdminService_GetAllMessages_FullMethodName,
				func(s AdminServiceServer, ctx context.Context, in *AllMessagesRequest) (*MessageList, error) {
					return s.GetAllMessages(ctx, in)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat.proto",
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, codec.WithDefault(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// unaryHandler builds the grpc.MethodDesc handler of one unary method.
func unaryHandler[S any, Req any, Res any](method string, call func(S, context.Context, *Req) (*Res, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
