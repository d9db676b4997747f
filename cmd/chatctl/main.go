// Command chatctl is a terminal client for the direct-chat server.
package main

import (
	"bufio"
	"context"
	"direct-chat/auth"
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const usage = `chatctl talks to a direct-chat server.

Usage:
  chatctl <command> [flags]

Commands:
  register  --name --email --password [--role]
  login     --email --password [--role]     prints a token for CHAT_TOKEN
  users                                      lists the user directory
  user      --id
  send      --to --text [--wait]
  chat      [--to]                           live connection, stdin lines are sent to --to
  subscribe                                  follows the broadcast topic
  history   --with [--me]
  latest    [--me]
  seen      --id
  search    --query [--limit]
  all                                        every message, admin only

Environment:
  CHAT_SERVER_ADDR, CHAT_TOKEN, CHAT_CODEC (json|cbor), CHAT_COLOURS
`

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

type command func(ctx context.Context, c *client, args []string) error

var commands = map[string]command{
	"register":  register,
	"login":     login,
	"users":     users,
	"user":      userDetails,
	"send":      sendOnce,
	"chat":      chat,
	"subscribe": subscribe,
	"history":   history,
	"latest":    latest,
	"seen":      markSeen,
	"search":    search,
	"all":       allMessages,
}

func run(args []string) (int, error) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		return exitOK, nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		return exitConfig, fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := newClient(cfg)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = c.conn.Close() }()

	if err := cmd(ctx, c, args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK, nil
		}
		return exitRuntime, err
	}
	return exitOK, nil
}

type client struct {
	cfg      Config
	conn     *grpc.ClientConn
	auth     pbaccount.AuthServiceClient
	chat     pb.ChatServiceClient
	admin    pb.AdminServiceClient
	callOpts []grpc.CallOption
	print    printer
}

func newClient(cfg Config) (*client, error) {
	conn, err := grpc.NewClient(cfg.ServerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.ServerAddr, err)
	}
	return &client{
		cfg:      cfg,
		conn:     conn,
		auth:     pbaccount.NewAuthServiceClient(conn),
		chat:     pb.NewChatServiceClient(conn),
		admin:    pb.NewAdminServiceClient(conn),
		callOpts: []grpc.CallOption{grpc.CallContentSubtype(cfg.Codec)},
		print:    printer{out: os.Stdout, colours: cfg.Colours},
	}, nil
}

// authed attaches the bearer token, which streams only send at open time.
func (c *client) authed(ctx context.Context) (context.Context, error) {
	if c.cfg.Token == "" {
		return nil, fmt.Errorf("CHAT_TOKEN is not set, run chatctl login first")
	}
	return metadata.NewOutgoingContext(ctx, auth.BearerMetadata(c.cfg.Token)), nil
}

// me resolves the caller id from the token claims, without verifying them.
func (c *client) me() (string, error) {
	claims, err := auth.UnverifiedClaims(c.cfg.Token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func parse(name string, args []string, define func(fs *pflag.FlagSet)) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	define(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return nil
}

func register(ctx context.Context, c *client, args []string) error {
	var in pbaccount.RegisterRequest
	if err := parse("register", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.Name, "name", "", "display name")
		fs.StringVar(&in.Email, "email", "", "email address")
		fs.StringVar(&in.Password, "password", "", "password, 8 to 72 characters")
		fs.StringVar(&in.Role, "role", "", "USER (default) or ADMIN")
	}); err != nil {
		return err
	}
	res, err := c.auth.Register(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.success("Registered %s", res.UserId)
	return nil
}

func login(ctx context.Context, c *client, args []string) error {
	var in pbaccount.LoginRequest
	if err := parse("login", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.Email, "email", "", "email address")
		fs.StringVar(&in.Password, "password", "", "password")
		fs.StringVar(&in.Role, "role", "", "optional role the account must hold")
	}); err != nil {
		return err
	}
	res, err := c.auth.Login(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.success("Logged in as %s (%s)", res.GetUser().Name, res.GetUser().Role)
	fmt.Printf("export CHAT_TOKEN=%s\n", res.GetToken())
	return nil
}

func users(ctx context.Context, c *client, args []string) error {
	if err := parse("users", args, func(*pflag.FlagSet) {}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.ListUsers(ctx, &pb.ListUsersRequest{}, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.users(res.Users)
	return nil
}

func userDetails(ctx context.Context, c *client, args []string) error {
	var in pb.UserDetailsRequest
	if err := parse("user", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.UserId, "id", "", "user id")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.GetUserDetails(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.users([]*pbaccount.UserSummary{res})
	return nil
}

// sendOnce opens a connection, sends one message and lingers for --wait so
// the frame is read before the stream goes away. There is no ack frame.
func sendOnce(ctx context.Context, c *client, args []string) error {
	var to, text string
	var wait time.Duration
	if err := parse("send", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&to, "to", "", "receiver id")
		fs.StringVar(&text, "text", "", "message text")
		fs.DurationVar(&wait, "wait", 500*time.Millisecond, "how long to keep the connection open")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	stream, err := c.chat.Connect(ctx, c.callOpts...)
	if err != nil {
		return err
	}
	if err := stream.Send(&pb.ClientFrame{SendMessage: &pb.SendMessage{ReceiverId: to, Text: text}}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	err = c.receive(stream)
	if ctx.Err() != nil {
		c.print.success("Sent to %s", to)
		return nil
	}
	return err
}

func chat(ctx context.Context, c *client, args []string) error {
	var to string
	if err := parse("chat", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&to, "to", "", "receiver of the lines typed on stdin")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	stream, err := c.chat.Connect(ctx, c.callOpts...)
	if err != nil {
		return err
	}

	if to != "" {
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if err := stream.Send(&pb.ClientFrame{SendMessage: &pb.SendMessage{ReceiverId: to, Text: text}}); err != nil {
					return
				}
			}
			_ = stream.CloseSend()
		}()
	}

	err = c.receive(stream)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func subscribe(ctx context.Context, c *client, args []string) error {
	if err := parse("subscribe", args, func(*pflag.FlagSet) {}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	stream, err := c.chat.Subscribe(ctx, &pb.SubscribeRequest{}, c.callOpts...)
	if err != nil {
		return err
	}
	err = c.receive(stream)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

type frameReceiver interface {
	Recv() (*pb.ServerFrame, error)
}

func (c *client) receive(stream frameReceiver) error {
	for {
		frame, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if d := frame.GetDelivery(); d != nil {
			c.print.delivery(d)
		}
	}
}

func history(ctx context.Context, c *client, args []string) error {
	var with, me string
	if err := parse("history", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&with, "with", "", "the other user id")
		fs.StringVar(&me, "me", "", "first user id, defaults to the token subject")
	}); err != nil {
		return err
	}
	if me == "" {
		var err error
		if me, err = c.me(); err != nil {
			return err
		}
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.GetChatHistory(ctx, &pb.ChatHistoryRequest{UserA: me, UserB: with}, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.messages(res.GetMessages())
	return nil
}

func latest(ctx context.Context, c *client, args []string) error {
	var in pb.LatestChatsRequest
	if err := parse("latest", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.UserId, "me", "", "user id, defaults to the caller")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.GetLatestChats(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.messages(res.GetMessages())
	return nil
}

func markSeen(ctx context.Context, c *client, args []string) error {
	var in pb.MarkSeenRequest
	if err := parse("seen", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.MessageId, "id", "", "message id")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.MarkSeen(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.messages([]*pb.Message{res.Message})
	return nil
}

func search(ctx context.Context, c *client, args []string) error {
	var in pb.SearchMessagesRequest
	if err := parse("search", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&in.Query, "query", "", "words to look for")
		fs.Int32Var(&in.Limit, "limit", 0, "maximum hits, server default when 0")
	}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.chat.SearchMessages(ctx, &in, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.messages(res.GetMessages())
	return nil
}

func allMessages(ctx context.Context, c *client, args []string) error {
	if err := parse("all", args, func(*pflag.FlagSet) {}); err != nil {
		return err
	}
	ctx, err := c.authed(ctx)
	if err != nil {
		return err
	}
	res, err := c.admin.GetAllMessages(ctx, &pb.AllMessagesRequest{}, c.callOpts...)
	if err != nil {
		return err
	}
	c.print.messages(res.GetMessages())
	return nil
}
