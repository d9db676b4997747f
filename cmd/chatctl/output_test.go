package main

import (
	"bytes"
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrinter_Messages(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	p := printer{out: &out}

	p.messages([]*pb.Message{
		{Id: "m1", Text: "hello bob", SenderId: "alice", ReceiverId: "bob", SentAt: time.Now(), Status: "SENT"},
	})

	req.Contains(out.String(), "hello bob")
	req.Contains(out.String(), "SENT")
	req.Contains(out.String(), "STATUS")
}

func TestPrinter_Users_And_Delivery(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	p := printer{out: &out}

	p.users([]*pbaccount.UserSummary{{Id: "u1", Name: "alice", Email: "alice@example.com", Role: "USER"}})
	p.delivery(&pb.Delivery{Id: "m1", Text: "hi", SenderId: "alice", ReceiverId: "bob", SentAt: time.Now()})

	req.Contains(out.String(), "alice@example.com")
	req.Contains(out.String(), "alice -> bob: hi")
}
