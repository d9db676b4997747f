package repositories

import (
	"direct-chat/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestDecodeMessage_Skips_Unknown_Fields(t *testing.T) {
	req := require.New(t)
	msg := newMessage("alice", "bob", "hello", time.Now().UTC())

	// Given a record written by a newer version with an extra field
	b := encodeMessage(msg)
	b = protowire.AppendTag(b, 42, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	decoded, err := decodeMessage(b)
	req.NoError(err)
	req.Equal(msg, decoded)
}

func TestDecodeUser_Truncated_Record(t *testing.T) {
	req := require.New(t)
	b := encodeUser(domain.User{ID: "u-1", Name: "alice", Role: domain.RoleUser})

	_, err := decodeUser(b[:len(b)-2])
	req.Error(err)
}

func TestInspectRecord(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	message := domain.Message{ID: "m1", Text: "hi", SenderID: "a", ReceiverID: "b", SentAt: at, Status: domain.StatusSent}
	user := domain.User{ID: "u1", Name: "alice", Email: "alice@example.com", Role: domain.RoleUser}

	row := InspectRecord("msg:m1", encodeMessage(message))
	req.Equal("MESSAGE", row.Type)
	req.Contains(row.Detail, `"hi"`)

	row = InspectRecord("user:u1", encodeUser(user))
	req.Equal("USER", row.Type)
	req.Contains(row.Detail, "alice@example.com")

	row = InspectRecord("all:1:m1", []byte("m1"))
	req.Equal("INDEX", row.Type)
	req.Equal("m1", row.Detail)
}
