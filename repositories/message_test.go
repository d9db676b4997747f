package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newMessage(from, to, text string, at time.Time) domain.Message {
	return domain.Message{
		ID:         uuid.NewString(),
		Text:       text,
		SenderID:   from,
		ReceiverID: to,
		SentAt:     at,
		Status:     domain.StatusSent,
	}
}

func TestMessageRepository_Save_And_Find(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	msg := newMessage("alice", "bob", "hi bob", time.Now().UTC())

	req.NoError(repo.SaveMessage(msg))

	fetched, err := repo.FindMessageByID(msg.ID)
	req.NoError(err)
	req.Equal(msg, fetched)

	_, err = repo.FindMessageByID(uuid.NewString())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestMessageRepository_ChatHistory_Both_Directions_Ascending(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	// Given a conversation between alice and bob, saved out of order,
	// and an unrelated conversation
	third := newMessage("alice", "bob", "third", at.Add(2*time.Minute))
	first := newMessage("alice", "bob", "first", at)
	second := newMessage("bob", "alice", "second", at.Add(time.Minute))
	other := newMessage("alice", "clara", "other", at.Add(30*time.Second))
	for _, m := range []domain.Message{third, first, second, other} {
		req.NoError(repo.SaveMessage(m))
	}

	// When the history is fetched from either side
	fromAlice, err := repo.FindChatHistory("alice", "bob")
	req.NoError(err)
	fromBob, err := repo.FindChatHistory("bob", "alice")
	req.NoError(err)

	// Then both see the same ascending thread
	texts := lo.Map(fromAlice, func(m domain.Message, _ int) string { return m.Text })
	req.Equal([]string{"first", "second", "third"}, texts)
	req.Equal(fromAlice, fromBob)
}

func TestMessageRepository_LatestPerPartner(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	msgs := []domain.Message{
		newMessage("alice", "bob", "old bob", at),
		newMessage("bob", "alice", "new bob", at.Add(time.Minute)),
		newMessage("clara", "alice", "clara", at.Add(2*time.Minute)),
		newMessage("bob", "clara", "not alice", at.Add(3*time.Minute)),
	}
	for _, m := range msgs {
		req.NoError(repo.SaveMessage(m))
	}

	latest, err := repo.FindLatestPerPartner("alice")
	req.NoError(err)
	texts := lo.Map(latest, func(m domain.Message, _ int) string { return m.Text })
	req.Equal([]string{"clara", "new bob"}, texts)
}

func TestMessageRepository_AllMessages_Newest_First(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	for i, text := range []string{"a", "b", "c"} {
		req.NoError(repo.SaveMessage(newMessage("alice", "bob", text, at.Add(time.Duration(i)*time.Second))))
	}

	all, err := repo.FindAllMessages()
	req.NoError(err)
	texts := lo.Map(all, func(m domain.Message, _ int) string { return m.Text })
	req.Equal([]string{"c", "b", "a"}, texts)
}

func TestMessageRepository_Status_Update_Does_Not_Duplicate(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t), slog.Default())
	msg := newMessage("alice", "bob", "read me", time.Now().UTC())
	req.NoError(repo.SaveMessage(msg))

	// When the message is marked as seen
	msg.Status = domain.StatusSeen
	req.NoError(repo.SaveMessage(msg))

	// Then history still holds a single, updated copy
	history, err := repo.FindChatHistory("alice", "bob")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(domain.StatusSeen, history[0].Status)
}
