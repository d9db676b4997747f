package services

import (
	"context"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/mocks"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatMocks struct {
	users      *mocks.MockIUserRepository
	messages   *mocks.MockIMessageRepository
	search     *mocks.MockISearchIndex
	dispatcher *mocks.MockIDispatcher
	svc        IChatService
}

func newChatMocks(t *testing.T) chatMocks {
	ctrl := gomock.NewController(t)
	m := chatMocks{
		users:      mocks.NewMockIUserRepository(ctrl),
		messages:   mocks.NewMockIMessageRepository(ctrl),
		search:     mocks.NewMockISearchIndex(ctrl),
		dispatcher: mocks.NewMockIDispatcher(ctrl),
	}
	m.svc = NewChatService(slog.Default(), m.users, m.messages, m.search, m.dispatcher)
	return m
}

func TestChatService_Directory_Lists_Users_Without_Credentials(t *testing.T) {
	req := require.New(t)
	m := newChatMocks(t)
	m.users.EXPECT().FindUsersByRole(domain.RoleUser).Return([]domain.User{
		{ID: "1", Name: "alice", Email: "alice@example.com", PasswordHash: "secret", Role: domain.RoleUser},
	}, nil)

	users, err := m.svc.Directory()

	req.NoError(err)
	req.Equal([]domain.UserSummary{{ID: "1", Name: "alice", Email: "alice@example.com", Role: domain.RoleUser}}, users)
}

func TestChatService_UserDetails(t *testing.T) {
	req := require.New(t)
	m := newChatMocks(t)
	m.users.EXPECT().FindUserByID("ghost").Return(domain.User{}, errors.ErrUserNotFound)

	_, err := m.svc.UserDetails("ghost")

	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestChatService_MarkSeen_Delegates_To_Dispatcher(t *testing.T) {
	req := require.New(t)
	m := newChatMocks(t)
	seen := domain.Message{ID: "m1", Status: domain.StatusSeen}
	m.dispatcher.EXPECT().MarkSeen(gomock.Any(), "m1", "bob").Return(seen, nil)

	got, err := m.svc.MarkSeen(context.Background(), "m1", "bob")

	req.NoError(err)
	req.Equal(seen, got)
}

func TestChatService_Search(t *testing.T) {
	t.Run("resolves hits and skips stale ones", func(t *testing.T) {
		req := require.New(t)
		m := newChatMocks(t)
		stored := domain.Message{ID: "m1", Text: "lunch?", Status: domain.StatusSeen}
		m.search.EXPECT().Search(gomock.Any(), "alice", "lunch", 5).Return([]string{"m1", "gone"}, nil)
		m.messages.EXPECT().FindMessageByID("m1").Return(stored, nil)
		m.messages.EXPECT().FindMessageByID("gone").Return(domain.Message{}, errors.ErrMessageNotFound)

		found, err := m.svc.Search(context.Background(), "alice", "lunch", 5)

		req.NoError(err)
		req.Equal([]domain.Message{stored}, found)
	})

	t.Run("refuses an empty query", func(t *testing.T) {
		m := newChatMocks(t)
		_, err := m.svc.Search(context.Background(), "alice", "  ", 5)
		require.ErrorIs(t, err, errors.ErrInvalidPayload)
	})
}
