package services

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/repositories"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

type IChatService interface {
	ChatHistory(userA, userB string) ([]domain.Message, error)
	LatestChats(userID string) ([]domain.Message, error)
	UserDetails(userID string) (domain.UserSummary, error)
	Directory() ([]domain.UserSummary, error)
	AllMessages() ([]domain.Message, error)
	MarkSeen(ctx context.Context, messageID, readerID string) (domain.Message, error)
	Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error)
}

type ChatService struct {
	log        *slog.Logger
	users      repositories.IUserRepository
	messages   repositories.IMessageRepository
	search     repositories.ISearchIndex
	dispatcher contract.IDispatcher
}

func NewChatService(
	log *slog.Logger,
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	search repositories.ISearchIndex,
	dispatcher contract.IDispatcher,
) IChatService {
	return &ChatService{log: log, users: users, messages: messages, search: search, dispatcher: dispatcher}
}

// ChatHistory returns both directions of a conversation, oldest first.
func (s *ChatService) ChatHistory(userA, userB string) ([]domain.Message, error) {
	return s.messages.FindChatHistory(userA, userB)
}

// LatestChats returns the last message of every conversation of userID.
func (s *ChatService) LatestChats(userID string) ([]domain.Message, error) {
	return s.messages.FindLatestPerPartner(userID)
}

func (s *ChatService) UserDetails(userID string) (domain.UserSummary, error) {
	user, err := s.users.FindUserByID(userID)
	if err != nil {
		return domain.UserSummary{}, err
	}
	return user.Summary(), nil
}

// Directory lists the users a message can be sent to. Admins are not listed.
func (s *ChatService) Directory() ([]domain.UserSummary, error) {
	users, err := s.users.FindUsersByRole(domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u domain.User, _ int) domain.UserSummary { return u.Summary() }), nil
}

func (s *ChatService) AllMessages() ([]domain.Message, error) {
	return s.messages.FindAllMessages()
}

func (s *ChatService) MarkSeen(ctx context.Context, messageID, readerID string) (domain.Message, error) {
	return s.dispatcher.MarkSeen(ctx, messageID, readerID)
}

// Search resolves index hits against storage, so returned messages carry
// their current status. Hits no longer in storage are skipped.
func (s *ChatService) Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", errors.ErrInvalidPayload)
	}
	ids, err := s.search.Search(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	found := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.FindMessageByID(id)
		if errors.Is(err, errors.ErrMessageNotFound) {
			s.log.Debug("Indexed message missing from storage", "message_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		found = append(found, message)
	}
	return found, nil
}
