//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	SaveMessage(message domain.Message) error
	FindMessageByID(id string) (domain.Message, error)
	FindChatHistory(userA, userB string) ([]domain.Message, error)
	FindLatestPerPartner(userID string) ([]domain.Message, error)
	FindAllMessages() ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) IMessageRepository {
	return &MessageRepository{db: db, log: log}
}

// Key layout:
//
//	msg:{id}                                -> message record
//	conv:{low}:{high}:{sent_at_padded}:{id} -> id
//	all:{sent_at_padded}:{id}               -> id
//	partner:{user}:{partner}                -> {sent_at_padded}:{id} of the latest message
//
// The 19-digit zero padding keeps lexicographic order equal to time order,
// the id breaks ties between messages sent in the same nanosecond.
func messageKey(id string) []byte { return []byte("msg:" + id) }

func conversationPrefix(userA, userB string) string {
	low, high := userA, userB
	if high < low {
		low, high = high, low
	}
	return fmt.Sprintf("conv:%s:%s:", low, high)
}

func orderedRef(m domain.Message) string {
	return fmt.Sprintf("%019d:%s", m.SentAt.UnixNano(), m.ID)
}

func partnerKey(userID, partnerID string) []byte {
	return []byte(fmt.Sprintf("partner:%s:%s", userID, partnerID))
}

// SaveMessage writes the record and its indexes atomically. Saving an
// existing id overwrites the record; index keys only depend on fields that
// never change, so status updates go through here too.
func (m *MessageRepository) SaveMessage(message domain.Message) error {
	ref := orderedRef(message)
	err := m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), encodeMessage(message)); err != nil {
			return err
		}
		if err := txn.Set([]byte(conversationPrefix(message.SenderID, message.ReceiverID)+ref), []byte(message.ID)); err != nil {
			return err
		}
		if err := txn.Set([]byte("all:"+ref), []byte(message.ID)); err != nil {
			return err
		}
		if err := setLatest(txn, partnerKey(message.SenderID, message.ReceiverID), ref); err != nil {
			return err
		}
		return setLatest(txn, partnerKey(message.ReceiverID, message.SenderID), ref)
	})
	if err != nil {
		return fmt.Errorf("%w: save message %s: %v", errors.ErrPersistence, message.ID, err)
	}
	return nil
}

func setLatest(txn *badger.Txn, key []byte, ref string) error {
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		current, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(current) >= ref {
			return nil
		}
	}
	return txn.Set(key, []byte(ref))
}

func (m *MessageRepository) FindMessageByID(id string) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id)
		return err
	})
	return message, wrapLookup(err)
}

// FindChatHistory returns both directions of the conversation, oldest first.
func (m *MessageRepository) FindChatHistory(userA, userB string) ([]domain.Message, error) {
	prefix := []byte(conversationPrefix(userA, userB))
	messages, err := m.scanIndex(prefix, false)
	if err != nil {
		return nil, fmt.Errorf("%w: chat history %s/%s: %v", errors.ErrPersistence, userA, userB, err)
	}
	return messages, nil
}

// FindAllMessages returns every stored message, newest first.
func (m *MessageRepository) FindAllMessages() ([]domain.Message, error) {
	messages, err := m.scanIndex([]byte("all:"), true)
	if err != nil {
		return nil, fmt.Errorf("%w: all messages: %v", errors.ErrPersistence, err)
	}
	return messages, nil
}

// FindLatestPerPartner returns one message per conversation partner of
// userID, the latest one, newest conversation first.
func (m *MessageRepository) FindLatestPerPartner(userID string) ([]domain.Message, error) {
	var latest []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("partner:%s:", userID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ref, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			_, id, ok := strings.Cut(string(ref), ":")
			if !ok {
				m.log.Warn("Malformed partner index entry", "key", string(it.Item().Key()))
				continue
			}
			message, err := getMessage(txn, id)
			if err != nil {
				return err
			}
			latest = append(latest, message)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: latest chats of %s: %v", errors.ErrPersistence, userID, err)
	}
	slices.SortFunc(latest, func(a, b domain.Message) int {
		return b.SentAt.Compare(a.SentAt)
	})
	return latest, nil
}

// scanIndex resolves the message ids stored under an index prefix.
func (m *MessageRepository) scanIndex(prefix []byte, reverse bool) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := prefix
		if reverse {
			// Reverse iteration starts at the last key lower or equal to seek.
			seek = append(slices.Clone(prefix), 0xFF)
		}
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, string(id))
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

func getMessage(txn *badger.Txn, id string) (domain.Message, error) {
	item, err := txn.Get(messageKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err = item.Value(func(val []byte) error {
		message, err = decodeMessage(val)
		return err
	})
	return message, err
}
