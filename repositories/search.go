//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_index.go -package=mocks
package repositories

import (
	"context"
	"direct-chat/domain"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
)

const DefaultSearchLimit = 20

const (
	fieldText       = "text"
	fieldSenderID   = "sender_id"
	fieldReceiverID = "receiver_id"
	fieldSentAt     = "sent_at"
)

type ISearchIndex interface {
	Index(delivery domain.Delivery) error
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

// SearchIndex keeps a full-text index of delivered messages.
// It is fed by the broadcast fan-out and never gates a delivery.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

// Consume lets the index subscribe to the broadcast fan-out.
func (s *SearchIndex) Consume(_ context.Context, delivery domain.Delivery) error {
	if err := s.Index(delivery); err != nil {
		s.log.Warn("Message not indexed", "message_id", delivery.ID, "error", err)
		return err
	}
	return nil
}

func (s *SearchIndex) Index(delivery domain.Delivery) error {
	doc := bluge.NewDocument(delivery.ID).
		AddField(bluge.NewTextField(fieldText, delivery.Text)).
		AddField(bluge.NewKeywordField(fieldSenderID, delivery.SenderID)).
		AddField(bluge.NewKeywordField(fieldReceiverID, delivery.ReceiverID)).
		AddField(bluge.NewDateTimeField(fieldSentAt, delivery.SentAt).StoreValue())

	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", delivery.ID, err)
	}
	return nil
}

// Search returns the ids of messages matching query in conversations userID
// takes part in, best score first.
func (s *SearchIndex) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	participant := bluge.NewBooleanQuery().
		AddShould(bluge.NewTermQuery(userID).SetField(fieldSenderID)).
		AddShould(bluge.NewTermQuery(userID).SetField(fieldReceiverID)).
		SetMinShould(1)
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField(fieldText)).
		AddMust(participant)

	reader, err := s.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open search reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("read search results: %w", err)
	}
	return ids, nil
}
