package repositories

import (
	"direct-chat/domain"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Badger values are protobuf wire-format records. Field numbers are stable:
// add new fields with new numbers, never reuse one.
const (
	userFieldID           protowire.Number = 1
	userFieldName         protowire.Number = 2
	userFieldEmail        protowire.Number = 3
	userFieldPasswordHash protowire.Number = 4
	userFieldRole         protowire.Number = 5
	userFieldCreatedAt    protowire.Number = 6

	messageFieldID         protowire.Number = 1
	messageFieldText       protowire.Number = 2
	messageFieldSenderID   protowire.Number = 3
	messageFieldReceiverID protowire.Number = 4
	messageFieldSentAt     protowire.Number = 5
	messageFieldStatus     protowire.Number = 6
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

func encodeUser(u domain.User) []byte {
	var b []byte
	b = appendString(b, userFieldID, u.ID)
	b = appendString(b, userFieldName, u.Name)
	b = appendString(b, userFieldEmail, u.Email)
	b = appendString(b, userFieldPasswordHash, u.PasswordHash)
	b = appendString(b, userFieldRole, string(u.Role))
	b = appendTime(b, userFieldCreatedAt, u.CreatedAt)
	return b
}

func decodeUser(b []byte) (domain.User, error) {
	var u domain.User
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == userFieldCreatedAt && typ == protowire.VarintType:
			nanos, n := protowire.ConsumeVarint(v)
			u.CreatedAt = time.Unix(0, int64(nanos)).UTC()
			return n, nil
		case typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			switch num {
			case userFieldID:
				u.ID = s
			case userFieldName:
				u.Name = s
			case userFieldEmail:
				u.Email = s
			case userFieldPasswordHash:
				u.PasswordHash = s
			case userFieldRole:
				u.Role = domain.Role(s)
			}
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func encodeMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID)
	b = appendString(b, messageFieldText, m.Text)
	b = appendString(b, messageFieldSenderID, m.SenderID)
	b = appendString(b, messageFieldReceiverID, m.ReceiverID)
	b = appendTime(b, messageFieldSentAt, m.SentAt)
	b = appendString(b, messageFieldStatus, string(m.Status))
	return b
}

func decodeMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == messageFieldSentAt && typ == protowire.VarintType:
			nanos, n := protowire.ConsumeVarint(v)
			m.SentAt = time.Unix(0, int64(nanos)).UTC()
			return n, nil
		case typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			switch num {
			case messageFieldID:
				m.ID = s
			case messageFieldText:
				m.Text = s
			case messageFieldSenderID:
				m.SenderID = s
			case messageFieldReceiverID:
				m.ReceiverID = s
			case messageFieldStatus:
				m.Status = domain.Status(s)
			}
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// consumeFields walks a record tag by tag. Unknown fields are skipped.
func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}
