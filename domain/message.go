// Package domain contains core concepts of the chat system.
// This file defines direct messages, their status and the delivery projection.
package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusSeen      Status = "SEEN"
)

var statusRank = map[Status]int{
	StatusSent:      0,
	StatusDelivered: 1,
	StatusSeen:      2,
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusRank[status]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}

func (s Status) String() string { return string(s) }

// CanTransitionTo reports whether a message may move from s to next.
// Status only moves forward; staying in place is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Message is a persisted direct message.
// Sender and receiver are ids, the message never owns the users.
type Message struct {
	ID         string
	Text       string
	SenderID   string
	ReceiverID string
	SentAt     time.Time
	Status     Status
}

// Involves reports whether userID is the sender or the receiver.
func (m Message) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// PartnerOf returns the other side of the conversation for userID.
func (m Message) PartnerOf(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

func (m Message) Delivery() Delivery {
	return Delivery{
		ID:         m.ID,
		Text:       m.Text,
		SentAt:     m.SentAt,
		Status:     m.Status,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
	}
}

// Delivery is what live recipients receive.
// It is a value copy, decoupled from the stored record.
type Delivery struct {
	ID         string
	Text       string
	SentAt     time.Time
	Status     Status
	SenderID   string
	ReceiverID string
}
