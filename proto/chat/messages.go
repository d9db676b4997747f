// Package chat holds the wire contract of the chat and admin services.
package chat

import (
	"direct-chat/proto/account"
	"time"
)

// ClientFrame is sent by the client on the Connect stream.
type ClientFrame struct {
	SendMessage *SendMessage `json:"send_message,omitempty"`
}

func (x *ClientFrame) GetSendMessage() *SendMessage {
	if x != nil {
		return x.SendMessage
	}
	return nil
}

type SendMessage struct {
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Text       string `json:"text"`
	Status     string `json:"status,omitempty"`
}

// ServerFrame is pushed by the server on Connect and Subscribe streams.
type ServerFrame struct {
	Delivery *Delivery `json:"delivery,omitempty"`
}

func (x *ServerFrame) GetDelivery() *Delivery {
	if x != nil {
		return x.Delivery
	}
	return nil
}

type Delivery struct {
	Id         string    `json:"id"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
	Status     string    `json:"status"`
	SenderId   string    `json:"sender_id"`
	ReceiverId string    `json:"receiver_id"`
}

type Message struct {
	Id         string    `json:"id"`
	Text       string    `json:"text"`
	SenderId   string    `json:"sender_id"`
	ReceiverId string    `json:"receiver_id"`
	SentAt     time.Time `json:"sent_at"`
	Status     string    `json:"status"`
}

type MessageList struct {
	Messages []*Message `json:"messages"`
}

func (x *MessageList) GetMessages() []*Message {
	if x != nil {
		return x.Messages
	}
	return nil
}

type SubscribeRequest struct{}

type ChatHistoryRequest struct {
	UserA string `json:"user_a"`
	UserB string `json:"user_b"`
}

type LatestChatsRequest struct {
	UserId string `json:"user_id"`
}

type UserDetailsRequest struct {
	UserId string `json:"user_id"`
}

type ListUsersRequest struct{}

type UserList struct {
	Users []*account.UserSummary `json:"users"`
}

type MarkSeenRequest struct {
	MessageId string `json:"message_id"`
}

type MarkSeenResponse struct {
	Message *Message `json:"message"`
}

type SearchMessagesRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit,omitempty"`
}

type AllMessagesRequest struct{}
