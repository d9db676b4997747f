package server

import (
	"direct-chat/domain"
	pbaccount "direct-chat/proto/account"
	pb "direct-chat/proto/chat"

	"github.com/samber/lo"
)

func toUserSummary(u domain.UserSummary) *pbaccount.UserSummary {
	return &pbaccount.UserSummary{
		Id:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String(),
	}
}

func toMessage(m domain.Message) *pb.Message {
	return &pb.Message{
		Id:         m.ID,
		Text:       m.Text,
		SenderId:   m.SenderID,
		ReceiverId: m.ReceiverID,
		SentAt:     m.SentAt,
		Status:     m.Status.String(),
	}
}

func toMessageList(messages []domain.Message) *pb.MessageList {
	return &pb.MessageList{
		Messages: lo.Map(messages, func(m domain.Message, _ int) *pb.Message { return toMessage(m) }),
	}
}

func toServerFrame(d domain.Delivery) *pb.ServerFrame {
	return &pb.ServerFrame{
		Delivery: &pb.Delivery{
			Id:         d.ID,
			Text:       d.Text,
			SentAt:     d.SentAt,
			Status:     d.Status.String(),
			SenderId:   d.SenderID,
			ReceiverId: d.ReceiverID,
		},
	}
}
