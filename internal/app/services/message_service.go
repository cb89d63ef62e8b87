package services

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// MessageService handles private messages
type MessageService interface {
	SendMessage(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	Inbox(ctx context.Context, userID int64) (*dto.InboxResponse, error)
	GetMessage(ctx context.Context, userID, messageID int64) (*dto.MessageResponse, error)
}

type messageServiceImpl struct {
	messages MessageStore
	users    UserStore
	notifier Notifier
	live     LivePusher
	clock    clock.Clock
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages MessageStore,
	users UserStore,
	notifier Notifier,
	live LivePusher,
	clk clock.Clock,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messages: messages,
		users:    users,
		notifier: notifier,
		live:     live,
		clock:    clk,
		logger:   logger,
	}
}

// SendMessage stores the message and pushes it to the receiver's open sockets
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.NewBadRequestError("you cannot message yourself")
	}

	users, err := loadUsers(ctx, s.users, []int64{senderID, req.ReceiverID})
	if err != nil {
		return nil, err
	}
	if users[req.ReceiverID] == nil {
		return nil, apperrors.NewResourceNotFoundError("receiver not found")
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.Sender = users[senderID]
	msg.Receiver = users[req.ReceiverID]

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "message",
		AggregateID:   msg.ID,
		EventType:     models.EventMessageSent,
		RecipientID:   msg.ReceiverID,
		ActorID:       senderID,
	})

	resp := dto.FromMessage(msg)
	if s.live != nil {
		s.live.SendToUser(msg.ReceiverID, websocket.Frame{
			Type:      websocket.FrameMessageNew,
			Data:      resp,
			Timestamp: s.clock.Now(),
		})
	}
	return &resp, nil
}

// Inbox lists received and sent messages, newest first
func (s *messageServiceImpl) Inbox(ctx context.Context, userID int64) (*dto.InboxResponse, error) {
	received, err := s.messages.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.messages.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(received)+len(sent))
	for i := range received {
		ids = append(ids, received[i].SenderID, received[i].ReceiverID)
	}
	for i := range sent {
		ids = append(ids, sent[i].SenderID, sent[i].ReceiverID)
	}
	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	return &dto.InboxResponse{
		Received:    messageResponses(received, users),
		Sent:        messageResponses(sent, users),
		UnreadCount: unread,
	}, nil
}

// GetMessage returns a message to one of its participants. Reading it as the receiver marks it read.
func (s *messageServiceImpl) GetMessage(ctx context.Context, userID, messageID int64) (*dto.MessageResponse, error) {
	msg, err := s.messages.FindForParticipant(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}

	if msg.ReceiverID == userID && !msg.IsRead {
		if err := s.messages.MarkRead(ctx, msg.ID, userID); err != nil {
			return nil, err
		}
		msg.IsRead = true
	}

	users, err := loadUsers(ctx, s.users, []int64{msg.SenderID, msg.ReceiverID})
	if err != nil {
		return nil, err
	}
	msg.Sender = users[msg.SenderID]
	msg.Receiver = users[msg.ReceiverID]

	resp := dto.FromMessage(msg)
	return &resp, nil
}

func messageResponses(list []models.Message, users map[int64]*models.User) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(list))
	for i := range list {
		m := &list[i]
		m.Sender = users[m.SenderID]
		m.Receiver = users[m.ReceiverID]
		out = append(out, dto.FromMessage(m))
	}
	return out
}
