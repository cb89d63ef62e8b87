package services

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// ConnectionService manages connection requests between members
type ConnectionService interface {
	RequestConnection(ctx context.Context, senderID int64, req *dto.CreateConnectionRequest) (*dto.ConnectionResponse, error)
	RespondConnection(ctx context.Context, receiverID, connectionID int64, action models.ResponseAction) (*dto.ConnectionResponse, error)
	ListMyConnections(ctx context.Context, userID int64) (*dto.ConnectionsResponse, error)
}

type connectionServiceImpl struct {
	connections ConnectionStore
	users       UserStore
	notifier    Notifier
	logger      zerolog.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(connections ConnectionStore, users UserStore, notifier Notifier, logger zerolog.Logger) ConnectionService {
	return &connectionServiceImpl{
		connections: connections,
		users:       users,
		notifier:    notifier,
		logger:      logger,
	}
}

// RequestConnection opens a pending connection. Only one connection may exist per pair of users, in either direction.
func (s *connectionServiceImpl) RequestConnection(ctx context.Context, senderID int64, req *dto.CreateConnectionRequest) (*dto.ConnectionResponse, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.NewBadRequestError("you cannot connect with yourself")
	}

	receiver, err := s.users.FindByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	exists, err := s.connections.ExistsBetween(ctx, senderID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("a connection with this user already exists")
	}

	conn := &models.Connection{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Status:     models.ConnectionPending,
		Message:    req.Message,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "connection",
		AggregateID:   conn.ID,
		EventType:     models.EventConnectionRequested,
		RecipientID:   conn.ReceiverID,
		ActorID:       senderID,
	})

	resp := dto.FromConnection(conn, senderID, receiver)
	return &resp, nil
}

// RespondConnection accepts or declines a pending request addressed to receiverID
func (s *connectionServiceImpl) RespondConnection(ctx context.Context, receiverID, connectionID int64, action models.ResponseAction) (*dto.ConnectionResponse, error) {
	var target models.ConnectionStatus
	switch action {
	case models.ActionAccept:
		target = models.ConnectionAccepted
	case models.ActionDecline:
		target = models.ConnectionDeclined
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown action %q", action))
	}

	conn, err := s.connections.FindForReceiver(ctx, connectionID, receiverID)
	if err != nil {
		return nil, err
	}
	if conn.Status != models.ConnectionPending {
		return nil, apperrors.NewConflictError("this request has already been answered")
	}

	if err := s.connections.Transition(ctx, conn.ID, models.ConnectionPending, target); err != nil {
		return nil, err
	}
	conn.Status = target

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "connection",
		AggregateID:   conn.ID,
		EventType:     models.EventConnectionResponded,
		RecipientID:   conn.SenderID,
		ActorID:       receiverID,
		Data:          map[string]interface{}{"status": string(target)},
	})

	sender, err := s.users.FindByID(ctx, conn.SenderID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromConnection(conn, receiverID, sender)
	return &resp, nil
}

// ListMyConnections groups the user's connections into accepted, sent and received pending
func (s *connectionServiceImpl) ListMyConnections(ctx context.Context, userID int64) (*dto.ConnectionsResponse, error) {
	conns, err := s.connections.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(conns))
	for i := range conns {
		ids = append(ids, conns[i].Counterpart(userID))
	}
	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConnectionsResponse{
		Accepted:        []dto.ConnectionResponse{},
		SentPending:     []dto.ConnectionResponse{},
		ReceivedPending: []dto.ConnectionResponse{},
	}
	for i := range conns {
		c := &conns[i]
		item := dto.FromConnection(c, userID, users[c.Counterpart(userID)])
		switch {
		case c.Status == models.ConnectionAccepted:
			resp.Accepted = append(resp.Accepted, item)
		case c.Status == models.ConnectionPending && c.SenderID == userID:
			resp.SentPending = append(resp.SentPending, item)
		case c.Status == models.ConnectionPending:
			resp.ReceivedPending = append(resp.ReceivedPending, item)
		}
	}
	return resp, nil
}
