package services

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// MentorshipService manages mentorship requests
type MentorshipService interface {
	RequestMentorship(ctx context.Context, menteeID int64, req *dto.CreateMentorshipRequest) (*dto.MentorshipResponse, error)
	RespondMentorship(ctx context.Context, mentorID, requestID int64, action models.ResponseAction) (*dto.MentorshipResponse, error)
	ListMyMentorships(ctx context.Context, userID int64) (*dto.MentorshipsResponse, error)
}

type mentorshipServiceImpl struct {
	mentorships MentorshipStore
	profiles    ProfileStore
	users       UserStore
	notifier    Notifier
	logger      zerolog.Logger
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(mentorships MentorshipStore, profiles ProfileStore, users UserStore, notifier Notifier, logger zerolog.Logger) MentorshipService {
	return &mentorshipServiceImpl{
		mentorships: mentorships,
		profiles:    profiles,
		users:       users,
		notifier:    notifier,
		logger:      logger,
	}
}

// RequestMentorship asks a mentor for guidance. Repeated requests to the same mentor are allowed.
func (s *mentorshipServiceImpl) RequestMentorship(ctx context.Context, menteeID int64, req *dto.CreateMentorshipRequest) (*dto.MentorshipResponse, error) {
	if req.MentorID == menteeID {
		return nil, apperrors.NewBadRequestError("you cannot request mentorship from yourself")
	}

	isMentor, err := s.profiles.IsMentor(ctx, req.MentorID)
	if err != nil {
		return nil, err
	}
	if !isMentor {
		return nil, apperrors.NewResourceNotFoundError("mentor not found")
	}

	mentor, err := s.users.FindByID(ctx, req.MentorID)
	if err != nil {
		return nil, err
	}

	m := &models.MentorshipRequest{
		MenteeID: menteeID,
		MentorID: req.MentorID,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.MentorshipPending,
	}
	if err := s.mentorships.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "mentorship",
		AggregateID:   m.ID,
		EventType:     models.EventMentorshipRequested,
		RecipientID:   m.MentorID,
		ActorID:       menteeID,
		Data:          map[string]interface{}{"subject": m.Subject},
	})

	resp := dto.FromMentorship(m, menteeID, mentor)
	return &resp, nil
}

// RespondMentorship lets the mentor accept or decline a pending request
func (s *mentorshipServiceImpl) RespondMentorship(ctx context.Context, mentorID, requestID int64, action models.ResponseAction) (*dto.MentorshipResponse, error) {
	var target models.MentorshipStatus
	switch action {
	case models.ActionAccept:
		target = models.MentorshipAccepted
	case models.ActionDecline:
		target = models.MentorshipDeclined
	default:
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown action %q", action))
	}

	m, err := s.mentorships.FindForMentor(ctx, requestID, mentorID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.MentorshipPending {
		return nil, apperrors.NewConflictError("this request has already been answered")
	}

	if err := s.mentorships.Transition(ctx, m.ID, models.MentorshipPending, target); err != nil {
		return nil, err
	}
	m.Status = target

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "mentorship",
		AggregateID:   m.ID,
		EventType:     models.EventMentorshipResponded,
		RecipientID:   m.MenteeID,
		ActorID:       mentorID,
		Data:          map[string]interface{}{"status": string(target)},
	})

	mentee, err := s.users.FindByID(ctx, m.MenteeID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromMentorship(m, mentorID, mentee)
	return &resp, nil
}

// ListMyMentorships splits the user's requests into the ones sent as mentee and received as mentor
func (s *mentorshipServiceImpl) ListMyMentorships(ctx context.Context, userID int64) (*dto.MentorshipsResponse, error) {
	list, err := s.mentorships.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].MenteeID, list[i].MentorID)
	}
	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.MentorshipsResponse{
		Sent:     []dto.MentorshipResponse{},
		Received: []dto.MentorshipResponse{},
	}
	for i := range list {
		m := &list[i]
		if m.MenteeID == userID {
			resp.Sent = append(resp.Sent, dto.FromMentorship(m, userID, users[m.MentorID]))
		} else {
			resp.Received = append(resp.Received, dto.FromMentorship(m, userID, users[m.MenteeID]))
		}
	}
	return resp, nil
}
