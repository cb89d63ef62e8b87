package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
}

func TestHandleValidationError(t *testing.T) {
	err := validator.New().Struct(signup{Email: "nope"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)

	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "email must be a valid email address", fields[0].Message)
	assert.Equal(t, "name is required", fields[1].Message)
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestEventRequestToModel(t *testing.T) {
	paid := false
	req := EventRequest{
		Title:     "Hack night",
		EventType: models.EventWorkshop,
		StartDate: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC),
		Price:     15,
	}

	free := req.ToModel(9)
	assert.True(t, free.IsFree)
	assert.Zero(t, free.Price)
	assert.Equal(t, int64(9), free.OrganizerID)

	req.IsFree = &paid
	assert.Equal(t, 15.0, req.ToModel(9).Price)
}

func TestFromEvent_SpotsLeft(t *testing.T) {
	capacity := 3
	e := &models.Event{ID: 1, OrganizerID: 4, MaxAttendees: &capacity, AttendeeCount: 2}

	resp := FromEvent(e, 4, false)
	require.NotNil(t, resp.SpotsLeft)
	assert.Equal(t, 1, *resp.SpotsLeft)
	assert.True(t, resp.IsOrganizer)

	assert.False(t, FromEvent(e, 0, false).IsOrganizer)
	assert.Nil(t, FromEvent(&models.Event{}, 1, false).SpotsLeft)
}

func TestFromConnectionDirection(t *testing.T) {
	c := &models.Connection{ID: 1, SenderID: 1, ReceiverID: 2, Status: models.ConnectionPending}
	assert.Equal(t, "sent", FromConnection(c, 1, nil).Direction)
	assert.Equal(t, "received", FromConnection(c, 2, nil).Direction)
}
