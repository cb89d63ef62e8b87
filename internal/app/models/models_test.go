package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventGuards(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	capacity := 2

	e := &Event{MaxAttendees: &capacity, RegistrationDeadline: &deadline}

	assert.False(t, e.IsFull(1))
	assert.True(t, e.IsFull(2))
	assert.False(t, e.RegistrationClosed(now))
	assert.True(t, e.RegistrationClosed(deadline.Add(time.Second)))

	open := &Event{}
	assert.False(t, open.IsFull(1000))
	assert.False(t, open.RegistrationClosed(now))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&User{FirstName: "Jane", LastName: "Doe"}).FullName())
	assert.Equal(t, "Doe", (&User{LastName: "Doe"}).FullName())
	assert.Equal(t, "jdoe", (&User{Username: "jdoe"}).FullName())
}

func TestConnectionCounterpart(t *testing.T) {
	c := &Connection{SenderID: 1, ReceiverID: 2}
	assert.Equal(t, int64(2), c.Counterpart(1))
	assert.Equal(t, int64(1), c.Counterpart(2))
}

func TestRoleTypeValid(t *testing.T) {
	assert.True(t, RoleAlumni.Valid())
	assert.False(t, RoleType("admin").Valid())
}
