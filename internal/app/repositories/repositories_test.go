package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func lockedEventRows(id, organizerID int64, capacity *int) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "organizer_id", "max_attendees", "registration_deadline", "is_active"}).
		AddRow(id, organizerID, capacity, (*time.Time)(nil), true)
}

func TestPageOffsetLimit(t *testing.T) {
	tests := []struct {
		name   string
		page   Page
		offset uint64
		limit  uint64
	}{
		{"defaults", Page{}, 0, 10},
		{"second page", Page{Number: 2, Size: 12}, 12, 12},
		{"negative page clamps to first", Page{Number: -3, Size: 5}, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := tt.page.offsetLimit()
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRegistrationRepository(mock)
	capacity := 2
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(10)).WillReturnRows(lockedEventRows(10, 1, &capacity))
	mock.ExpectQuery("FROM event_registrations WHERE event_id").WithArgs(int64(10), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "bool_or"}).AddRow(1, false))
	mock.ExpectQuery("INSERT INTO event_registrations").WithArgs(int64(10), int64(2), models.RegistrationRegistered).
		WillReturnRows(pgxmock.NewRows([]string{"id", "event_id", "user_id", "status", "notes", "registered_at"}).
			AddRow(int64(7), int64(10), int64(2), models.RegistrationRegistered, "", now))
	mock.ExpectCommit()

	var seen models.RegistrationSnapshot
	reg, err := repo.Register(context.Background(), 10, 2, func(s models.RegistrationSnapshot) error {
		seen = s
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), reg.ID)
	assert.Equal(t, 1, seen.RegisteredCount)
	assert.False(t, seen.AlreadyRegistered)
	assert.Equal(t, int64(1), seen.Event.OrganizerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_GuardRejectsRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRegistrationRepository(mock)
	capacity := 2

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(10)).WillReturnRows(lockedEventRows(10, 1, &capacity))
	mock.ExpectQuery("FROM event_registrations WHERE event_id").WithArgs(int64(10), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "bool_or"}).AddRow(2, false))
	mock.ExpectRollback()

	_, err := repo.Register(context.Background(), 10, 3, func(s models.RegistrationSnapshot) error {
		if s.Event.IsFull(s.RegisteredCount) {
			return apperrors.NewCapacityExceededError("event is full")
		}
		return nil
	})

	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateInsertIsConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRegistrationRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(10)).WillReturnRows(lockedEventRows(10, 1, nil))
	mock.ExpectQuery("FROM event_registrations WHERE event_id").WithArgs(int64(10), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "bool_or"}).AddRow(0, false))
	mock.ExpectQuery("INSERT INTO event_registrations").
		WithArgs(int64(10), int64(2), models.RegistrationRegistered).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_event_registrations_event_user"})
	mock.ExpectRollback()

	_, err := repo.Register(context.Background(), 10, 2, func(models.RegistrationSnapshot) error { return nil })

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_MissingEvent(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRegistrationRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Register(context.Background(), 99, 2, func(models.RegistrationSnapshot) error { return nil })

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnregister_NotRegistered(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRegistrationRepository(mock)

	mock.ExpectExec("DELETE FROM event_registrations").WithArgs(int64(10), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Unregister(context.Background(), 10, 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike(t *testing.T) {
	t.Run("adds a like when none exists", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM post_likes").WithArgs(int64(5), int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("INSERT INTO post_likes").WithArgs(int64(5), int64(1)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery("SELECT COUNT").WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectCommit()

		res, err := repo.ToggleLike(context.Background(), 5, 1)
		require.NoError(t, err)
		assert.True(t, res.Liked)
		assert.Equal(t, 1, res.LikeCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removes an existing like", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostRepository(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM post_likes").WithArgs(int64(5), int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectQuery("SELECT COUNT").WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectCommit()

		res, err := repo.ToggleLike(context.Background(), 5, 1)
		require.NoError(t, err)
		assert.False(t, res.Liked)
		assert.Equal(t, 0, res.LikeCount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestConnectionCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		pgErr  *pgconn.PgError
		target error
	}{
		{"duplicate pair", &pgconn.PgError{Code: "23505", ConstraintName: "uq_connections_pair"}, apperrors.ErrConflict},
		{"self connection", &pgconn.PgError{Code: "23514", ConstraintName: "chk_connections_not_self"}, apperrors.ErrBadRequest},
		{"unknown receiver", &pgconn.PgError{Code: "23503"}, apperrors.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewConnectionRepository(mock)

			mock.ExpectQuery("INSERT INTO connections").
				WithArgs(int64(1), int64(2), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(tt.pgErr)

			err := repo.Create(context.Background(), &models.Connection{SenderID: 1, ReceiverID: 2})
			assert.ErrorIs(t, err, tt.target)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConnectionTransition_AlreadyAnswered(t *testing.T) {
	mock := newMock(t)
	repo := NewConnectionRepository(mock)

	mock.ExpectExec("UPDATE connections SET status").
		WithArgs(models.ConnectionAccepted, int64(3), models.ConnectionPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Transition(context.Background(), 3, models.ConnectionPending, models.ConnectionAccepted)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobApplicationCreate_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewJobApplicationRepository(mock)

	mock.ExpectQuery("INSERT INTO job_applications").
		WithArgs(int64(4), int64(2), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_job_applications_job_applicant"})

	err := repo.Create(context.Background(), &models.JobApplication{JobID: 4, ApplicantID: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.c", "a", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), models.RoleAlumni).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.c", Username: "a", RoleType: models.RoleAlumni})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascade(t *testing.T) {
	t.Run("runs every step then deletes the user", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectBegin()
		for _, step := range userCascade {
			mock.ExpectExec(regexp.QuoteMeta(step.query)).WithArgs(int64(8)).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
		}
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).WithArgs(int64(8)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteCascade(context.Background(), 8))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		mock := newMock(t)
		repo := NewUserRepository(mock)

		mock.ExpectBegin()
		for _, step := range userCascade {
			mock.ExpectExec(regexp.QuoteMeta(step.query)).WithArgs(int64(8)).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
		}
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).WithArgs(int64(8)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		err := repo.DeleteCascade(context.Background(), 8)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCascadeCoversOwnedTables(t *testing.T) {
	tables := map[string]bool{}
	for _, step := range userCascade {
		tables[step.name] = true
	}
	for _, name := range []string{"posts", "comments", "post likes", "messages", "events", "event registrations",
		"jobs", "job applications", "connections", "mentorship requests", "profile", "directory entry"} {
		assert.True(t, tables[name], "cascade is missing %s", name)
	}
}

func TestBuildDirectoryQuery(t *testing.T) {
	year := 2018
	sql, args, err := buildDirectoryQuery(psql.Select("COUNT(*)"), DirectoryFilter{
		ViewerID:       4,
		Search:         "go",
		GraduationYear: &year,
		Roles:          []models.RoleType{models.RoleAlumni},
		MentorsOnly:    true,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "COALESCE(d.is_public, TRUE)")
	assert.Contains(t, sql, "u.id <> $1")
	assert.Contains(t, sql, "u.role_type IN")
	assert.Contains(t, sql, "u.first_name ILIKE")
	assert.Contains(t, sql, "p.graduation_year = $")
	assert.Contains(t, sql, "p.is_mentor = $")
	assert.Contains(t, args, "%go%")
	assert.Contains(t, args, int64(4))
}

func TestBuildEventListQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	virtual := true

	upcoming, _, err := buildEventListQuery(psql.Select("COUNT(*)"), EventFilter{Now: now}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, upcoming, "e.start_date >= $")

	past, args, err := buildEventListQuery(psql.Select("COUNT(*)"), EventFilter{
		Time: EventsPast, Now: now, EventType: models.EventWorkshop, IsVirtual: &virtual,
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, past, "e.start_date < $")
	assert.Contains(t, past, "e.event_type = $")
	assert.Contains(t, past, "e.is_virtual = $")
	assert.Contains(t, args, "workshop")

	all, _, err := buildEventListQuery(psql.Select("COUNT(*)"), EventFilter{Time: EventsAll, Now: now}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, all, "start_date")
}
