package repositories

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/db"
)

// idSet runs a single-column id query and collects the results into a lookup set
func idSet(ctx context.Context, q db.Querier, sql string, args ...interface{}) (map[int64]bool, error) {
	set := make(map[int64]bool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

// RegisteredAmong returns which of eventIDs the user holds a registration for
func (r *EventRegistrationRepository) RegisteredAmong(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
	if len(eventIDs) == 0 || userID == 0 {
		return map[int64]bool{}, nil
	}
	return idSet(ctx, r.db, `
		SELECT event_id FROM event_registrations WHERE user_id = $1 AND event_id = ANY($2)`, userID, eventIDs)
}

// AppliedAmong returns which of jobIDs the user has applied to
func (r *JobApplicationRepository) AppliedAmong(ctx context.Context, userID int64, jobIDs []int64) (map[int64]bool, error) {
	if len(jobIDs) == 0 || userID == 0 {
		return map[int64]bool{}, nil
	}
	return idSet(ctx, r.db, `
		SELECT job_id FROM job_applications WHERE applicant_id = $1 AND job_id = ANY($2)`, userID, jobIDs)
}
