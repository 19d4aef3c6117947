package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.ApplicationStore = (*ApplicationRepository)(nil)

type ApplicationRepository struct {
	db *Connection
}

func NewApplicationRepository(db *Connection) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, app model.Application) (model.Application, error) {
	query := `INSERT INTO applications (id, job_id, student_id, form, status)
			  VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'::jsonb), $5)
			  RETURNING id, job_id, student_id, form, status, created_at, updated_at`

	var saved model.Application
	err := r.db.QueryRow(ctx, query, app.ID, app.JobID, app.StudentID, nullableForm(app.Form), string(app.Status)).Scan(
		&saved.ID, &saved.JobID, &saved.StudentID, &saved.Form, &saved.Status, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Application{}, mapError(err, "create application")
	}
	return saved, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND student_id = $2)`, jobID, studentID,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check application")
	}
	return exists, nil
}

func buildApplicationListQuery(filter model.ApplicationFilter) (string, []any, error) {
	q := psql.Select(
		"a.id", "a.job_id", "a.student_id", "a.form", "a.status", "a.created_at", "a.updated_at",
		"j.title", "j.company", "s.first_name || ' ' || s.last_name", "s.reg_email",
	).
		From("applications a").
		Join("jobs j ON j.id = a.job_id").
		Join("students s ON s.roll_number = a.student_id").
		OrderBy("a.created_at DESC")

	if filter.JobID != nil {
		q = q.Where(sq.Eq{"a.job_id": filter.JobID.String()})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"a.student_id": filter.StudentID})
	}
	if filter.CreatedBy != "" {
		q = q.Where(sq.Eq{"j.created_by": filter.CreatedBy})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	return q.ToSql()
}

func (r *ApplicationRepository) List(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	query, args, err := buildApplicationListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build application query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list applications")
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.StudentID, &a.Form, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.JobTitle, &a.Company, &a.StudentName, &a.StudentEmail,
		); err != nil {
			return nil, mapError(err, "scan application")
		}
		apps = append(apps, a)
	}

	return apps, mapError(rows.Err(), "iterate applications")
}

// UpdateStatus changes the status and, for selected, records the placement in
// the same transaction.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, jobID uuid.UUID, studentID string, status model.ApplicationStatus) error {
	return r.db.withTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx,
			`UPDATE applications SET status = $3, updated_at = NOW() WHERE job_id = $1 AND student_id = $2`,
			jobID, studentID, string(status),
		)
		if err != nil {
			return mapError(err, "update application status")
		}
		if cmd.RowsAffected() == 0 {
			return model.ErrNotFound
		}

		if status != model.ApplicationStatusSelected {
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE students SET placed = TRUE, placed_job = $2, updated_at = NOW() WHERE roll_number = $1`,
			studentID, jobID,
		)
		return mapError(err, "mark student placed")
	})
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, studentID string) (map[model.ApplicationStatus]int, error) {
	q := psql.Select("status", "COUNT(*)").From("applications").GroupBy("status")
	if studentID != "" {
		q = q.Where(sq.Eq{"student_id": studentID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build application count query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "count applications")
	}
	defer rows.Close()

	counts := make(map[model.ApplicationStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, mapError(err, "scan application count")
		}
		counts[model.ApplicationStatus(status)] = n
	}
	return counts, mapError(rows.Err(), "iterate application counts")
}
