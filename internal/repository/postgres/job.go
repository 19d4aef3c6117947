package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.JobStore = (*JobRepository)(nil)

const jobColumns = `id, title, description, jd_key, location, package, company, type, recruiter_id,
	created_by, eligibility, deadline, form, status, created_at, updated_at`

// packageOrder sorts "12 LPA" style packages by their numeric part.
const packageOrder = `NULLIF(regexp_replace(package, '[^0-9.]', '', 'g'), '')::numeric`

type JobRepository struct {
	db *Connection
}

func NewJobRepository(db *Connection) *JobRepository {
	return &JobRepository{
		db: db,
	}
}

func scanJob(row pgx.Row) (model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.JDKey, &j.Location, &j.Package, &j.Company, &j.Type, &j.RecruiterID,
		&j.CreatedBy, &j.Eligibility, &j.Deadline, &j.Form, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func nullableForm(form map[string]any) any {
	if form == nil {
		return nil
	}
	return form
}

func (r *JobRepository) Create(ctx context.Context, job model.Job) (model.Job, error) {
	query := `INSERT INTO jobs (id, title, description, jd_key, location, package, company, type, recruiter_id,
			  created_by, eligibility, deadline, form, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13::jsonb, '{}'::jsonb), $14)
			  RETURNING ` + jobColumns

	saved, err := scanJob(r.db.QueryRow(ctx, query,
		job.ID, job.Title, job.Description, job.JDKey, job.Location, job.Package, job.Company, string(job.Type),
		job.RecruiterID, job.CreatedBy, job.Eligibility, job.Deadline, nullableForm(job.Form), string(job.Status),
	))
	if err != nil {
		return model.Job{}, mapError(err, "create job")
	}
	return saved, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return model.Job{}, mapError(err, "get job")
	}
	return j, nil
}

func buildJobListQuery(filter model.JobFilter) (string, []any, error) {
	q := psql.Select(jobColumns).From("jobs")

	if filter.Type != "" {
		q = q.Where(sq.Eq{"type": string(filter.Type)})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.CreatedBy != "" {
		q = q.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{sq.ILike{"title": pattern}, sq.ILike{"company": pattern}})
	}

	dir := "DESC"
	if filter.Ascending {
		dir = "ASC"
	}
	switch filter.SortBy {
	case model.JobSortPackage:
		q = q.OrderBy(packageOrder+" "+dir+" NULLS LAST", "created_at DESC")
	default:
		q = q.OrderBy("created_at " + dir)
	}

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	return q.ToSql()
}

func (r *JobRepository) List(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	query, args, err := buildJobListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build job query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, mapError(err, "scan job")
		}
		jobs = append(jobs, j)
	}

	return jobs, mapError(rows.Err(), "iterate jobs")
}

func (r *JobRepository) Update(ctx context.Context, id uuid.UUID, update model.JobUpdate) (model.Job, error) {
	var jobType *string
	if update.Type != nil {
		t := string(*update.Type)
		jobType = &t
	}
	var eligibility any
	if update.Eligibility != nil {
		eligibility = *update.Eligibility
	}

	query := `UPDATE jobs SET
			  title = COALESCE($2, title),
			  description = COALESCE($3, description),
			  location = COALESCE($4, location),
			  package = COALESCE($5, package),
			  company = COALESCE($6, company),
			  type = COALESCE($7, type),
			  eligibility = COALESCE($8::jsonb, eligibility),
			  deadline = COALESCE($9, deadline),
			  form = COALESCE($10::jsonb, form),
			  updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + jobColumns

	j, err := scanJob(r.db.QueryRow(ctx, query, id,
		update.Title, update.Description, update.Location, update.Package, update.Company,
		jobType, eligibility, update.Deadline, nullableForm(update.Form),
	))
	if err != nil {
		return model.Job{}, mapError(err, "update job")
	}
	return j, nil
}

func (r *JobRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.JobStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return mapError(err, "set job status")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *JobRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.JobStatus) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), string(to))
	if err != nil {
		return mapError(err, "transition job status")
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(err, "check job")
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrStatusChanged
}

func (r *JobRepository) SetJDKey(ctx context.Context, id uuid.UUID, key string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE jobs SET jd_key = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		return mapError(err, "set job description key")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[model.JobStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, mapError(err, "count jobs")
	}
	defer rows.Close()

	counts := make(map[model.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, mapError(err, "scan job count")
		}
		counts[model.JobStatus(status)] = n
	}
	return counts, mapError(rows.Err(), "iterate job counts")
}
