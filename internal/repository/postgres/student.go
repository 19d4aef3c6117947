package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.StudentStore = (*StudentRepository)(nil)

const studentColumns = `roll_number, provider_id, reg_email, first_name, last_name, mobile, linkedin,
	branch, batch, cgpa, email_verified, placed, placed_job, resume_key, resume_updated_at, created_at, updated_at`

type StudentRepository struct {
	db *Connection
}

func NewStudentRepository(db *Connection) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func scanStudent(row pgx.Row) (model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.RollNumber, &s.ProviderID, &s.Email, &s.FirstName, &s.LastName, &s.Mobile, &s.LinkedIn,
		&s.Branch, &s.Batch, &s.CGPA, &s.EmailVerified, &s.Placed, &s.PlacedJob,
		&s.ResumeKey, &s.ResumeUpdatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *StudentRepository) Create(ctx context.Context, student model.Student) (model.Student, error) {
	query := `INSERT INTO students (roll_number, provider_id, reg_email, first_name, last_name, mobile, linkedin,
			  branch, batch, email_verified)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + studentColumns

	saved, err := scanStudent(r.db.QueryRow(ctx, query,
		student.RollNumber, student.ProviderID, student.Email, student.FirstName, student.LastName,
		student.Mobile, student.LinkedIn, student.Branch, student.Batch, student.EmailVerified,
	))
	if err != nil {
		return model.Student{}, mapError(err, "create student")
	}

	return saved, nil
}

func (r *StudentRepository) GetByRoll(ctx context.Context, roll string) (model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE roll_number = $1`

	s, err := scanStudent(r.db.QueryRow(ctx, query, roll))
	if err != nil {
		return model.Student{}, mapError(err, "get student by roll")
	}
	return s, nil
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE reg_email = $1`

	s, err := scanStudent(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return model.Student{}, mapError(err, "get student by email")
	}
	return s, nil
}

func buildStudentListQuery(filter model.StudentFilter) (string, []any, error) {
	q := psql.Select(studentColumns).From("students").OrderBy("roll_number")

	if filter.Branch != "" {
		q = q.Where(sq.Eq{"branch": filter.Branch})
	}
	if filter.Batch != 0 {
		q = q.Where(sq.Eq{"batch": filter.Batch})
	}
	if len(filter.Branches) > 0 {
		q = q.Where(sq.Eq{"branch": filter.Branches})
	}
	if len(filter.Batches) > 0 {
		q = q.Where(sq.Eq{"batch": filter.Batches})
	}

	return q.ToSql()
}

func (r *StudentRepository) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	query, args, err := buildStudentListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "list students")
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, mapError(err, "scan student")
		}
		students = append(students, s)
	}

	return students, mapError(rows.Err(), "iterate students")
}

func (r *StudentRepository) UpdateProfile(ctx context.Context, roll string, update model.StudentProfileUpdate) (model.Student, error) {
	query := `UPDATE students SET
			  first_name = COALESCE($2, first_name),
			  last_name = COALESCE($3, last_name),
			  mobile = COALESCE($4, mobile),
			  linkedin = COALESCE($5, linkedin),
			  updated_at = NOW()
			  WHERE roll_number = $1
			  RETURNING ` + studentColumns

	s, err := scanStudent(r.db.QueryRow(ctx, query, roll, update.FirstName, update.LastName, update.Mobile, update.LinkedIn))
	if err != nil {
		return model.Student{}, mapError(err, "update student profile")
	}
	return s, nil
}

func (r *StudentRepository) MarkEmailVerified(ctx context.Context, roll string) error {
	const query = `UPDATE students SET email_verified = TRUE, updated_at = NOW() WHERE roll_number = $1`
	cmd, err := r.db.Exec(ctx, query, roll)
	if err != nil {
		return mapError(err, "mark student email verified")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetResume stores the resume key; an empty key with nil updatedAt clears it.
func (r *StudentRepository) SetResume(ctx context.Context, roll, key string, updatedAt *time.Time) error {
	const query = `UPDATE students SET resume_key = $2, resume_updated_at = $3, updated_at = NOW() WHERE roll_number = $1`
	cmd, err := r.db.Exec(ctx, query, roll, key, updatedAt)
	if err != nil {
		return mapError(err, "set student resume")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// UpdateCGPA applies all grades in one transaction. When any roll number is
// unknown nothing is written and the unknown rolls are returned sorted.
func (r *StudentRepository) UpdateCGPA(ctx context.Context, grades map[string]float64) ([]string, error) {
	rolls := make([]string, 0, len(grades))
	values := make([]float64, 0, len(grades))
	for roll, cgpa := range grades {
		rolls = append(rolls, roll)
		values = append(values, cgpa)
	}

	var missing []string
	err := r.db.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT roll_number FROM students WHERE roll_number = ANY($1) FOR UPDATE`, rolls)
		if err != nil {
			return mapError(err, "lock students")
		}
		known, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return mapError(err, "collect students")
		}

		found := make(map[string]struct{}, len(known))
		for _, roll := range known {
			found[roll] = struct{}{}
		}
		for _, roll := range rolls {
			if _, ok := found[roll]; !ok {
				missing = append(missing, roll)
			}
		}
		if len(missing) > 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `UPDATE students AS s SET cgpa = v.cgpa, updated_at = NOW()
			FROM unnest($1::text[], $2::numeric[]) AS v(roll, cgpa)
			WHERE s.roll_number = v.roll`, rolls, values)
		return mapError(err, "update cgpa")
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(missing)
	return missing, nil
}

func (r *StudentRepository) Stats(ctx context.Context) (model.StudentStats, error) {
	var stats model.StudentStats
	err := r.db.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE placed) FROM students`).
		Scan(&stats.Total, &stats.Placed)
	if err != nil {
		return model.StudentStats{}, mapError(err, "count students")
	}
	return stats, nil
}
