package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.RecruiterStore = (*RecruiterRepository)(nil)

const recruiterColumns = `id, company_name, name, email, is_verified, created_at, updated_at`

type RecruiterRepository struct {
	db *Connection
}

func NewRecruiterRepository(db *Connection) *RecruiterRepository {
	return &RecruiterRepository{
		db: db,
	}
}

func scanRecruiter(row pgx.Row) (model.Recruiter, error) {
	var rc model.Recruiter
	err := row.Scan(&rc.ID, &rc.CompanyName, &rc.Name, &rc.Email, &rc.IsVerified, &rc.CreatedAt, &rc.UpdatedAt)
	return rc, err
}

func (r *RecruiterRepository) Create(ctx context.Context, recruiter model.Recruiter) (model.Recruiter, error) {
	query := `INSERT INTO recruiters (id, company_name, name, email, is_verified)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + recruiterColumns

	saved, err := scanRecruiter(r.db.QueryRow(ctx, query,
		recruiter.ID, recruiter.CompanyName, recruiter.Name, recruiter.Email, recruiter.IsVerified,
	))
	if err != nil {
		return model.Recruiter{}, mapError(err, "create recruiter")
	}
	return saved, nil
}

func (r *RecruiterRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Recruiter, error) {
	rc, err := scanRecruiter(r.db.QueryRow(ctx, `SELECT `+recruiterColumns+` FROM recruiters WHERE id = $1`, id))
	if err != nil {
		return model.Recruiter{}, mapError(err, "get recruiter")
	}
	return rc, nil
}

// List returns unverified recruiters first, then orders by company name.
func (r *RecruiterRepository) List(ctx context.Context) ([]model.Recruiter, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recruiterColumns+` FROM recruiters ORDER BY is_verified ASC, company_name ASC`)
	if err != nil {
		return nil, mapError(err, "list recruiters")
	}
	defer rows.Close()

	var recruiters []model.Recruiter
	for rows.Next() {
		rc, err := scanRecruiter(rows)
		if err != nil {
			return nil, mapError(err, "scan recruiter")
		}
		recruiters = append(recruiters, rc)
	}
	return recruiters, mapError(rows.Err(), "iterate recruiters")
}

func (r *RecruiterRepository) Verify(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE recruiters SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "verify recruiter")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *RecruiterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM recruiters WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete recruiter")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *RecruiterRepository) CountUnverified(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recruiters WHERE NOT is_verified`).Scan(&n); err != nil {
		return 0, mapError(err, "count unverified recruiters")
	}
	return n, nil
}
