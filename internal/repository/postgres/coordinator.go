package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.CoordinatorStore = (*CoordinatorRepository)(nil)

const coordinatorColumns = `id, provider_id, name, email, email_verified, created_at, updated_at`

type CoordinatorRepository struct {
	db *Connection
}

func NewCoordinatorRepository(db *Connection) *CoordinatorRepository {
	return &CoordinatorRepository{
		db: db,
	}
}

func scanCoordinator(row pgx.Row) (model.Coordinator, error) {
	var c model.Coordinator
	err := row.Scan(&c.ID, &c.ProviderID, &c.Name, &c.Email, &c.EmailVerified, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CoordinatorRepository) Create(ctx context.Context, coordinator model.Coordinator) (model.Coordinator, error) {
	query := `INSERT INTO coordinators (id, provider_id, name, email, email_verified)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + coordinatorColumns

	saved, err := scanCoordinator(r.db.QueryRow(ctx, query,
		coordinator.ID, coordinator.ProviderID, coordinator.Name, coordinator.Email, coordinator.EmailVerified,
	))
	if err != nil {
		return model.Coordinator{}, mapError(err, "create coordinator")
	}
	return saved, nil
}

func (r *CoordinatorRepository) GetByID(ctx context.Context, id string) (model.Coordinator, error) {
	c, err := scanCoordinator(r.db.QueryRow(ctx, `SELECT `+coordinatorColumns+` FROM coordinators WHERE id = $1`, id))
	if err != nil {
		return model.Coordinator{}, mapError(err, "get coordinator by id")
	}
	return c, nil
}

func (r *CoordinatorRepository) GetByEmail(ctx context.Context, email string) (model.Coordinator, error) {
	c, err := scanCoordinator(r.db.QueryRow(ctx, `SELECT `+coordinatorColumns+` FROM coordinators WHERE email = $1`, email))
	if err != nil {
		return model.Coordinator{}, mapError(err, "get coordinator by email")
	}
	return c, nil
}

func (r *CoordinatorRepository) MarkEmailVerified(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE coordinators SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "mark coordinator email verified")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
