package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

// AccountRepository resolves gate accounts from the table the role selects.
type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) GetAccount(ctx context.Context, role model.Role, id string) (model.Account, error) {
	var query string
	switch role {
	case model.RoleStudent:
		query = `SELECT roll_number, provider_id, reg_email, email_verified FROM students WHERE roll_number = $1`
	case model.RoleTAP:
		query = `SELECT id, provider_id, email, email_verified FROM coordinators WHERE id = $1`
	default:
		return model.Account{}, fmt.Errorf("unknown role %q", role)
	}

	acc := model.Account{Role: role}
	err := r.db.QueryRow(ctx, query, id).Scan(&acc.ID, &acc.ProviderID, &acc.Email, &acc.EmailVerified)
	if err != nil {
		return model.Account{}, mapError(err, "get account")
	}
	return acc, nil
}

func (r *AccountRepository) MarkEmailVerified(ctx context.Context, role model.Role, id string) error {
	var query string
	switch role {
	case model.RoleStudent:
		query = `UPDATE students SET email_verified = TRUE, updated_at = NOW() WHERE roll_number = $1`
	case model.RoleTAP:
		query = `UPDATE coordinators SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return mapError(err, "mark account email verified")
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
