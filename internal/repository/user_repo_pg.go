package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository covers the single question the booking core asks about
// customers: do they exist, and under what name/email for audit snapshots.
type UserRepository interface {
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
}

type Customer struct {
	ID       int64
	FullName string
	Email    string
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, full_name, email FROM users WHERE id=$1`, id)
	var c Customer
	if err := row.Scan(&c.ID, &c.FullName, &c.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("customer", id)
		}
		return nil, err
	}
	return &c, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
