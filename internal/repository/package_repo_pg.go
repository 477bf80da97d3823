package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PackageRepository is the read side of the tour CRUD collaborator that
// the booking core consumes.
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

type PGPackageRepository struct {
	db *pgxpool.Pool
}

func NewPackageRepository(db *pgxpool.Pool) PackageRepository {
	return &PGPackageRepository{db: db}
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	row := r.db.QueryRow(ctx, `
		SELECT p.id, p.tour_id, p.name, p.price::text, p.max_participants, p.active, t.name, t.destination, p.created_at, p.updated_at
		FROM packages p
		JOIN tours t ON t.id = p.tour_id
		WHERE p.id = $1`, id)

	var p domain.Package
	var price string
	if err := row.Scan(&p.ID, &p.TourID, &p.Name, &price, &p.MaxParticipants, &p.Active,
		&p.TourName, &p.Destination, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("package", id)
		}
		return nil, err
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = parsed
	return &p, nil
}

var _ PackageRepository = (*PGPackageRepository)(nil)
