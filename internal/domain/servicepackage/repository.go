package servicepackage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines read-only access to service packages
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ServicePackage, error)
	ListActive(ctx context.Context) ([]*ServicePackage, error)
}

type repository struct {
	db *sqlx.DB
}

const packageSelectColumns = `
	id, name, description, price, default_duration_hours, is_active,
	created_at, updated_at
`

// NewRepository creates new service package repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*ServicePackage, error) {
	query := `SELECT ` + packageSelectColumns + ` FROM service_packages WHERE id = $1`

	var pkg ServicePackage
	err := r.db.GetContext(ctx, &pkg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) ListActive(ctx context.Context) ([]*ServicePackage, error) {
	query := `
		SELECT ` + packageSelectColumns + ` FROM service_packages
		WHERE is_active = true
		ORDER BY price
	`

	packages := []*ServicePackage{}
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, err
	}
	return packages, nil
}
