package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

type UniversityRepository interface {
	GetByID(ctx context.Context, id int) (*model.University, error)
	ListActive(ctx context.Context) ([]model.University, error)
}

type universityRepository struct {
	db *pgxpool.Pool
}

func NewUniversityRepository(db *pgxpool.Pool) UniversityRepository {
	return &universityRepository{db: db}
}

const universityColumns = `id, code, name, address, website, is_active, created_by, updated_by, created_at, updated_at`

func (r *universityRepository) GetByID(ctx context.Context, id int) (*model.University, error) {
	u := &model.University{}
	err := r.db.QueryRow(ctx, `SELECT `+universityColumns+` FROM universities WHERE id = $1`, id).
		Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Website, &u.IsActive, &u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *universityRepository) ListActive(ctx context.Context) ([]model.University, error) {
	rows, err := r.db.Query(ctx, `SELECT `+universityColumns+` FROM universities WHERE is_active ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var universities []model.University
	for rows.Next() {
		var u model.University
		if err := rows.Scan(&u.ID, &u.Code, &u.Name, &u.Address, &u.Website, &u.IsActive, &u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		universities = append(universities, u)
	}
	return universities, rows.Err()
}
