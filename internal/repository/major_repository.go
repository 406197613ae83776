package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

type MajorRepository interface {
	GetByID(ctx context.Context, id int) (*model.Major, error)
	ListActiveByUniversity(ctx context.Context, universityID int) ([]model.Major, error)
}

type majorRepository struct {
	db *pgxpool.Pool
}

func NewMajorRepository(db *pgxpool.Pool) MajorRepository {
	return &majorRepository{db: db}
}

const majorColumns = `id, university_id, code, name, quota, is_active, created_by, updated_by, created_at, updated_at`

func (r *majorRepository) GetByID(ctx context.Context, id int) (*model.Major, error) {
	m := &model.Major{}
	err := r.db.QueryRow(ctx, `SELECT `+majorColumns+` FROM majors WHERE id = $1`, id).
		Scan(&m.ID, &m.UniversityID, &m.Code, &m.Name, &m.Quota, &m.IsActive, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *majorRepository) ListActiveByUniversity(ctx context.Context, universityID int) ([]model.Major, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+majorColumns+` FROM majors WHERE university_id = $1 AND is_active ORDER BY code ASC`,
		universityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var majors []model.Major
	for rows.Next() {
		var m model.Major
		if err := rows.Scan(&m.ID, &m.UniversityID, &m.Code, &m.Name, &m.Quota, &m.IsActive, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		majors = append(majors, m)
	}
	return majors, rows.Err()
}
