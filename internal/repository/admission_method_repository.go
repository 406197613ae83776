package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

type AdmissionMethodRepository interface {
	GetByID(ctx context.Context, id int) (*model.AdmissionMethod, error)
	ListActive(ctx context.Context) ([]model.AdmissionMethod, error)
}

type admissionMethodRepository struct {
	db *pgxpool.Pool
}

func NewAdmissionMethodRepository(db *pgxpool.Pool) AdmissionMethodRepository {
	return &admissionMethodRepository{db: db}
}

const admissionMethodColumns = `id, code, name, description, is_active, created_by, updated_by, created_at, updated_at`

func (r *admissionMethodRepository) GetByID(ctx context.Context, id int) (*model.AdmissionMethod, error) {
	m := &model.AdmissionMethod{}
	err := r.db.QueryRow(ctx, `SELECT `+admissionMethodColumns+` FROM admission_methods WHERE id = $1`, id).
		Scan(&m.ID, &m.Code, &m.Name, &m.Description, &m.IsActive, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *admissionMethodRepository) ListActive(ctx context.Context) ([]model.AdmissionMethod, error) {
	rows, err := r.db.Query(ctx, `SELECT `+admissionMethodColumns+` FROM admission_methods WHERE is_active ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []model.AdmissionMethod
	for rows.Next() {
		var m model.AdmissionMethod
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Description, &m.IsActive, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}
