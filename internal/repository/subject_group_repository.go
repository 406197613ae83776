package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

type SubjectGroupRepository interface {
	GetByID(ctx context.Context, id int) (*model.SubjectGroup, error)
	ListActive(ctx context.Context) ([]model.SubjectGroup, error)
}

type subjectGroupRepository struct {
	db *pgxpool.Pool
}

func NewSubjectGroupRepository(db *pgxpool.Pool) SubjectGroupRepository {
	return &subjectGroupRepository{db: db}
}

const subjectGroupColumns = `id, code, name, subjects, is_active, created_by, updated_by, created_at, updated_at`

func (r *subjectGroupRepository) GetByID(ctx context.Context, id int) (*model.SubjectGroup, error) {
	g := &model.SubjectGroup{}
	err := r.db.QueryRow(ctx, `SELECT `+subjectGroupColumns+` FROM subject_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Code, &g.Name, &g.Subjects, &g.IsActive, &g.CreatedBy, &g.UpdatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (r *subjectGroupRepository) ListActive(ctx context.Context) ([]model.SubjectGroup, error) {
	rows, err := r.db.Query(ctx, `SELECT `+subjectGroupColumns+` FROM subject_groups WHERE is_active ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.SubjectGroup
	for rows.Next() {
		var g model.SubjectGroup
		if err := rows.Scan(&g.ID, &g.Code, &g.Name, &g.Subjects, &g.IsActive, &g.CreatedBy, &g.UpdatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
