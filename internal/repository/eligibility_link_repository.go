package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

// EligibilityLinkRepository handles major_admission_subject_groups access.
type EligibilityLinkRepository interface {
	// FindActive returns the active link matching the tuple exactly, or ErrNotFound.
	FindActive(ctx context.Context, majorID, admissionMethodID int, subjectGroupID *int, year int) (*model.EligibilityLink, error)
	GetByID(ctx context.Context, id int) (*model.EligibilityLink, error)
	List(ctx context.Context, filter model.EligibilityLinkFilter) ([]model.EligibilityLinkView, error)
	Create(ctx context.Context, link *model.EligibilityLink) error
	Update(ctx context.Context, link *model.EligibilityLink) error
}

type eligibilityLinkRepository struct {
	db *pgxpool.Pool
}

func NewEligibilityLinkRepository(db *pgxpool.Pool) EligibilityLinkRepository {
	return &eligibilityLinkRepository{db: db}
}

const linkColumns = `l.id, l.major_id, l.admission_method_id, l.subject_group_id, l.year, l.min_score_required,
	l.is_active, l.created_by, l.updated_by, l.created_at, l.updated_at`

func scanLink(row pgx.Row, l *model.EligibilityLink, extra ...any) error {
	dest := []any{&l.ID, &l.MajorID, &l.AdmissionMethodID, &l.SubjectGroupID, &l.Year, &l.MinScoreRequired,
		&l.IsActive, &l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func (r *eligibilityLinkRepository) FindActive(ctx context.Context, majorID, admissionMethodID int, subjectGroupID *int, year int) (*model.EligibilityLink, error) {
	l := &model.EligibilityLink{}
	err := scanLink(r.db.QueryRow(ctx,
		`SELECT `+linkColumns+`
		 FROM major_admission_subject_groups l
		 WHERE l.major_id = $1
		   AND l.admission_method_id = $2
		   AND l.subject_group_id IS NOT DISTINCT FROM $3::int
		   AND l.year = $4
		   AND l.is_active
		 LIMIT 1`,
		majorID, admissionMethodID, subjectGroupID, year,
	), l)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *eligibilityLinkRepository) GetByID(ctx context.Context, id int) (*model.EligibilityLink, error) {
	l := &model.EligibilityLink{}
	err := scanLink(r.db.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM major_admission_subject_groups l WHERE l.id = $1`, id,
	), l)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *eligibilityLinkRepository) List(ctx context.Context, filter model.EligibilityLinkFilter) ([]model.EligibilityLinkView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.MajorID > 0 {
		add("l.major_id = $%d", filter.MajorID)
	}
	if filter.AdmissionMethodID > 0 {
		add("l.admission_method_id = $%d", filter.AdmissionMethodID)
	}
	if filter.Year > 0 {
		add("l.year = $%d", filter.Year)
	}
	if filter.ActiveOnly {
		conds = append(conds, "l.is_active")
	}

	query := `SELECT ` + linkColumns + `, m.code, m.name, am.code, am.name, sg.code
		FROM major_admission_subject_groups l
		JOIN majors m ON m.id = l.major_id
		JOIN admission_methods am ON am.id = l.admission_method_id
		LEFT JOIN subject_groups sg ON sg.id = l.subject_group_id`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY l.year DESC, m.code, am.code, sg.code NULLS FIRST`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.EligibilityLinkView
	for rows.Next() {
		var v model.EligibilityLinkView
		if err := scanLink(rows, &v.EligibilityLink,
			&v.MajorCode, &v.MajorName, &v.AdmissionMethodCode, &v.AdmissionMethodName, &v.SubjectGroupCode,
		); err != nil {
			return nil, err
		}
		links = append(links, v)
	}
	return links, rows.Err()
}

func (r *eligibilityLinkRepository) Create(ctx context.Context, l *model.EligibilityLink) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO major_admission_subject_groups
		   (major_id, admission_method_id, subject_group_id, year, min_score_required, is_active, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id, created_at, updated_at`,
		l.MajorID, l.AdmissionMethodID, l.SubjectGroupID, l.Year, l.MinScoreRequired, l.IsActive, l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateLink
	}
	return err
}

func (r *eligibilityLinkRepository) Update(ctx context.Context, l *model.EligibilityLink) error {
	err := r.db.QueryRow(ctx,
		`UPDATE major_admission_subject_groups
		 SET major_id = $1, admission_method_id = $2, subject_group_id = $3, year = $4,
		     min_score_required = $5, is_active = $6, updated_by = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8
		 RETURNING updated_at`,
		l.MajorID, l.AdmissionMethodID, l.SubjectGroupID, l.Year, l.MinScoreRequired, l.IsActive, l.UpdatedBy, l.ID,
	).Scan(&l.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateLink
	}
	return notFound(err)
}
