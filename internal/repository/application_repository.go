package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

// ApplicationRepository handles application data access.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

const applicationColumns = `id::text, candidate_id, university_id, major_id, admission_method_id, subject_group_id, year,
	candidate_profile_snapshot, exam_scores, documents::text[], status, admin_note,
	submission_date, created_at, updated_at`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var (
		a      model.Application
		id     string
		docIDs []string
	)
	err := row.Scan(&id, &a.CandidateID, &a.UniversityID, &a.MajorID, &a.AdmissionMethodID, &a.SubjectGroupID, &a.Year,
		&a.CandidateProfileSnapshot, &a.ExamScores, &docIDs, &a.Status, &a.AdminNote,
		&a.SubmissionDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	a.Documents = make([]uuid.UUID, 0, len(docIDs))
	for _, d := range docIDs {
		parsed, err := uuid.Parse(d)
		if err != nil {
			return nil, err
		}
		a.Documents = append(a.Documents, parsed)
	}
	if a.ExamScores == nil {
		a.ExamScores = []model.ExamScore{}
	}
	return &a, nil
}

// Create inserts a new application. ID, status and submission date must be set by the caller.
func (r *ApplicationRepository) Create(ctx context.Context, a *model.Application) error {
	docIDs := make([]string, len(a.Documents))
	for i, d := range a.Documents {
		docIDs[i] = d.String()
	}
	scores := a.ExamScores
	if scores == nil {
		scores = []model.ExamScore{}
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO applications
		   (id, candidate_id, university_id, major_id, admission_method_id, subject_group_id, year,
		    candidate_profile_snapshot, exam_scores, documents, status, submission_date)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10::uuid[], $11, $12)
		 RETURNING created_at, updated_at`,
		a.ID.String(), a.CandidateID, a.UniversityID, a.MajorID, a.AdmissionMethodID, a.SubjectGroupID, a.Year,
		a.CandidateProfileSnapshot, scores, docIDs, a.Status, a.SubmissionDate,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves one application, or ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1::uuid`, id.String(),
	))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListByCandidate returns every application of a candidate, newest first.
func (r *ApplicationRepository) ListByCandidate(ctx context.Context, candidateID int) ([]model.Application, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE candidate_id = $1 ORDER BY submission_date DESC`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListPaginated retrieves applications for administrators with optional filters.
func (r *ApplicationRepository) ListPaginated(ctx context.Context, filter model.ApplicationFilter, limit, offset int) ([]model.Application, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UniversityID > 0 {
		args = append(args, filter.UniversityID)
		conds = append(conds, fmt.Sprintf("university_id = $%d", len(args)))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM applications%s ORDER BY submission_date DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps, err := collectApplications(rows)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// UpdateStatus sets the status and admin note of an application and returns the updated row.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, note string) (*model.Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx,
		`UPDATE applications SET status = $1, admin_note = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3::uuid
		 RETURNING `+applicationColumns,
		status, note, id.String(),
	))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func collectApplications(rows pgx.Rows) ([]model.Application, error) {
	apps := []model.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
