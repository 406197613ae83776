package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

// ProfileRepository handles candidate profile data access.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Upsert writes the profile keyed by user_id. Every call overwrites the
// personal and academic blocks with the supplied values.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.CandidateProfile) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (user_id, email, personal_info, academic_info)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET email = EXCLUDED.email,
		     personal_info = EXCLUDED.personal_info,
		     academic_info = EXCLUDED.academic_info,
		     updated_at = CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.Email, p.PersonalInfo, p.AcademicInfo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByUserID returns the profile of a candidate, or ErrNotFound.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int) (*model.CandidateProfile, error) {
	p := &model.CandidateProfile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, email, personal_info, academic_info, created_at, updated_at
		 FROM candidate_profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Email, &p.PersonalInfo, &p.AcademicInfo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
