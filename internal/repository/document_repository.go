package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

// DocumentRepository handles uploaded document proofs.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `id::text, candidate_id, document_type, original_filename, stored_path, content_type, size_bytes, uploaded_at`

func scanDocument(row pgx.Row) (*model.DocumentProof, error) {
	var (
		d  model.DocumentProof
		id string
	)
	if err := row.Scan(&id, &d.CandidateID, &d.DocumentType, &d.OriginalFilename, &d.StoredPath, &d.ContentType, &d.SizeBytes, &d.UploadedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	d.ID = parsed
	return &d, nil
}

// Create inserts a document record.
func (r *DocumentRepository) Create(ctx context.Context, d *model.DocumentProof) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO document_proofs (id, candidate_id, document_type, original_filename, stored_path, content_type, size_bytes)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		 RETURNING uploaded_at`,
		d.ID.String(), d.CandidateID, d.DocumentType, d.OriginalFilename, d.StoredPath, d.ContentType, d.SizeBytes,
	).Scan(&d.UploadedAt)
}

// ListByIDs returns the documents among ids that exist, in no particular order.
func (r *DocumentRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.DocumentProof, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	return r.list(ctx, `SELECT `+documentColumns+` FROM document_proofs WHERE id = ANY($1::uuid[])`, strIDs)
}

// ListByCandidate returns a candidate's documents, newest first.
func (r *DocumentRepository) ListByCandidate(ctx context.Context, candidateID int) ([]model.DocumentProof, error) {
	return r.list(ctx, `SELECT `+documentColumns+` FROM document_proofs WHERE candidate_id = $1 ORDER BY uploaded_at DESC`, candidateID)
}

func (r *DocumentRepository) list(ctx context.Context, query string, args ...any) ([]model.DocumentProof, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.DocumentProof
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}
