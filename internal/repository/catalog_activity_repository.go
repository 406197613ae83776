package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/model"
)

// CatalogActivityRepository flips is_active on any catalog table.
type CatalogActivityRepository interface {
	SetActive(ctx context.Context, kind model.CatalogKind, id int, active bool, updatedBy int) error
}

type catalogActivityRepository struct {
	db *pgxpool.Pool
}

func NewCatalogActivityRepository(db *pgxpool.Pool) CatalogActivityRepository {
	return &catalogActivityRepository{db: db}
}

func (r *catalogActivityRepository) SetActive(ctx context.Context, kind model.CatalogKind, id int, active bool, updatedBy int) error {
	table, ok := kind.Table()
	if !ok {
		return fmt.Errorf("unknown catalog kind %q", kind)
	}

	// table comes from a fixed whitelist, never from the request.
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE `+table+` SET is_active = $1, updated_by = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		active, updatedBy, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLink
		}
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
