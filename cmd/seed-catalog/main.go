package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/database"
	"github.com/stemsi/admission-backend/internal/logger"
)

type seedMajor struct {
	code, name string
	quota      int
}

type seedGroup struct {
	code, name string
	subjects   []string
}

var (
	university = struct{ code, name, address, website string }{
		"BKA", "Đại học Bách khoa Hà Nội", "Số 1 Đại Cồ Việt, Hai Bà Trưng, Hà Nội", "https://hust.edu.vn",
	}
	majors = []seedMajor{
		{"IT1", "Khoa học Máy tính", 300},
		{"IT2", "Kỹ thuật Máy tính", 200},
		{"EE1", "Kỹ thuật Điện", 250},
	}
	methods = []struct{ code, name string }{
		{"THPT", "Xét điểm thi tốt nghiệp THPT"},
		{"HB", "Xét học bạ"},
		{"TN", "Xét tuyển thẳng"},
	}
	groups = []seedGroup{
		{"A00", "Toán, Lý, Hóa", []string{"Toán", "Lý", "Hóa"}},
		{"A01", "Toán, Lý, Anh", []string{"Toán", "Lý", "Anh"}},
		{"D07", "Toán, Hóa, Anh", []string{"Toán", "Hóa", "Anh"}},
	}
)

func main() {
	year := flag.Int("year", time.Now().Year(), "Admission year of the seeded links")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Printf("=== Seeding admission catalog for %d ===\n", *year)

	links, err := seed(ctx, pool, *year)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	fmt.Printf("Done. %d eligibility links inserted.\n", links)
}

// seed upserts the catalog rows by code and adds every (major, method, group)
// link that is not active yet. Running it twice changes nothing.
func seed(ctx context.Context, pool *pgxpool.Pool, year int) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var universityID int
	err = tx.QueryRow(ctx, `
		INSERT INTO universities (code, name, address, website)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id`,
		university.code, university.name, university.address, university.website,
	).Scan(&universityID)
	if err != nil {
		return 0, fmt.Errorf("university %s: %w", university.code, err)
	}

	majorIDs := make([]int, 0, len(majors))
	for _, m := range majors {
		var id int
		err := tx.QueryRow(ctx, `
			INSERT INTO majors (university_id, code, name, quota)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (university_id, code) DO UPDATE SET quota = EXCLUDED.quota, updated_at = NOW()
			RETURNING id`,
			universityID, m.code, m.name, m.quota,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("major %s: %w", m.code, err)
		}
		majorIDs = append(majorIDs, id)
	}

	methodIDs := make(map[string]int, len(methods))
	for _, am := range methods {
		var id int
		err := tx.QueryRow(ctx, `
			INSERT INTO admission_methods (code, name)
			VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
			RETURNING id`,
			am.code, am.name,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("admission method %s: %w", am.code, err)
		}
		methodIDs[am.code] = id
	}

	groupIDs := make([]int, 0, len(groups))
	for _, g := range groups {
		var id int
		err := tx.QueryRow(ctx, `
			INSERT INTO subject_groups (code, name, subjects)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET subjects = EXCLUDED.subjects, updated_at = NOW()
			RETURNING id`,
			g.code, g.name, g.subjects,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("subject group %s: %w", g.code, err)
		}
		groupIDs = append(groupIDs, id)
	}

	batch := &pgx.Batch{}
	for _, majorID := range majorIDs {
		// Exam and transcript based methods test a subject group.
		for _, code := range []string{"THPT", "HB"} {
			for _, groupID := range groupIDs {
				queueLink(batch, majorID, methodIDs[code], &groupID, year)
			}
		}
		// Direct admission needs no group.
		queueLink(batch, majorID, methodIDs["TN"], nil, year)
	}

	inserted := 0
	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("eligibility link: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	return inserted, tx.Commit(ctx)
}

func queueLink(batch *pgx.Batch, majorID, methodID int, groupID *int, year int) {
	batch.Queue(`
		INSERT INTO major_admission_subject_groups (major_id, admission_method_id, subject_group_id, year)
		SELECT $1::int, $2::int, $3::int, $4::int
		WHERE NOT EXISTS (
			SELECT 1 FROM major_admission_subject_groups
			WHERE major_id = $1 AND admission_method_id = $2
			  AND subject_group_id IS NOT DISTINCT FROM $3::int
			  AND year = $4 AND is_active
		)`,
		majorID, methodID, groupID, year,
	)
}
