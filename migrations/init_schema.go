package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables created by InitSchema, in creation order
var Tables = []string{"report_runs", "report_rows"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS report_runs (
		id             UUID PRIMARY KEY,
		education_year INTEGER NOT NULL,
		semester       INTEGER NOT NULL,
		exam_type      INTEGER NOT NULL,
		output_file    TEXT NOT NULL,
		row_count      INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS report_rows (
		run_id              UUID NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
		exam_id             BIGINT NOT NULL,
		student_id          BIGINT NOT NULL,
		student_hemis_id    TEXT,
		student_full_name   TEXT,
		group_id            BIGINT,
		group_name          TEXT,
		subject_id          BIGINT,
		subject_name        TEXT,
		subject_code        TEXT,
		exam_type_code      TEXT,
		exam_type_name      TEXT,
		education_year_code TEXT,
		education_year_name TEXT,
		semester_code       TEXT,
		semester_name       TEXT,
		faculty_name        TEXT,
		department_name     TEXT,
		grade               TEXT,
		PRIMARY KEY (run_id, exam_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_rows_student ON report_rows (student_id)`,
}

// InitSchema creates the archive tables if they are missing and then
// verifies that they exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}

	for _, table := range Tables {
		var exists bool
		query := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables 
				WHERE table_schema = 'public' 
				AND table_name = $1
			)`

		if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
			return err
		}

		if !exists {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}

	return nil
}
