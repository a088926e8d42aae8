package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/nonsonwune/hemis_report/migrations"
	"github.com/nonsonwune/hemis_report/models"
)

// DefaultBatchSize is the number of rows written per batch
const DefaultBatchSize = 1000

// Config holds the configuration for archiving a report
type Config struct {
	BatchSize int
}

// BatchResult represents the result of writing one batch of rows
type BatchResult struct {
	SuccessCount int
	FailedCount  int
	Errors       []error
}

// Archiver stores generated reports in PostgreSQL
type Archiver struct {
	db     *sql.DB
	config Config
}

// Open connects to PostgreSQL with dsn, checks the connection and makes sure
// the archive tables exist.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := migrations.InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewArchiver(db *sql.DB, config Config) *Archiver {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	return &Archiver{db: db, config: config}
}

// rowColumns is the insert order used by prepareInsertStatement and rowValues
var rowColumns = []string{
	"run_id", "exam_id", "student_id", "student_hemis_id", "student_full_name",
	"group_id", "group_name", "subject_id", "subject_name", "subject_code",
	"exam_type_code", "exam_type_name", "education_year_code", "education_year_name",
	"semester_code", "semester_name", "faculty_name", "department_name",
}

var conflictColumns = map[string]bool{"run_id": true, "exam_id": true, "student_id": true}

// SaveReport writes run and all of its rows in a single transaction. run.ID
// and run.CreatedAt are filled in when empty.
func (a *Archiver) SaveReport(ctx context.Context, run models.ReportRun, rows []models.ReportRow) (models.ReportRun, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.RowCount = len(rows)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return run, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO report_runs (id, education_year, semester, exam_type, output_file, row_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.EducationYear, run.Semester, run.ExamType, run.OutputFile, run.RowCount, run.CreatedAt)
	if err != nil {
		return run, fmt.Errorf("error inserting run: %w", err)
	}

	stmt, err := a.prepareInsertStatement(ctx, tx)
	if err != nil {
		return run, fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	var totalSuccess int
	var allErrors []error
	for start := 0; start < len(rows); start += a.config.BatchSize {
		end := min(start+a.config.BatchSize, len(rows))
		result := a.processBatch(ctx, run.ID, rows[start:end], start, stmt)
		totalSuccess += result.SuccessCount
		allErrors = append(allErrors, result.Errors...)

		if result.FailedCount > 0 {
			a.printSummary(totalSuccess, len(allErrors), allErrors)
			return run, fmt.Errorf("archive aborted with %d failures", len(allErrors))
		}
	}

	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("error committing transaction: %w", err)
	}

	a.printSummary(totalSuccess, 0, nil)
	return run, nil
}

func (a *Archiver) processBatch(ctx context.Context, runID uuid.UUID, rows []models.ReportRow, startIndex int, stmt *sql.Stmt) BatchResult {
	var result BatchResult

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, err)
			return result
		}
		if _, err := stmt.ExecContext(ctx, rowValues(runID, row)...); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Errorf("row %d (exam %d, student %d): %v",
				startIndex+i+1, row.ExamID, row.StudentID, err))
			// a failed statement aborts the whole postgres transaction
			return result
		}
		result.SuccessCount++
	}

	return result
}

func (a *Archiver) prepareInsertStatement(ctx context.Context, tx *sql.Tx) (*sql.Stmt, error) {
	return tx.PrepareContext(ctx, insertQuery())
}

func insertQuery() string {
	placeholders := make([]string, len(rowColumns))
	for i := range rowColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO report_rows (%s) VALUES (%s) ON CONFLICT (run_id, exam_id, student_id) DO UPDATE SET %s",
		strings.Join(rowColumns, ", "),
		strings.Join(placeholders, ", "),
		buildUpdateClause(rowColumns))
}

func rowValues(runID uuid.UUID, r models.ReportRow) []interface{} {
	return []interface{}{
		runID, r.ExamID, r.StudentID, r.StudentHemisID, r.StudentFullName,
		r.GroupID, r.GroupName, r.SubjectID, r.SubjectName, r.SubjectCode,
		r.ExamTypeCode, r.ExamTypeName, r.EducationYearCode, r.EducationYearName,
		r.SemesterCode, r.SemesterName, r.FacultyName, r.DepartmentName,
	}
}

func buildUpdateClause(columns []string) string {
	updates := make([]string, 0, len(columns))
	for _, col := range columns {
		if conflictColumns[col] {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return strings.Join(updates, ", ")
}

func (a *Archiver) printSummary(successCount, failedCount int, errors []error) {
	total := successCount + failedCount
	log.Printf("Archive Summary: %d/%d rows stored", successCount, total)

	if len(errors) > 0 {
		log.Printf("Sample of Archive Errors (up to 10):")
		for i := 0; i < min(10, len(errors)); i++ {
			log.Printf("- %v", errors[i])
		}
	}
}
