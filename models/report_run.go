package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportRun represents the report_runs table
type ReportRun struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EducationYear int       `db:"education_year" json:"education_year"`
	Semester      int       `db:"semester" json:"semester"`
	ExamType      int       `db:"exam_type" json:"exam_type"`
	OutputFile    string    `db:"output_file" json:"output_file"`
	RowCount      int       `db:"row_count" json:"row_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
