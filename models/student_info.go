package models

// StudentInfo represents a single student-info lookup
type StudentInfo struct {
	StudentID int64  `db:"student_id" json:"student_id"`
	FullName  string `db:"student_full_name" json:"student_full_name"`
	HemisID   string `db:"student_hemis_id" json:"student_hemis_id"`
}
