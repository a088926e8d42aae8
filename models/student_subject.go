package models

// StudentSubject records that a student takes a subject within a group.
// There is no id of its own; (StudentID, GroupID, SubjectID) is unique.
type StudentSubject struct {
	StudentID   int64  `db:"student_id" json:"student_id"`
	GroupID     int64  `db:"group_id" json:"group_id"`
	SubjectID   int64  `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
}
