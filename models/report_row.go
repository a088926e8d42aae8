package models

// ReportRow is one student sitting one exam. Unique by (ExamID, StudentID).
type ReportRow struct {
	ExamID            int64  `db:"exam_id" json:"exam_id"`
	StudentID         int64  `db:"student_id" json:"student_id"`
	StudentHemisID    string `db:"student_hemis_id" json:"student_hemis_id"`
	StudentFullName   string `db:"student_full_name" json:"student_full_name"`
	GroupID           int64  `db:"group_id" json:"group_id"`
	GroupName         string `db:"group_name" json:"group_name"`
	SubjectID         int64  `db:"subject_id" json:"subject_id"`
	SubjectName       string `db:"subject_name" json:"subject_name"`
	SubjectCode       string `db:"subject_code" json:"subject_code"`
	ExamTypeCode      string `db:"exam_type_code" json:"exam_type_code"`
	ExamTypeName      string `db:"exam_type_name" json:"exam_type_name"`
	EducationYearCode string `db:"education_year_code" json:"education_year_code"`
	EducationYearName string `db:"education_year_name" json:"education_year_name"`
	SemesterCode      string `db:"semester_code" json:"semester_code"`
	SemesterName      string `db:"semester_name" json:"semester_name"`
	FacultyName       string `db:"faculty_name" json:"faculty_name"`
	DepartmentName    string `db:"department_name" json:"department_name"`
}
