package hemis

import (
	"context"
	"net/url"

	"github.com/nonsonwune/hemis_report/models"
)

// ExamFilter selects exams from subject-exam-list
type ExamFilter struct {
	EducationYear int
	Semester      int
	ExamType      int
}

// FetchExams loads every page of subject-exam-list matching f.
func (c *Client) FetchExams(ctx context.Context, f ExamFilter) ([]models.ExamRecord, PageResult) {
	params := url.Values{}
	params.Set("_education_year", itoa(f.EducationYear))
	params.Set("_semester", itoa(f.Semester))
	params.Set("_exam_type", itoa(f.ExamType))

	items, result := fetchAll[examItem](ctx, c, "Exams", SubjectExamPath, params)

	exams := make([]models.ExamRecord, 0, len(items))
	for _, item := range items {
		exams = append(exams, normalizeExam(item))
	}
	return exams, result
}

// FetchStudentSubjects loads every page of student-subject-list for the
// given period.
func (c *Client) FetchStudentSubjects(ctx context.Context, educationYear, semester int) ([]models.StudentSubject, PageResult) {
	params := url.Values{}
	params.Set("_education_year", itoa(educationYear))
	params.Set("_semester", itoa(semester))

	items, result := fetchAll[studentSubjectItem](ctx, c, "Student-Subjects", StudentSubjectPath, params)

	rows := make([]models.StudentSubject, 0, len(items))
	for _, item := range items {
		rows = append(rows, normalizeStudentSubject(item))
	}
	return rows, result
}
