package hemis

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/nonsonwune/hemis_report/models"
)

// text accepts a JSON string, number or null. HEMIS is not consistent about
// how it encodes codes.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

type named struct {
	ID   int64 `json:"id"`
	Name text  `json:"name"`
}

type coded struct {
	Code text `json:"code"`
	Name text `json:"name"`
}

type subjectRef struct {
	ID   int64 `json:"id"`
	Name text  `json:"name"`
	Code text  `json:"code"`
}

type examItem struct {
	ID            int64       `json:"id"`
	Group         *named      `json:"group"`
	Subject       *subjectRef `json:"subject"`
	Faculty       *named      `json:"faculty"`
	Department    *named      `json:"department"`
	ExamType      *coded      `json:"examType"`
	EducationYear *coded      `json:"educationYear"`
	Semester      *coded      `json:"semester"`
}

type studentSubjectItem struct {
	Student           int64 `json:"_student"`
	Group             int64 `json:"_group"`
	CurriculumSubject *struct {
		Subject *subjectRef `json:"subject"`
	} `json:"curriculumSubject"`
}

type studentInfoItem struct {
	ID              int64 `json:"id"`
	FullName        text  `json:"full_name"`
	StudentIDNumber text  `json:"student_id_number"`
}

func (n *named) get() (int64, string) {
	if n == nil {
		return 0, ""
	}
	return n.ID, string(n.Name)
}

func (c *coded) get() (string, string) {
	if c == nil {
		return "", ""
	}
	return string(c.Code), string(c.Name)
}

func (s *subjectRef) get() (int64, string, string) {
	if s == nil {
		return 0, "", ""
	}
	return s.ID, string(s.Name), string(s.Code)
}

func normalizeExam(item examItem) models.ExamRecord {
	rec := models.ExamRecord{ExamID: item.ID}
	rec.GroupID, rec.GroupName = item.Group.get()
	rec.SubjectID, rec.SubjectName, rec.SubjectCode = item.Subject.get()
	rec.FacultyID, rec.FacultyName = item.Faculty.get()
	rec.DepartmentID, rec.DepartmentName = item.Department.get()
	rec.ExamTypeCode, rec.ExamTypeName = item.ExamType.get()
	rec.EducationYearCode, rec.EducationYearName = item.EducationYear.get()
	rec.SemesterCode, rec.SemesterName = item.Semester.get()
	return rec
}

func normalizeStudentSubject(item studentSubjectItem) models.StudentSubject {
	row := models.StudentSubject{
		StudentID: item.Student,
		GroupID:   item.Group,
	}
	if item.CurriculumSubject != nil {
		row.SubjectID, row.SubjectName, row.SubjectCode = item.CurriculumSubject.Subject.get()
	}
	return row
}

func normalizeStudentInfo(item studentInfoItem) models.StudentInfo {
	return models.StudentInfo{
		StudentID: item.ID,
		FullName:  string(item.FullName),
		HemisID:   string(item.StudentIDNumber),
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
