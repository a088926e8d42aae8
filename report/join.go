package report

import (
	"sort"

	"github.com/nonsonwune/hemis_report/models"
)

// enrolledStudent is a student-subject row resolved to a student identity
type enrolledStudent struct {
	models.StudentSubject
	Info models.StudentInfo
}

type groupSubject struct {
	GroupID   int64
	SubjectID int64
}

type rowKey struct {
	ExamID    int64
	StudentID int64
}

// Join combines exams, student-subject assignments and student info into
// report rows.
//
// Assignments are first inner-joined with students on student id, then with
// exams on (group id, subject id). Keying on both ids keeps a student taking
// subject A in group G off an exam for subject B in the same group. Anything
// that fails to match is dropped silently. The result has one row per
// (exam id, student id), sorted by exam id then student id.
func Join(exams []models.ExamRecord, assignments []models.StudentSubject, students []models.StudentInfo) []models.ReportRow {
	byStudent := make(map[int64]models.StudentInfo, len(students))
	for _, s := range students {
		if s.StudentID == 0 {
			continue
		}
		if _, dup := byStudent[s.StudentID]; !dup {
			byStudent[s.StudentID] = s
		}
	}

	enrolled := make(map[groupSubject][]enrolledStudent)
	for _, a := range assignments {
		if a.GroupID == 0 || a.SubjectID == 0 {
			continue
		}
		info, ok := byStudent[a.StudentID]
		if !ok {
			continue
		}
		key := groupSubject{GroupID: a.GroupID, SubjectID: a.SubjectID}
		enrolled[key] = append(enrolled[key], enrolledStudent{StudentSubject: a, Info: info})
	}

	seen := make(map[rowKey]bool)
	rows := make([]models.ReportRow, 0)
	for _, exam := range exams {
		key := groupSubject{GroupID: exam.GroupID, SubjectID: exam.SubjectID}
		for _, e := range enrolled[key] {
			k := rowKey{ExamID: exam.ExamID, StudentID: e.StudentID}
			if seen[k] {
				continue
			}
			seen[k] = true
			rows = append(rows, newRow(exam, e))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ExamID != rows[j].ExamID {
			return rows[i].ExamID < rows[j].ExamID
		}
		return rows[i].StudentID < rows[j].StudentID
	})
	return rows
}

func newRow(exam models.ExamRecord, e enrolledStudent) models.ReportRow {
	return models.ReportRow{
		ExamID:            exam.ExamID,
		StudentID:         e.StudentID,
		StudentHemisID:    e.Info.HemisID,
		StudentFullName:   e.Info.FullName,
		GroupID:           exam.GroupID,
		GroupName:         exam.GroupName,
		SubjectID:         exam.SubjectID,
		SubjectName:       exam.SubjectName,
		SubjectCode:       exam.SubjectCode,
		ExamTypeCode:      exam.ExamTypeCode,
		ExamTypeName:      exam.ExamTypeName,
		EducationYearCode: exam.EducationYearCode,
		EducationYearName: exam.EducationYearName,
		SemesterCode:      exam.SemesterCode,
		SemesterName:      exam.SemesterName,
		FacultyName:       exam.FacultyName,
		DepartmentName:    exam.DepartmentName,
	}
}
