package report

import "github.com/nonsonwune/hemis_report/models"

// Summary holds the run statistics printed after export
type Summary struct {
	TotalRows       int
	UniqueExams     int
	UniqueStudents  int
	StudentsPerExam float64
}

// Summarize computes Summary for rows
func Summarize(rows []models.ReportRow) Summary {
	exams := make(map[int64]bool)
	students := make(map[int64]bool)
	for _, r := range rows {
		exams[r.ExamID] = true
		students[r.StudentID] = true
	}

	s := Summary{
		TotalRows:      len(rows),
		UniqueExams:    len(exams),
		UniqueStudents: len(students),
	}
	if s.UniqueExams > 0 {
		s.StudentsPerExam = float64(len(rows)) / float64(s.UniqueExams)
	}
	return s
}
