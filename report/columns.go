package report

import (
	"strconv"

	"github.com/nonsonwune/hemis_report/models"
)

// Column is one spreadsheet column
type Column struct {
	Header string
	Value  func(models.ReportRow) interface{}
}

// GradeColumn is left empty; grades are entered after export.
const GradeColumn = "grade"

// Columns is the fixed output layout, in order.
var Columns = []Column{
	{"exam_id", func(r models.ReportRow) interface{} { return r.ExamID }},
	{"student_hemis_id", func(r models.ReportRow) interface{} { return r.StudentHemisID }},
	{"student_full_name", func(r models.ReportRow) interface{} { return r.StudentFullName }},
	{"group_name", func(r models.ReportRow) interface{} { return r.GroupName }},
	{"subject_name", func(r models.ReportRow) interface{} { return r.SubjectName }},
	{"exam_type_name", func(r models.ReportRow) interface{} { return r.ExamTypeName }},
	{GradeColumn, func(models.ReportRow) interface{} { return nil }},
	{"education_year_name", func(r models.ReportRow) interface{} { return r.EducationYearName }},
	{"department_name", func(r models.ReportRow) interface{} { return r.DepartmentName }},
	{"faculty_name", func(r models.ReportRow) interface{} { return r.FacultyName }},
	{"student_id", func(r models.ReportRow) interface{} { return r.StudentID }},
	{"subject_code", func(r models.ReportRow) interface{} { return r.SubjectCode }},
	{"exam_type_code", func(r models.ReportRow) interface{} { return r.ExamTypeCode }},
	{"education_year_code", func(r models.ReportRow) interface{} { return r.EducationYearCode }},
}

// Headers returns the column headers in output order
func Headers() []string {
	headers := make([]string, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header
	}
	return headers
}

// Values maps a row onto Columns
func Values(row models.ReportRow) []interface{} {
	values := make([]interface{}, len(Columns))
	for i, c := range Columns {
		values[i] = c.Value(row)
	}
	return values
}

// Strings is Values formatted for console tables
func Strings(row models.ReportRow) []string {
	values := Values(row)
	out := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case int64:
			out[i] = strconv.FormatInt(x, 10)
		case string:
			out[i] = x
		}
	}
	return out
}
