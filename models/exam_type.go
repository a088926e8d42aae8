package models

import "fmt"

// ExamType is the HEMIS _exam_type filter code.
type ExamType int

const (
	ExamTypeCurrent  ExamType = 11 // joriy nazorat
	ExamTypeMidterm  ExamType = 12 // oraliq nazorat
	ExamTypeFinal    ExamType = 13 // yakuniy nazorat
	ExamTypeFirstOn  ExamType = 17 // 1-on
	ExamTypeSecondOn ExamType = 18 // 2-on
)

var examTypeNames = map[ExamType]string{
	ExamTypeCurrent:  "Current assessment",
	ExamTypeMidterm:  "Midterm",
	ExamTypeFinal:    "Final",
	ExamTypeFirstOn:  "First on",
	ExamTypeSecondOn: "Second on",
}

func (t ExamType) String() string {
	if name, ok := examTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ExamType(%d)", int(t))
}

// Known reports whether t is one of the codes HEMIS publishes.
func (t ExamType) Known() bool {
	_, ok := examTypeNames[t]
	return ok
}
