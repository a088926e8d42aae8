package hemis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nonsonwune/hemis_report/models"
)

const testToken = "test-token"

// fakeHEMIS serves paginated list resources and student-info from memory.
type fakeHEMIS struct {
	t *testing.T

	mu       sync.Mutex
	requests map[string][]*http.Request

	pages      map[string][][]map[string]interface{}
	failAt     map[string]int // page number that answers with failStatus
	failStatus int
	students   map[int64]map[string]interface{}
}

func newFakeHEMIS(t *testing.T) *fakeHEMIS {
	return &fakeHEMIS{
		t:          t,
		requests:   make(map[string][]*http.Request),
		pages:      make(map[string][][]map[string]interface{}),
		failAt:     make(map[string]int),
		failStatus: http.StatusInternalServerError,
		students:   make(map[int64]map[string]interface{}),
	}
}

func (f *fakeHEMIS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resource := r.URL.Path[len("/"):]

	f.mu.Lock()
	f.requests[resource] = append(f.requests[resource], r)
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+testToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if resource == StudentInfoPath {
		id, _ := strconv.ParseInt(r.URL.Query().Get("student_id"), 10, 64)
		student, ok := f.students[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": student})
		return
	}

	pages, ok := f.pages[resource]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == f.failAt[resource] {
		w.WriteHeader(f.failStatus)
		return
	}
	var items []map[string]interface{}
	if page >= 1 && page <= len(pages) {
		items = pages[page-1]
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"items":      items,
			"pagination": map[string]interface{}{"pageCount": len(pages), "page": page},
		},
	})
}

func (f *fakeHEMIS) count(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests[resource])
}

func newTestClient(t *testing.T, fake *fakeHEMIS, opts ...Option) *Client {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, testToken, 0, opts...)
}

func examItemFixture(id, group, subject int64) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"group":         map[string]interface{}{"id": group, "name": fmt.Sprintf("G-%d", group)},
		"subject":       map[string]interface{}{"id": subject, "name": fmt.Sprintf("Subject %d", subject), "code": fmt.Sprintf("S%d", subject)},
		"faculty":       map[string]interface{}{"id": 1, "name": "Engineering"},
		"department":    map[string]interface{}{"id": 2, "name": "Computer Science"},
		"examType":      map[string]interface{}{"code": "13", "name": "Yakuniy nazorat"},
		"educationYear": map[string]interface{}{"code": "2025", "name": "2025-2026"},
		"semester":      map[string]interface{}{"code": "13", "name": "3-semestr"},
	}
}

func TestFetchExamsAccumulatesAllPages(t *testing.T) {
	fake := newFakeHEMIS(t)
	fake.pages[SubjectExamPath] = [][]map[string]interface{}{
		{examItemFixture(1, 10, 20), examItemFixture(2, 10, 21)},
		{examItemFixture(3, 11, 20), examItemFixture(4, 11, 21)},
		{examItemFixture(5, 12, 22)},
	}
	client := newTestClient(t, fake, WithPageLimit(2))

	exams, result := client.FetchExams(context.Background(), ExamFilter{EducationYear: 2025, Semester: 13, ExamType: 13})

	if !result.Complete() {
		t.Fatalf("fetch stopped early: %v", result.Err)
	}
	if len(exams) != 5 || result.Items != 5 {
		t.Fatalf("got %d exams (result.Items=%d), want 5", len(exams), result.Items)
	}
	if result.Pages != 3 || result.PageCount != 3 {
		t.Errorf("pages = %d/%d, want 3/3", result.Pages, result.PageCount)
	}
	if n := fake.count(SubjectExamPath); n != 3 {
		t.Errorf("made %d requests, want exactly 3", n)
	}

	for i, r := range fake.requests[SubjectExamPath] {
		q := r.URL.Query()
		if q.Get("page") != strconv.Itoa(i+1) {
			t.Errorf("request %d asked for page %s", i, q.Get("page"))
		}
		if q.Get("limit") != "2" || q.Get("_education_year") != "2025" || q.Get("_semester") != "13" || q.Get("_exam_type") != "13" {
			t.Errorf("request %d has query %s", i, r.URL.RawQuery)
		}
	}

	want := models.ExamRecord{
		ExamID: 1, GroupID: 10, GroupName: "G-10",
		SubjectID: 20, SubjectName: "Subject 20", SubjectCode: "S20",
		FacultyID: 1, FacultyName: "Engineering",
		DepartmentID: 2, DepartmentName: "Computer Science",
		ExamTypeCode: "13", ExamTypeName: "Yakuniy nazorat",
		EducationYearCode: "2025", EducationYearName: "2025-2026",
		SemesterCode: "13", SemesterName: "3-semestr",
	}
	if exams[0] != want {
		t.Errorf("exams[0] = %+v, want %+v", exams[0], want)
	}
}

func TestFetchStopsOnNonSuccess(t *testing.T) {
	fake := newFakeHEMIS(t)
	fake.pages[StudentSubjectPath] = [][]map[string]interface{}{
		{{"_student": 1, "_group": 10}},
		{{"_student": 2, "_group": 10}},
		{{"_student": 3, "_group": 10}},
	}
	fake.failAt[StudentSubjectPath] = 2
	client := newTestClient(t, fake)

	rows, result := client.FetchStudentSubjects(context.Background(), 2025, 13)

	if len(rows) != 1 || rows[0].StudentID != 1 {
		t.Fatalf("rows = %+v, want only the first page", rows)
	}
	var statusErr *StatusError
	if !errors.As(result.Err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("result.Err = %v, want 500 StatusError", result.Err)
	}
	if n := fake.count(StudentSubjectPath); n != 2 {
		t.Errorf("made %d requests, want 2 (no retry)", n)
	}
}

func TestFetchSinglePageWhenPageCountZero(t *testing.T) {
	fake := newFakeHEMIS(t)
	fake.pages[SubjectExamPath] = [][]map[string]interface{}{}
	client := newTestClient(t, fake)

	exams, result := client.FetchExams(context.Background(), ExamFilter{EducationYear: 2025, Semester: 13, ExamType: 13})

	if len(exams) != 0 || !result.Complete() {
		t.Fatalf("exams=%d err=%v", len(exams), result.Err)
	}
	if n := fake.count(SubjectExamPath); n != 1 {
		t.Errorf("made %d requests, want 1", n)
	}
}

func TestFetchUnauthorized(t *testing.T) {
	fake := newFakeHEMIS(t)
	fake.pages[SubjectExamPath] = [][]map[string]interface{}{{examItemFixture(1, 10, 20)}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", 0)
	exams, result := client.FetchExams(context.Background(), ExamFilter{EducationYear: 2025, Semester: 13, ExamType: 13})

	var statusErr *StatusError
	if len(exams) != 0 || !errors.As(result.Err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("exams=%d err=%v, want 401", len(exams), result.Err)
	}
}

func TestFetchStudentSubjectsNormalizesNestedSubject(t *testing.T) {
	fake := newFakeHEMIS(t)
	fake.pages[StudentSubjectPath] = [][]map[string]interface{}{{
		{
			"_student": 7,
			"_group":   10,
			"curriculumSubject": map[string]interface{}{
				"subject": map[string]interface{}{"id": 20, "name": "Algebra", "code": 101},
			},
		},
		{"_student": 8, "_group": 10},
	}}
	client := newTestClient(t, fake)

	rows, result := client.FetchStudentSubjects(context.Background(), 2025, 13)
	if !result.Complete() {
		t.Fatal(result.Err)
	}

	want := []models.StudentSubject{
		{StudentID: 7, GroupID: 10, SubjectID: 20, SubjectName: "Algebra", SubjectCode: "101"},
		{StudentID: 8, GroupID: 10},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestRequestsAreThrottled(t *testing.T) {
	const delay = 50 * time.Millisecond

	fake := newFakeHEMIS(t)
	fake.pages[SubjectExamPath] = [][]map[string]interface{}{
		{examItemFixture(1, 10, 20)},
		{examItemFixture(2, 10, 21)},
		{examItemFixture(3, 11, 20)},
	}
	fake.students[1] = map[string]interface{}{"id": 1, "full_name": "Ali", "student_id_number": "A1"}
	fake.students[2] = map[string]interface{}{"id": 2, "full_name": "Vali", "student_id_number": "V2"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(srv.URL, testToken, delay)

	start := time.Now()
	exams, result := client.FetchExams(context.Background(), ExamFilter{EducationYear: 2025, Semester: 13, ExamType: 13})
	if !result.Complete() || len(exams) != 3 {
		t.Fatalf("exams=%d err=%v", len(exams), result.Err)
	}
	students, err := client.CollectStudents(context.Background(), []int64{1, 2})
	if err != nil || len(students) != 2 {
		t.Fatalf("students=%d err=%v", len(students), err)
	}
	elapsed := time.Since(start)

	// five requests leave four gaps of at least delay
	if elapsed < 4*delay {
		t.Errorf("5 requests took %v, want at least %v", elapsed, 4*delay)
	}
}

func TestCacheHitSkipsThrottle(t *testing.T) {
	const delay = 50 * time.Millisecond

	fake := newFakeHEMIS(t)
	fake.students[1] = map[string]interface{}{"id": 1, "full_name": "Ali", "student_id_number": "A1"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cache := &memoryCache{data: map[int64]models.StudentInfo{
		9: {StudentID: 9, FullName: "Cached", HemisID: "C9"},
	}}
	client := NewClient(srv.URL, testToken, delay, WithStudentCache(cache))

	// spend the limiter's only token
	if _, err := client.FetchStudentInfo(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	info, err := client.FetchStudentInfo(context.Background(), 9)
	elapsed := time.Since(start)

	if err != nil || info.FullName != "Cached" {
		t.Fatalf("info=%+v err=%v", info, err)
	}
	if n := fake.count(StudentInfoPath); n != 1 {
		t.Errorf("made %d requests, want 1 (cache hit must not call the API)", n)
	}
	if elapsed >= delay/2 {
		t.Errorf("cache hit took %v, should not wait for the limiter", elapsed)
	}
}
