package hemis

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"

	"github.com/fatih/color"
	"github.com/nonsonwune/hemis_report/models"
)

// ErrStudentNotFound is returned when student-info has no usable record
var ErrStudentNotFound = errors.New("student not found")

// StudentCache stores student-info lookups between runs.
// Get returns ok=false on a miss.
type StudentCache interface {
	Get(ctx context.Context, studentID int64) (models.StudentInfo, bool, error)
	Set(ctx context.Context, info models.StudentInfo) error
}

type studentInfoResponse struct {
	Data *studentInfoItem `json:"data"`
}

// FetchStudentInfo looks up a single student by id.
func (c *Client) FetchStudentInfo(ctx context.Context, studentID int64) (models.StudentInfo, error) {
	if c.cache != nil {
		info, ok, err := c.cache.Get(ctx, studentID)
		if err != nil {
			log.Printf("Warning: student cache read failed for %d: %v", studentID, err)
		} else if ok {
			return info, nil
		}
	}

	params := url.Values{}
	params.Set("student_id", strconv.FormatInt(studentID, 10))

	var resp studentInfoResponse
	if err := c.getJSON(ctx, StudentInfoPath, params, &resp); err != nil {
		return models.StudentInfo{}, err
	}
	if resp.Data == nil {
		return models.StudentInfo{}, ErrStudentNotFound
	}

	info := normalizeStudentInfo(*resp.Data)
	if c.cache != nil {
		if err := c.cache.Set(ctx, info); err != nil {
			log.Printf("Warning: student cache write failed for %d: %v", studentID, err)
		}
	}
	return info, nil
}

// UniqueStudentIDs returns the distinct student ids in first-seen order.
func UniqueStudentIDs(rows []models.StudentSubject) []int64 {
	seen := make(map[int64]bool, len(rows))
	ids := make([]int64, 0)
	for _, row := range rows {
		if seen[row.StudentID] {
			continue
		}
		seen[row.StudentID] = true
		ids = append(ids, row.StudentID)
	}
	return ids
}

// progressEvery controls how often CollectStudents reports progress
const progressEvery = 100

// CollectStudents fetches student-info once per id. Students that cannot be
// resolved are skipped; they simply drop out of the report later.
func (c *Client) CollectStudents(ctx context.Context, ids []int64) ([]models.StudentInfo, error) {
	students := make([]models.StudentInfo, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return students, err
		}

		info, err := c.FetchStudentInfo(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return students, ctx.Err()
			}
			log.Printf("Skipping student %d: %v", id, err)
			continue
		}

		students = append(students, info)
		if len(students)%progressEvery == 0 {
			color.Cyan("Fetched %d/%d students", len(students), len(ids))
		}
	}
	return students, nil
}
