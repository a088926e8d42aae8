package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/fatih/color"
	"github.com/nonsonwune/hemis_report/archive"
	"github.com/nonsonwune/hemis_report/cache"
	"github.com/nonsonwune/hemis_report/config"
	"github.com/nonsonwune/hemis_report/hemis"
	"github.com/nonsonwune/hemis_report/models"
	"github.com/nonsonwune/hemis_report/report"
	"github.com/olekukonko/tablewriter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.Red("Configuration error: %v", err)
		if errors.Is(err, config.ErrMissingToken) {
			fmt.Println("Copy .env.example to .env and fill it with your data!")
		}
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

// run executes one report. Every exit path goes through its defers.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !models.ExamType(cfg.ExamType).Known() {
		color.Yellow("Warning: exam type %d is not a known HEMIS code", cfg.ExamType)
	}

	opts := []hemis.Option{hemis.WithPageLimit(cfg.PageLimit)}
	if studentCache := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisTTL); studentCache != nil {
		defer studentCache.Close()
		opts = append(opts, hemis.WithStudentCache(studentCache))
	}
	client := hemis.NewClient(cfg.BaseURL, cfg.Token, cfg.APIDelay, opts...)

	rows, err := buildReport(ctx, client, cfg)
	if err != nil {
		return fmt.Errorf("report aborted: %w", err)
	}

	if len(rows) == 0 {
		color.Red("No data to export!")
		return nil
	}

	if err := report.Write(cfg.OutputFile, rows); err != nil {
		return fmt.Errorf("error writing %s: %w", cfg.OutputFile, err)
	}
	color.Green("\nExcel file '%s' created successfully!", cfg.OutputFile)
	color.Green("Total records: %d", len(rows))

	displayColumns()
	displaySample(rows)
	displaySummary(report.Summarize(rows))

	if cfg.DB.Enabled() {
		archiveReport(ctx, cfg, rows)
	}
	return nil
}

// buildReport runs fetch, normalize and join. Fetch errors have already been
// logged by the client and only shorten the data; the returned error is set
// when the run was interrupted.
func buildReport(ctx context.Context, client *hemis.Client, cfg *config.Config) ([]models.ReportRow, error) {
	color.Cyan("Fetching exam list (%s)...", models.ExamType(cfg.ExamType))
	exams, examResult := client.FetchExams(ctx, hemis.ExamFilter{
		EducationYear: cfg.EducationYear,
		Semester:      cfg.Semester,
		ExamType:      cfg.ExamType,
	})
	fmt.Printf("Total exams fetched: %d\n", len(exams))
	warnIncomplete("exam list", examResult)

	color.Cyan("\nFetching student-subject assignments...")
	assignments, assignResult := client.FetchStudentSubjects(ctx, cfg.EducationYear, cfg.Semester)
	fmt.Printf("Total student-subject records fetched: %d\n", len(assignments))
	warnIncomplete("student-subject list", assignResult)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := hemis.UniqueStudentIDs(assignments)
	color.Cyan("\nFetching info for %d unique students...", len(ids))
	students, err := client.CollectStudents(ctx, ids)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Total student info records: %d\n", len(students))

	color.Cyan("\nMerging exams with students...")
	rows := report.Join(exams, assignments, students)
	fmt.Printf("Final records after merge: %d\n", len(rows))
	return rows, nil
}

func warnIncomplete(what string, result hemis.PageResult) {
	if result.Complete() {
		return
	}
	color.Yellow("Warning: %s is incomplete (%d of %d pages loaded): %v",
		what, result.Pages, result.PageCount, result.Err)
}

func displayColumns() {
	color.Yellow("\nColumns in final file:")
	for _, h := range report.Headers() {
		fmt.Printf("  - %s\n", h)
	}
}

// sampleSize is the number of rows previewed on the console
const sampleSize = 5

func displaySample(rows []models.ReportRow) {
	color.Yellow("\nSample rows")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(report.Headers())
	for _, row := range rows[:min(sampleSize, len(rows))] {
		table.Append(report.Strings(row))
	}
	table.Render()
}

func displaySummary(s report.Summary) {
	color.Yellow("\nStatistics")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total records", strconv.Itoa(s.TotalRows)})
	table.Append([]string{"Unique exams", strconv.Itoa(s.UniqueExams)})
	table.Append([]string{"Unique students", strconv.Itoa(s.UniqueStudents)})
	table.Append([]string{"Average students per exam", fmt.Sprintf("%.1f", s.StudentsPerExam)})
	table.Render()
}

func archiveReport(ctx context.Context, cfg *config.Config, rows []models.ReportRow) {
	db, err := archive.Open(ctx, cfg.DB.DSN())
	if err != nil {
		log.Printf("Warning: report not archived: %v", err)
		return
	}
	defer db.Close()

	run, err := archive.NewArchiver(db, archive.Config{}).SaveReport(ctx, models.ReportRun{
		EducationYear: cfg.EducationYear,
		Semester:      cfg.Semester,
		ExamType:      cfg.ExamType,
		OutputFile:    cfg.OutputFile,
	}, rows)
	if err != nil {
		log.Printf("Warning: report not archived: %v", err)
		return
	}
	color.Green("Report archived as run %s", run.ID)
}
