package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const (
	columnRoll = "reg_no"
	columnCGPA = "cgpa"
	maxCGPA    = 10
)

// CoordinatorStats is the coordinator dashboard summary.
type CoordinatorStats struct {
	Students            model.StudentStats
	Jobs                map[model.JobStatus]int
	UnverifiedRecruiter int
	Applications        int
}

type Dashboard struct {
	students   model.StudentStore
	jobs       model.JobStore
	apps       model.ApplicationStore
	recruiters model.RecruiterStore
	sheets     model.SheetReader
	logger     *logger.Logger
}

func NewDashboard(
	students model.StudentStore,
	jobs model.JobStore,
	apps model.ApplicationStore,
	recruiters model.RecruiterStore,
	sheets model.SheetReader,
	logger *logger.Logger,
) *Dashboard {
	return &Dashboard{
		students:   students,
		jobs:       jobs,
		apps:       apps,
		recruiters: recruiters,
		sheets:     sheets,
		logger:     logger,
	}
}

func (d *Dashboard) Stats(ctx context.Context) (CoordinatorStats, error) {
	students, err := d.students.Stats(ctx)
	if err != nil {
		return CoordinatorStats{}, fmt.Errorf("failed to get student stats: %w", err)
	}
	jobs, err := d.jobs.CountByStatus(ctx)
	if err != nil {
		return CoordinatorStats{}, fmt.Errorf("failed to count jobs: %w", err)
	}
	unverified, err := d.recruiters.CountUnverified(ctx)
	if err != nil {
		return CoordinatorStats{}, fmt.Errorf("failed to count recruiters: %w", err)
	}
	apps, err := d.apps.CountByStatus(ctx, "")
	if err != nil {
		return CoordinatorStats{}, fmt.Errorf("failed to count applications: %w", err)
	}

	var total int
	for _, n := range apps {
		total += n
	}

	return CoordinatorStats{
		Students:            students,
		Jobs:                jobs,
		UnverifiedRecruiter: unverified,
		Applications:        total,
	}, nil
}

// ImportCGPACSV applies grades from an uploaded CSV file and returns the number
// of students updated.
func (d *Dashboard) ImportCGPACSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return 0, apierrors.NewErrBadRequest("Invalid CSV file")
	}

	return d.importRows(ctx, rows)
}

// ImportCGPASheet applies grades read from a Google Sheet.
func (d *Dashboard) ImportCGPASheet(ctx context.Context, spreadsheetID, readRange string) (int, error) {
	if d.sheets == nil {
		return 0, apierrors.NewErrBadRequest("Spreadsheet import is not configured")
	}

	rows, err := d.sheets.ReadRows(ctx, spreadsheetID, readRange)
	if err != nil {
		d.logger.Error("Dashboard service: failed to read spreadsheet",
			"spreadsheet_id", spreadsheetID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	return d.importRows(ctx, rows)
}

func (d *Dashboard) importRows(ctx context.Context, rows [][]string) (int, error) {
	grades, err := ParseGrades(rows)
	if err != nil {
		return 0, err
	}

	missing, err := d.students.UpdateCGPA(ctx, grades)
	if err != nil {
		d.logger.Error("Dashboard service: failed to update cgpa", "error", err.Error())
		return 0, fmt.Errorf("failed to update cgpa: %w", err)
	}
	if len(missing) > 0 {
		return 0, apierrors.NewErrNotFound("Students not found: " + strings.Join(missing, ", "))
	}

	d.logger.Info("Dashboard service: cgpa updated", "students", len(grades))
	return len(grades), nil
}

// ParseGrades reads roll number to CGPA pairs from rows whose header holds
// Reg_No and CGPA columns in any case and position.
func ParseGrades(rows [][]string) (map[string]float64, error) {
	if len(rows) == 0 {
		return nil, apierrors.NewErrBadRequest("File is empty")
	}

	rollIdx, cgpaIdx := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case columnRoll:
			rollIdx = i
		case columnCGPA:
			cgpaIdx = i
		}
	}
	if rollIdx < 0 || cgpaIdx < 0 {
		return nil, apierrors.NewErrBadRequest("File must contain Reg_No and CGPA columns")
	}

	grades := make(map[string]float64, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}

		roll := strings.ToLower(strings.TrimSpace(cell(row, rollIdx)))
		if roll == "" {
			return nil, apierrors.NewErrBadRequest(fmt.Sprintf("Row %d: missing Reg_No", line))
		}

		raw := strings.TrimSpace(cell(row, cgpaIdx))
		cgpa, err := strconv.ParseFloat(raw, 64)
		if err != nil || cgpa < 0 || cgpa > maxCGPA {
			return nil, apierrors.NewErrBadRequest(fmt.Sprintf("Row %d: invalid CGPA %q", line, raw))
		}

		grades[roll] = cgpa
	}

	if len(grades) == 0 {
		return nil, apierrors.NewErrBadRequest("File has no data rows")
	}

	return grades, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
