package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

// maxGradesSize bounds CGPA CSV uploads.
const maxGradesSize = 5 << 20

// DashboardService defines coordinator statistics and CGPA ingestion.
type DashboardService interface {
	Stats(ctx context.Context) (service.CoordinatorStats, error)
	ImportCGPACSV(ctx context.Context, r io.Reader) (int, error)
	ImportCGPASheet(ctx context.Context, spreadsheetID, readRange string) (int, error)
}

type importSheetRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" validate:"required"`
	Range         string `json:"range"`
}

type statsResponse struct {
	TotalStudents        int                     `json:"total_students"`
	PlacedStudents       int                     `json:"placed_students"`
	Jobs                 map[model.JobStatus]int `json:"jobs"`
	UnverifiedRecruiters int                     `json:"unverified_recruiters"`
	TotalApplications    int                     `json:"total_applications"`
}

type importResponse struct {
	Updated int `json:"updated"`
}

// Dashboard handles /api/dashboard/tap.
type Dashboard struct {
	dashboard DashboardService
	logger    *logger.Logger
}

func NewDashboard(dashboard DashboardService, logger *logger.Logger) *Dashboard {
	return &Dashboard{dashboard: dashboard, logger: logger}
}

func (h *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", statsResponse{
		TotalStudents:        stats.Students.Total,
		PlacedStudents:       stats.Students.Placed,
		Jobs:                 stats.Jobs,
		UnverifiedRecruiters: stats.UnverifiedRecruiter,
		TotalApplications:    stats.Applications,
	})
}

// ImportCGPA accepts a multipart CSV under "file" or a JSON spreadsheet reference.
func (h *Dashboard) ImportCGPA(w http.ResponseWriter, r *http.Request) {
	var (
		updated int
		err     error
	)

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		updated, err = h.importFile(w, r)
	} else {
		var req importSheetRequest
		if err = decode(r, &req); err == nil {
			updated, err = h.dashboard.ImportCGPASheet(r.Context(), req.SpreadsheetID, req.Range)
		}
	}
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "CGPA updated successfully", importResponse{Updated: updated})
}

func (h *Dashboard) importFile(w http.ResponseWriter, r *http.Request) (int, error) {
	file, _, err := formFile(w, r, "file", maxGradesSize)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return h.dashboard.ImportCGPACSV(r.Context(), file)
}
