package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vocalhire/interview/internal/metrics"
	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/report"
	"vocalhire/interview/internal/store"
	"vocalhire/interview/internal/utils"
)

type ReportHandler struct {
	store      store.Store
	logger     *zap.Logger
	onRendered func(kind string)
	now        func() time.Time
}

func NewReportHandler(st store.Store, logger *zap.Logger, onRendered func(kind string)) *ReportHandler {
	if onRendered == nil {
		onRendered = func(string) {}
	}
	return &ReportHandler{
		store:      st,
		logger:     logger,
		onRendered: onRendered,
		now:        time.Now,
	}
}

// DownloadHandler handles GET /api/v1/interviews/{id}/report. The first
// download records the report in the archive; later ones count an access.
func (h *ReportHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	record, ok := loadInterview(w, r, h.store, h.logger)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.GenerateInterviewPDF(&buf, *record); err != nil {
		h.logger.Error("Failed to render interview report", zap.String("interview_id", record.ID), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "report_error", "Failed to generate PDF. Please try again.")
		return
	}
	h.onRendered(metrics.PDFInterview)

	existing, err := h.store.FindReportByInterview(r.Context(), record.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		rep := report.NewStoredReport(*record, int64(buf.Len()), h.now())
		err := h.store.CreateReport(r.Context(), &rep)
		switch {
		case errors.Is(err, store.ErrConflict):
			h.logger.Debug("Report archived concurrently", zap.String("interview_id", record.ID))
		case err != nil:
			h.logger.Warn("Failed to archive report", zap.String("interview_id", record.ID), zap.Error(err))
		}
	case err != nil:
		h.logger.Warn("Failed to look up stored report", zap.String("interview_id", record.ID), zap.Error(err))
	default:
		if _, err := h.store.RecordReportAccess(r.Context(), existing.ID); err != nil {
			h.logger.Warn("Failed to record report access", zap.String("report_id", existing.ID), zap.Error(err))
		}
	}

	writePDF(w, report.FileName(*record), buf.Bytes())
}

// ListHandler handles GET /api/v1/reports
func (h *ReportHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		h.logger.Error("Failed to list reports", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to list reports")
		return
	}
	utils.JSON(w, http.StatusOK, reports)
}

// UpdateHandler handles PATCH /api/v1/reports/{id}
func (h *ReportHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateReportRequest](r)
	rep, err := h.store.SetReportStarred(r.Context(), chi.URLParam(r, "id"), *req.Starred)
	if !h.reportResult(w, err) {
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

// DeleteHandler handles DELETE /api/v1/reports/{id}. An archived file is
// removed along with the entry.
func (h *ReportHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.DeleteReport(r.Context(), chi.URLParam(r, "id"))
	if !h.reportResult(w, err) {
		return
	}
	if rep.FilePath != "" {
		if err := removeFile(rep.FilePath); err != nil {
			h.logger.Warn("Failed to remove archived report", zap.String("path", rep.FilePath), zap.Error(err))
		}
	}
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: "report deleted"})
}

// SummaryHandler handles POST /api/v1/reports/summary
func (h *ReportHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SummaryReportRequest](r)

	records := make([]models.InterviewRecord, 0, len(req.InterviewIDs))
	for _, id := range req.InterviewIDs {
		record, err := h.store.GetInterview(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "interview_not_found", fmt.Sprintf("Interview %s not found", id))
			return
		}
		if err != nil {
			h.logger.Error("Failed to load interview", zap.String("interview_id", id), zap.Error(err))
			utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to load interviews")
			return
		}
		records = append(records, *record)
	}

	var buf bytes.Buffer
	if err := report.GenerateSummaryPDF(&buf, records); err != nil {
		h.logger.Error("Failed to render summary report", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "report_error", "Failed to generate PDF. Please try again.")
		return
	}
	h.onRendered(metrics.PDFSummary)

	writePDF(w, report.SummaryFileName(h.now()), buf.Bytes())
}

func (h *ReportHandler) reportResult(w http.ResponseWriter, err error) bool {
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, "report_not_found", "Report not found")
		return false
	}
	if err != nil {
		h.logger.Error("Report update failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "store_error", "Failed to update report")
		return false
	}
	return true
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
