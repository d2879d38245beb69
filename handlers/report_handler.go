package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"milkledger/models"
	"milkledger/repository"
	"milkledger/utils"
)

// PDFUploader publishes a generated file and returns its URL.
type PDFUploader interface {
	Upload(ctx context.Context, fileBytes []byte, filename string) (string, error)
}

type ReportHandler struct {
	Repo       *repository.ReportRepository
	VendorName string
	SavePath   string
	// Uploader is nil when object storage is not configured.
	Uploader PDFUploader
	// RenderPDF defaults to utils.GenerateReportPDF.
	RenderPDF func(ctx context.Context, data models.ReportPDFData) ([]byte, error)
}

func parseReportFilter(r *http.Request) (models.ReportFilter, error) {
	var f models.ReportFilter
	start, err := parseDateParam(r, "startDate")
	if err != nil {
		return f, err
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		return f, err
	}
	if start == nil || end == nil {
		return f, errors.New("startDate and endDate are required")
	}
	if start.After(end.Time) {
		return f, errors.New("startDate must not be after endDate")
	}
	milkType, err := parseMilkType(r)
	if err != nil {
		return f, err
	}
	f.StartDate = *start
	f.EndDate = *end
	f.CustomerName = strings.TrimSpace(r.URL.Query().Get("customerName"))
	f.MilkType = milkType
	return f, nil
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	f, err := parseReportFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.Repo.BuildReport(r.Context(), UserFromContext(r.Context()).ID, f)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ReportPDF renders the filtered report to PDF, keeps a copy in SavePath and
// either streams it or, with upload=true, publishes it and returns the URL.
func (h *ReportHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	f, err := parseReportFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user := UserFromContext(r.Context())
	report, err := h.Repo.BuildReport(r.Context(), user.ID, f)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if len(report.Rows) == 0 {
		writeError(w, http.StatusNotFound, "No data to generate PDF")
		return
	}

	vendor := h.VendorName
	if vendor == "" {
		vendor = user.Name
	}
	render := h.RenderPDF
	if render == nil {
		render = utils.GenerateReportPDF
	}
	pdfBytes, err := render(r.Context(), utils.BuildReportPDFData(vendor, report))
	if err != nil {
		slog.Error("pdf generation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		slog.Error("pdf save directory unavailable", "dir", saveDir, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save PDF")
		return
	}
	filename := reportFilename(user.ID, f)
	if err := os.WriteFile(filepath.Join(saveDir, filename), pdfBytes, 0644); err != nil {
		slog.Error("pdf save failed", "file", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save PDF")
		return
	}

	if r.URL.Query().Get("upload") == "true" && h.Uploader != nil {
		url, err := h.Uploader.Upload(r.Context(), pdfBytes, filename)
		if err != nil {
			slog.Error("pdf upload failed", "file", filename, "error", err)
			writeError(w, http.StatusBadGateway, "failed to upload PDF")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"file":    filename,
			"url":     url,
		})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		slog.Warn("failed to stream pdf", "file", filename, "error", err)
	}
}

// reportFilename names one export; the user ID and a random suffix keep
// files from different users and requests apart.
func reportFilename(userID string, f models.ReportFilter) string {
	return fmt.Sprintf("milk_report_%s_%s_%s_%s.pdf", userID,
		f.StartDate.Format("20060102"), f.EndDate.Format("20060102"), uuid.NewString())
}
