package employeeshandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"employeedir/internal/domain/reports"
	"employeedir/internal/platform/logger"
	"employeedir/internal/transport/http/api"
	"employeedir/internal/transport/http/middleware"
	"employeedir/internal/transport/http/shared"
)

// handleExport streams the filtered directory as a PDF, or as CSV when
// format=csv. Paging parameters are ignored.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filter := shared.ParseFilter(r)
	rows, err := h.Service.Export(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := time.Now().UTC()
	stamp := now.Format("20060102-150405")

	var buf bytes.Buffer
	contentType := "application/pdf"
	filename := fmt.Sprintf("employees-%s.pdf", stamp)
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		contentType = "text/csv"
		filename = fmt.Sprintf("employees-%s.csv", stamp)
		err = reports.WriteDirectoryCSV(&buf, rows)
	} else {
		err = reports.WriteDirectoryPDF(&buf, filter, rows, now)
	}
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("render directory export failed")
		api.Fail(w, http.StatusInternalServerError, "Failed to export employees", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("write directory export failed")
	}
}
