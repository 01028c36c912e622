package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/telecomsupply/internal/middleware"
	"github.com/mmynk/telecomsupply/internal/report"
)

// ReportHandler serves the billing report as a download. It expects to sit
// behind middleware.RequireAuthHTTP.
type ReportHandler struct {
	sessions *Sessions
	logger   *slog.Logger
	now      func() time.Time
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(sessions *Sessions, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{sessions: sessions, logger: logger, now: time.Now}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "authorization token required", http.StatusUnauthorized)
		return
	}
	l, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Report load failed", "session_id", sessionID, "error", err)
		writeCodeError(w, err)
		return
	}

	rep, err := buildReport(l, h.now())
	if err != nil {
		writeCodeError(w, err)
		return
	}

	// Encode fully before writing headers so failures still get a clean 500.
	var buf bytes.Buffer
	if err := report.Write(&buf, rep, format); err != nil {
		h.logger.Error("Report encoding failed", "format", format, "error", err)
		http.Error(w, "failed to encode report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	if format == report.FormatCSV {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=reporte_facturacion_%s.csv", rep.Date))
	}
	w.Write(buf.Bytes())
}

func writeCodeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch codeOf(err) {
	case connect.CodeUnavailable:
		status = http.StatusServiceUnavailable
	case connect.CodeDeadlineExceeded:
		status = http.StatusGatewayTimeout
	case connect.CodeFailedPrecondition:
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}
