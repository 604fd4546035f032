package handlers

import (
	"bytes"
	"log"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strconv"
)

// ExportHandler renders a posted itinerary with one exporter.
type ExportHandler struct {
	Exporter ports.ReportExporter
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req dto.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := dto.Validate(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report := domain.ItineraryReport{
		Stops:           req.OptimizedOrder,
		TotalDistanceKm: req.TotalDistanceKm,
		TotalTimeMin:    req.TotalTimeMin,
	}

	// Render fully before writing headers so failures still produce JSON.
	var buf bytes.Buffer
	if err := h.Exporter.Export(&buf, report); err != nil {
		log.Printf("req_id=%s export %s failed: %v", obs.RequestID(r.Context()), h.Exporter.Filename(), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", h.Exporter.ContentType())
	w.Header().Set("Content-Disposition", attachment(h.Exporter.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("req_id=%s write export failed: %v", obs.RequestID(r.Context()), err)
	}
}
