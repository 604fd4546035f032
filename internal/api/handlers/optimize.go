package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/services"
	"strings"
)

// Planner is the orchestration entry point used by OptimizeHandler.
type Planner interface {
	Plan(ctx context.Context, req services.PlanRequest) (*domain.Itinerary, error)
}

type OptimizeHandler struct {
	Planner       Planner
	MaxDeliveries int
}

// Optimize geocodes the submitted addresses, orders the deliveries and
// returns the itinerary. It accepts a JSON body or the form fields
// start_address and addresses[].
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.Planner.Plan(r.Context(), services.PlanRequest{
		Start:         req.StartAddress,
		Deliveries:    req.Addresses,
		ReturnToStart: req.ReturnToStart,
	})
	if err != nil {
		log.Printf("req_id=%s plan route failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, planErrorMessage(err))
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		OptimizedOrder:  it.Stops,
		TotalDistanceKm: it.TotalDistanceKm,
		TotalTimeMin:    it.TotalTimeMin,
		ReturnToStart:   it.ReturnToStart,
	})
}

func (h *OptimizeHandler) parse(w http.ResponseWriter, r *http.Request) (dto.OptimizeRequest, error) {
	var req dto.OptimizeRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, errors.New("invalid form body")
		}
		req.StartAddress = r.FormValue("start_address")
		req.Addresses = r.Form["addresses[]"]
		if len(req.Addresses) == 0 {
			req.Addresses = r.Form["addresses"]
		}
		switch strings.ToLower(r.FormValue("return_to_start")) {
		case "1", "true", "on", "yes":
			req.ReturnToStart = true
		}
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			return req, err
		}
	}

	req.StartAddress = strings.TrimSpace(req.StartAddress)
	addrs := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		addrs = append(addrs, strings.TrimSpace(a))
	}
	req.Addresses = addrs

	if err := dto.Validate(req); err != nil {
		return req, err
	}

	if h.MaxDeliveries > 0 && len(req.Addresses) > h.MaxDeliveries {
		return req, fmt.Errorf("at most %d delivery addresses are supported", h.MaxDeliveries)
	}

	return req, nil
}

// planErrorMessage exposes typed planning failures and hides anything else.
func planErrorMessage(err error) string {
	var ge *domain.GeocodingError
	if errors.As(err, &ge) {
		return fmt.Sprintf("Could not geocode %s", ge.Address)
	}

	var me *domain.MatrixFetchError
	if errors.As(err, &me) {
		return "Distance matrix request failed"
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	return "internal server error"
}
