package dto

type OptimizeRequest struct {
	StartAddress  string   `json:"start_address" validate:"required"`
	Addresses     []string `json:"addresses" validate:"required,min=1,dive,required"`
	ReturnToStart bool     `json:"return_to_start"`
}

type OptimizeResponse struct {
	OptimizedOrder  []string `json:"optimized_order"`
	TotalDistanceKm float64  `json:"total_distance_km"`
	TotalTimeMin    float64  `json:"total_time_min"`
	ReturnToStart   bool     `json:"return_to_start,omitempty"`
}

// ExportRequest mirrors OptimizeResponse so clients can post back what
// /optimize returned.
type ExportRequest struct {
	OptimizedOrder  []string `json:"optimized_order" validate:"dive,required"`
	TotalDistanceKm float64  `json:"total_distance_km" validate:"gte=0"`
	TotalTimeMin    float64  `json:"total_time_min" validate:"gte=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
