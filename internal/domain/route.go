package domain

// Route is a visiting order over matrix indices.
// A valid Route for n locations starts at 0 and visits every index in
// [0, n) exactly once.
type Route []int

// Valid reports whether r is a Hamiltonian path over n locations starting at 0.
func (r Route) Valid(n int) bool {
	if len(r) != n || n == 0 {
		return false
	}
	if r[0] != 0 {
		return false
	}

	seen := make([]bool, n)
	for _, idx := range r {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Represents the planned visiting order for a single start location and
// a set of deliveries.
// Stops holds resolved addresses in visiting order (start first); Order holds
// the matching indices into the travel matrix. Totals are summed along
// consecutive legs of Order, including the closing leg when ReturnToStart is set.
// It is immutable planning data and contains no side effects.
type Itinerary struct {
	Stops                []string
	Order                Route
	ReturnToStart        bool
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	TotalDistanceKm      float64
	TotalTimeMin         float64
}

// ItineraryReport is the subset of an itinerary rendered into documents.
type ItineraryReport struct {
	Stops           []string
	TotalDistanceKm float64
	TotalTimeMin    float64
}

// Report returns the exportable view of the itinerary.
func (it *Itinerary) Report() ItineraryReport {
	return ItineraryReport{
		Stops:           it.Stops,
		TotalDistanceKm: it.TotalDistanceKm,
		TotalTimeMin:    it.TotalTimeMin,
	}
}
