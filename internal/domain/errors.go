package domain

import "fmt"

// GeocodingError reports an address the geocoder could not resolve.
type GeocodingError struct {
	Address string
	Err     error
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not geocode %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("could not geocode %q", e.Address)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

// MatrixFetchError reports a distance matrix provider failure.
type MatrixFetchError struct {
	Err error
}

func (e *MatrixFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("distance matrix request failed: %v", e.Err)
	}
	return "distance matrix request failed"
}

func (e *MatrixFetchError) Unwrap() error { return e.Err }

// ValidationError reports malformed planner input or a malformed matrix.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
