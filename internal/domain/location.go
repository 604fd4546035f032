package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Location is an address resolved by a geocoder.
// Address holds the canonical, human-readable form. Coordinates are set when
// the geocoder reports them; matrix providers that route on coordinates use
// them instead of geocoding the address again.
type Location struct {
	Address     string
	Coordinates *Coordinates
}

// Addresses returns the resolved address strings in input order.
func Addresses(locs []Location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, l.Address)
	}
	return out
}
