package export

import "strconv"

// formatNumber renders totals without trailing zeros (2.5, 0.03, 12).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
