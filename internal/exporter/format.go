package exporter

import (
	"fmt"
)

// formatFloat formats a metric value for CSV output with six decimal
// places. Scores live on the log target scale, where two places would
// round most of the signal away.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
