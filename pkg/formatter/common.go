package formatter

import (
	"fmt"
	"io"
	"time"
)

// PrintTimestamp prints when the audit ran and how long it took
func PrintTimestamp(w io.Writer, startTime time.Time, duration time.Duration) {
	fmt.Fprintf(w, "\nAudit completed at %s (took %.2fs)\n",
		startTime.Format("2006-01-02 15:04:05"),
		duration.Seconds(),
	)
}
