package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/volcost/pkg/pricing"
)

// PrintAPIStats prints the statistics of pricing and billing API calls
func PrintAPIStats(w io.Writer, stats *pricing.APIStats) {
	snapshot := stats.Snapshot()
	if len(snapshot) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## AWS API Call Statistics")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tREGION\tAPI CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")

	services := make([]string, 0, len(snapshot))
	for service := range snapshot {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		regions := make([]string, 0, len(snapshot[service]))
		for region := range snapshot[service] {
			regions = append(regions, region)
		}
		sort.Strings(regions)

		for _, region := range regions {
			values := snapshot[service][region]
			success := values[pricing.StatSuccess]
			failure := values[pricing.StatFailure]
			total := success + failure

			successRate := 0.0
			if total > 0 {
				successRate = float64(success) / float64(total) * 100.0
			}

			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
				service,
				region,
				total,
				success,
				failure,
				values[pricing.StatCache],
				successRate,
			)
		}
	}

	tw.Flush()
}
