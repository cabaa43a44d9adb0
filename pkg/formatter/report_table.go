package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/younsl/volcost/internal/audit"
	"github.com/younsl/volcost/internal/models"
)

// MaxNameWidth defines the maximum width for the Name column
const MaxNameWidth = 20

// PrintReportTable prints the report's volumes as a table, most expensive first
func PrintReportTable(w io.Writer, report models.Report) {
	fmt.Fprintln(w, report.Title)

	if report.Empty() {
		fmt.Fprintln(w, "No unattached volumes found.")
		return
	}

	volumes := make([]models.Volume, len(report.Volumes))
	copy(volumes, report.Volumes)
	sort.SliceStable(volumes, func(i, j int) bool {
		return volumes[i].Cost > volumes[j].Cost
	})

	// kubectl style
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVOLUME ID\tTYPE\tSIZE\tCREATED\tPREVIOUS MONTH COST")

	totalSize := 0
	for _, volume := range volumes {
		name := volume.Name
		if name == "" {
			name = "N/A"
		}

		cost := audit.FormatMoney(volume.Cost, report.Currency)
		if !volume.CostKnown() {
			cost = "N/A"
		}

		created := "-"
		if !volume.CreateTime.IsZero() {
			created = humanize.Time(volume.CreateTime)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s GB\t%s\t%s\n",
			PadString(TruncateString(name, MaxNameWidth), MaxNameWidth),
			volume.ID,
			orDash(volume.VolumeType),
			humanize.Comma(int64(volume.Capacity)),
			created,
			cost,
		)
		totalSize += volume.Capacity
	}

	fmt.Fprintf(tw, "Total:\t%d volumes\t\t%s GB\t\t%s\n",
		len(volumes),
		humanize.Comma(int64(totalSize)),
		audit.FormatMoney(report.TotalCost, report.Currency),
	)
	tw.Flush()

	if report.FailedLookups > 0 {
		fmt.Fprintf(w, "\nCost lookup failed for %d of %d volumes.\n", report.FailedLookups, len(volumes))
	}
}

// PrintTypeSummary groups the report's volumes by volume type
func PrintTypeSummary(w io.Writer, report models.Report) {
	if report.Empty() {
		return
	}

	type typeInfo struct {
		count int
		size  int
		cost  float64
	}
	byType := make(map[string]typeInfo)
	for _, volume := range report.Volumes {
		info := byType[volume.VolumeType]
		info.count++
		info.size += volume.Capacity
		info.cost += volume.Cost
		byType[volume.VolumeType] = info
	}

	fmt.Fprintln(w, "\n## Unattached Volumes by Type")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "VOLUME TYPE\tCOUNT\tTOTAL SIZE\tPREVIOUS MONTH COST")

	types := make([]string, 0, len(byType))
	for volumeType := range byType {
		types = append(types, volumeType)
	}
	sort.Strings(types)

	for _, volumeType := range types {
		info := byType[volumeType]
		fmt.Fprintf(tw, "%s\t%d\t%s GB\t%s\n",
			orDash(volumeType),
			info.count,
			humanize.Comma(int64(info.size)),
			audit.FormatMoney(info.cost, report.Currency),
		)
	}

	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
