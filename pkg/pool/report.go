package pool

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// UsageReport renders a human-readable per-root capacity report for
// operators.
func (p *Pool) UsageReport() (string, error) {
	infos, err := p.Snapshots()
	if err != nil {
		return "", err
	}

	var report strings.Builder
	report.WriteString("Disk Usage Report:\n")
	fmt.Fprintf(&report, "Total Disks: %d\n", len(infos))

	for i, info := range infos {
		fmt.Fprintf(&report,
			"Disk %d: %s\n  Total: %s\n  Used: %s\n  Available: %s\n  Usage: %d%%\n  Accessible: %t\n\n",
			i+1,
			info.Path,
			humanize.IBytes(info.TotalSpace),
			humanize.IBytes(info.UsedSpace),
			humanize.IBytes(info.AvailableSpace),
			info.UsagePercentage,
			info.IsAccessible,
		)
	}

	return report.String(), nil
}
