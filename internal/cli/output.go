package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/eshaffer321/bundlebuilder/internal/application/service"
	"github.com/eshaffer321/bundlebuilder/internal/domain/engine"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, command string, dryRun bool) {
	mode := "PERSIST"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Fprintf(w, "bundler: %s (%s mode)\n", command, mode)
}

// PrintBuildSummary prints the build counters and every collection
func PrintBuildSummary(w io.Writer, summary *service.BuildSummary, snap engine.Snapshot) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Build %s: Products=%d Eligible=%d Skipped=%d Collections=%d Pool=%d\n",
		summary.ID, summary.Products, summary.Eligible, summary.Skipped, summary.Collections, summary.Pool)
	fmt.Fprintf(w, "Window: %s - %s (target %s, %d-%d items)\n\n",
		snap.Window.Min, snap.Window.Max, snap.Window.Target, snap.Window.MinItems, snap.Window.MaxItems)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tITEMS\tTOTAL\tIN WINDOW")
	for _, c := range snap.Collections {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.ID, c.Count, c.Total, yesNo(c.InWindow))
	}
	if snap.Custom.Count > 0 {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", snap.Custom.ID, snap.Custom.Count, snap.Custom.Total, yesNo(snap.Custom.InWindow))
	}
	_ = tw.Flush()

	if len(summary.SkippedThemes) > 0 {
		fmt.Fprintf(w, "\nSkipped themes: %s\n", strings.Join(summary.SkippedThemes, ", "))
	}
	if len(summary.DroppedCustom) > 0 {
		fmt.Fprintf(w, "Dropped from custom: %s\n", strings.Join(summary.DroppedCustom, ", "))
	}
	if len(snap.Deviations) > 0 {
		fmt.Fprintln(w, "\nDeviations:")
		for _, d := range snap.Deviations {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
