package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eshaffer321/splitwise-sync/internal/adapters/splitwise"
	"github.com/eshaffer321/splitwise-sync/internal/application/sync"
	"github.com/eshaffer321/splitwise-sync/internal/infrastructure/storage"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, sourceName string, groupID int64, dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Fprintf(w, "splitwise-sync: %s -> group %d (%s mode)\n\n", sourceName, groupID, mode)
}

// PrintSyncSummary prints the sync result summary
func PrintSyncSummary(w io.Writer, result *sync.Result, stats *storage.Stats, dryRun bool) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Snapshot=%d Read=%d Considered=%d Created=%d DryRun=%d Duplicates=%d Declined=%d Errors=%d\n",
		result.SnapshotCount,
		result.ReadCount,
		result.ConsideredCount,
		result.CreatedCount,
		result.DryRunCount,
		result.DuplicateCount,
		result.DeclinedCount,
		result.ErrorCount)

	if len(result.Created) > 0 {
		fmt.Fprintln(w, "\nCreated:")
		for _, exp := range result.Created {
			fmt.Fprintf(w, "  #%d %s %s\n", exp.IDValue(), deref(exp.Cost), deref(exp.Description))
		}
	}

	// Print errors if any
	if len(result.Errors) > 0 {
		red := color.New(color.FgRed)
		fmt.Fprintln(w, "\nErrors:")
		for _, err := range result.Errors {
			red.Fprintf(w, "  - %v\n", err)
		}
	}

	if stats != nil && stats.TotalRuns > 0 {
		fmt.Fprintf(w, "\nAll-Time Stats: Runs=%d Failed=%d Created=%d Amount=$%s\n",
			stats.TotalRuns,
			stats.FailedRuns,
			stats.OutcomeCounts[storage.OutcomeCreated],
			stats.CreatedAmount)
	}

	if !dryRun && result.ErrorCount == 0 && result.CreatedCount > 0 {
		fmt.Fprintln(w, "\nSync completed successfully.")
	}
}

// PrintCurrencies prints one currency per line
func PrintCurrencies(w io.Writer, currencies []splitwise.Currency) {
	for _, c := range currencies {
		fmt.Fprintf(w, "%-5s %s\n", c.CurrencyCode, c.Unit)
	}
}

// PrintCategories prints categories with their subcategories indented
func PrintCategories(w io.Writer, categories []splitwise.Category) {
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		for _, sub := range c.Subcategories {
			fmt.Fprintf(w, "  %d\t%s\n", sub.ID, sub.Name)
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
