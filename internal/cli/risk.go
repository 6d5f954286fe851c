package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	riskRun       bool
	riskSinceDays int
)

// riskCmd represents the risk command
var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Aggregate and inspect per-territory risk snapshots",
	Long: `Risk rolls the trailing attribution window up into one snapshot per
territory: a 0-10 risk score, its logistic probability, a confidence
grade, the trend against the previous snapshot and an anomaly flag.

Examples:
  vigia risk --run          aggregate the current window, then list it
  vigia risk --since 3      list snapshots from the last 3 days`,
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().BoolVar(&riskRun, "run", false, "aggregate the current window before listing")
	riskCmd.Flags().IntVar(&riskSinceDays, "since", 1, "list snapshots from the last N days")
}

func runRisk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if riskRun {
		n, err := app.pipe.RunRisk(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d snapshots\n", n)
	}

	since := time.Now().UTC().AddDate(0, 0, -riskSinceDays)
	snaps, err := app.store.SnapshotsSince(ctx, since)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots in range")
		return nil
	}

	idx := app.gaz.Current()
	for _, s := range snaps {
		name := fmt.Sprintf("territory %d", s.TerritoryID)
		if t, ok := idx.Territory(s.TerritoryID); ok {
			name = t.Name
		}
		flags := ""
		if s.Anomaly {
			flags = "  ANOMALY"
		}
		fmt.Printf("%-24s score %5.2f  prob %.2f  conf %.2f  %-7s docs %d  sources %d%s\n",
			name, s.Score, s.Probability, s.Confidence, s.Trend,
			s.Drivers.NumDocuments, s.Drivers.DistinctSources, flags)
		if verbose {
			for _, tc := range s.Drivers.TopTopics {
				fmt.Printf("    %-16s %d\n", tc.Topic, tc.Count)
			}
		}
	}
	return nil
}
