package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigia-io/vigia/internal/alert"
	"github.com/vigia-io/vigia/internal/model"
)

var (
	alertsRun       bool
	alertsSinceDays int

	ruleName          string
	ruleTerritory     string
	ruleTopic         string
	ruleMinProb       float64
	ruleMinConfidence float64
)

// alertsCmd represents the alerts command
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate alert rules and list alert events",
	Long: `Alerts matches fresh risk snapshots against the enabled rules.
A rule fires when its territory and topic filters match and the
snapshot clears both probability and confidence thresholds; repeats
for the same (territory, rule) pair inside the cool-down window are
suppressed. Configured notify_urls receive every new event.

Examples:
  vigia alerts --run        evaluate rules now, then list events
  vigia alerts --since 7    list events from the last 7 days`,
	RunE: runAlerts,
}

// alertsAddCmd creates a rule
var alertsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an alert rule",
	Long: `Add validates and stores an alert rule.

Example:
  vigia alerts add --name "aysen-high" --territory "Aysén" --min-probability 0.7`,
	RunE: runAlertsAdd,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsAddCmd)

	alertsCmd.Flags().BoolVar(&alertsRun, "run", false, "evaluate rules before listing")
	alertsCmd.Flags().IntVar(&alertsSinceDays, "since", 7, "list events from the last N days")

	alertsAddCmd.Flags().StringVar(&ruleName, "name", "", "rule name (required)")
	alertsAddCmd.Flags().StringVar(&ruleTerritory, "territory", "", "territory name filter (substring, accent-insensitive)")
	alertsAddCmd.Flags().StringVar(&ruleTopic, "topic", "", "topic filter (substring)")
	alertsAddCmd.Flags().Float64Var(&ruleMinProb, "min-probability", 0.6, "minimum snapshot probability")
	alertsAddCmd.Flags().Float64Var(&ruleMinConfidence, "min-confidence", 0.4, "minimum snapshot confidence")
	_ = alertsAddCmd.MarkFlagRequired("name")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if alertsRun {
		var notifier alert.Notifier = alert.NopNotifier{}
		if len(app.cfg.Alerts.NotifyURLs) > 0 {
			n, err := alert.NewShoutrrrNotifier(app.cfg.Alerts.NotifyURLs, 10*time.Second)
			if err != nil {
				return fmt.Errorf("configure notifier: %w", err)
			}
			notifier = n
		}
		n, err := app.pipe.RunAlerts(ctx, notifier)
		if err != nil {
			return err
		}
		fmt.Printf("created %d alert events\n", n)
	}

	since := time.Now().UTC().AddDate(0, 0, -alertsSinceDays)
	events, err := app.store.EventsSince(ctx, since)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no alert events in range")
		return nil
	}

	for _, ev := range events {
		fmt.Printf("%s  %-12s %-24s prob %.2f  conf %.2f\n",
			ev.TriggeredAt.Format("2006-01-02 15:04"), ev.Status, ev.Territory,
			ev.Probability, ev.Confidence)
		if verbose {
			fmt.Printf("    %s\n", ev.Explanation)
		}
	}
	return nil
}

func runAlertsAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	id, err := app.store.SaveRule(ctx, model.AlertRule{
		Name:            ruleName,
		TerritoryFilter: ruleTerritory,
		TopicFilter:     ruleTopic,
		MinProbability:  ruleMinProb,
		MinConfidence:   ruleMinConfidence,
		Enabled:         true,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created rule %d (%s)\n", id, ruleName)
	return nil
}
