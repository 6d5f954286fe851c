package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigia-io/vigia/internal/detect"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/resolve"
	"github.com/vigia-io/vigia/internal/score"
)

var (
	analyzeBody   string
	analyzeRegion string
	analyzeJSON   bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <title>",
	Short: "Attribute a document without persisting anything",
	Long: `Analyze runs detection, resolution and scoring on a single
document and prints the ranked attributions with their full signal
breakdown. Nothing is stored; useful for catalog tuning and for
inspecting how a headline would be attributed.

Example:
  vigia analyze "Protesta en la RM bloquea carretera" --region Metropolitana`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeBody, "body", "", "document body")
	analyzeCmd.Flags().StringVar(&analyzeRegion, "region", "", "declared source region")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print attributions as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	title := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := gazetteer.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
	}
	idx, err := gazetteer.Build(1, catalog)
	if err != nil {
		return fmt.Errorf("build gazetteer: %w", err)
	}
	gaz := gazetteer.NewHolder(idx)

	detector := detect.NewDetector(cfg.Detector, gaz, nil, verbose)
	resolver := resolve.NewResolver(cfg.Resolver)
	scorer := score.NewScorer(cfg.Scoring)

	candidates := detector.Detect(ctx, title, analyzeBody)
	var matches []resolve.Match
	for _, c := range candidates {
		matches = append(matches, resolver.Resolve(idx, c)...)
	}
	attrs := scorer.Attribute(idx, score.Input{
		DocumentID:   "dry-run",
		Title:        title,
		Body:         analyzeBody,
		SourceRegion: analyzeRegion,
	}, matches, time.Now().UTC())

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(attrs)
	}

	if len(attrs) == 0 {
		fmt.Println("no territories attributed")
		return nil
	}
	for _, a := range attrs {
		name := fmt.Sprintf("territory %d", a.TerritoryID)
		if t, ok := idx.Territory(a.TerritoryID); ok {
			name = t.Name
		}
		fmt.Printf("%-24s %.3f  %s\n", name, a.Score, a.Explanation)
		fmt.Printf("    position %.2f  method %.2f  confidence %.2f  frequency %.2f  source-region %.2f  level %.2f\n",
			a.Breakdown.Position, a.Breakdown.Method, a.Breakdown.Confidence,
			a.Breakdown.Frequency, a.Breakdown.SourceRegion, a.Breakdown.Level)
	}
	return nil
}
