package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vigia-io/vigia/internal/model"
)

var (
	srcID          int64
	srcName        string
	srcURL         string
	srcRegion      string
	srcWeight      float64
	srcCredibility float64
	srcOfficial    bool
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Maintain the source registry",
	Long: `Sources maintains the registry the scorer and the risk aggregator
consult for weight, credibility, declared region and official status.
Documents from unregistered sources fall back to neutral values.`,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a source",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		src := model.Source{
			ID:          srcID,
			Name:        srcName,
			URL:         srcURL,
			Region:      srcRegion,
			Weight:      srcWeight,
			Credibility: srcCredibility,
			Official:    srcOfficial,
			Enabled:     true,
		}
		if err := app.store.UpsertSource(ctx, src); err != nil {
			return err
		}
		fmt.Printf("saved source %d (%s)\n", src.ID, src.Name)
		return nil
	},
}

var sourcesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sources from a YAML file",
	Long: `Import reads a YAML list of sources and upserts each entry.

Example file:
  - id: 1
    name: Diario Austral
    region: Los Ríos
    weight: 1.2
    credibility: 0.8
  - id: 2
    name: Municipalidad de Aysén
    region: Aysén
    official: true`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read sources file: %w", err)
		}
		var sources []model.Source
		if err := yaml.Unmarshal(data, &sources); err != nil {
			return fmt.Errorf("parse sources file: %w", err)
		}

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		for i := range sources {
			src := sources[i]
			if src.Weight == 0 {
				src.Weight = 1.0
			}
			if src.Credibility == 0 {
				src.Credibility = 0.7
			}
			src.Enabled = true
			if err := app.store.UpsertSource(ctx, src); err != nil {
				return fmt.Errorf("source %d: %w", src.ID, err)
			}
		}
		fmt.Printf("imported %d sources\n", len(sources))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesImportCmd)

	sourcesAddCmd.Flags().Int64Var(&srcID, "id", 0, "source id (required)")
	sourcesAddCmd.Flags().StringVar(&srcName, "name", "", "source name (required)")
	sourcesAddCmd.Flags().StringVar(&srcURL, "url", "", "source site URL")
	sourcesAddCmd.Flags().StringVar(&srcRegion, "region", "", "declared region")
	sourcesAddCmd.Flags().Float64Var(&srcWeight, "weight", 1.0, "score weight")
	sourcesAddCmd.Flags().Float64Var(&srcCredibility, "credibility", 0.7, "credibility 0..1")
	sourcesAddCmd.Flags().BoolVar(&srcOfficial, "official", false, "official channel")
	_ = sourcesAddCmd.MarkFlagRequired("id")
	_ = sourcesAddCmd.MarkFlagRequired("name")
}
