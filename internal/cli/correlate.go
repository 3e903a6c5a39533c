package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/collect"
	"github.com/shadowhorn/shadowhorn/internal/correlate"
	"github.com/shadowhorn/shadowhorn/internal/llm"
	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	correlateInput     string
	correlateMode      string
	correlatePlatforms []string
	correlateRulesOnly bool
	correlateJSON      string
	correlatePretty    bool
	correlateTimeout   time.Duration
)

// correlateCmd represents the correlate command
var correlateCmd = &cobra.Command{
	Use:   "correlate <identifier>",
	Short: "Correlate collected OSINT data into a profile document",
	Long: `Correlate merges the per-platform data for an identifier into a single
structured profile document. With an LLM provider configured, the model
performs the correlation; otherwise (or with --rules) a deterministic
rule-based merge runs locally.

By default the collectors run first; use --input to correlate data
collected earlier.

Example:
  shadowhorn correlate octocat
  shadowhorn correlate octocat --mode fast --json profile.json
  shadowhorn correlate octocat --input octocat.json --rules`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrelate,
}

func init() {
	rootCmd.AddCommand(correlateCmd)

	correlateCmd.Flags().StringVar(&correlateInput, "input", "", "collected-data JSON file (skip live collection)")
	correlateCmd.Flags().StringVar(&correlateMode, "mode", "deep", "correlation mode (fast, deep)")
	correlateCmd.Flags().StringSliceVar(&correlatePlatforms, "platforms", nil, "platforms to collect from (default: all registered)")
	correlateCmd.Flags().BoolVar(&correlateRulesOnly, "rules", false, "force the rule-based engine even when an LLM is configured")
	correlateCmd.Flags().StringVar(&correlateJSON, "json", "-", "output path (\"-\" for stdout)")
	correlateCmd.Flags().BoolVar(&correlatePretty, "pretty", true, "indent JSON output")
	correlateCmd.Flags().DurationVar(&correlateTimeout, "timeout", 5*time.Minute, "overall correlation timeout")
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	identifier := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), correlateTimeout)
	defer cancel()

	cfg := loadConfig()

	collected, err := gatherData(ctx, cfg, identifier)
	if err != nil {
		return err
	}

	doc, err := correlateData(ctx, cfg, identifier, collected)
	if err != nil {
		return err
	}

	return pipeline.NewRenderer(correlatePretty).WriteJSON(doc, correlateJSON)
}

// gatherData loads collected data from --input or runs the collectors.
func gatherData(ctx context.Context, cfg *model.Config, identifier string) ([]model.PlatformData, error) {
	if correlateInput != "" {
		return readCollected(correlateInput)
	}

	manager := collect.NewManager(cfg, newCache(cfg))
	collected, errs := manager.Collect(ctx, identifier, correlatePlatforms)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	return collected, nil
}

// correlateData prefers the configured LLM backend and falls back to the
// rule-based engine when no provider is configured or the model fails.
func correlateData(ctx context.Context, cfg *model.Config, identifier string, collected []model.PlatformData) (map[string]any, error) {
	if !correlateRulesOnly {
		correlator, err := llm.NewCorrelator(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("configure LLM backend: %w", err)
		}
		if correlator != nil {
			doc, err := correlator.Correlate(ctx, identifier, correlateMode, collected)
			if err == nil {
				return doc, nil
			}
			fmt.Fprintf(os.Stderr, "warning: LLM correlation failed, falling back to rules: %v\n", err)
		}
	}

	return correlate.NewEngine().Correlate(identifier, collected), nil
}
