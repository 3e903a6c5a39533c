package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	summaryJSON   string
	summaryPretty bool
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary <correlation.json>",
	Short: "Print the dashboard summary for a correlation document",
	Long: `Summary condenses a correlation document into the one-screen overview
the dashboard shows: risk level, footprint, interests, activity,
timeline span and key observables.

Example:
  shadowhorn summary correlation.json
  shadowhorn summary correlation.json --json summary.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryJSON, "json", "", "write summary JSON to this path instead of text output")
	summaryCmd.Flags().BoolVar(&summaryPretty, "pretty", true, "indent JSON output")
}

func runSummary(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(loadConfig())
	analysis := p.Analyze(doc)

	renderer := pipeline.NewRenderer(summaryPretty)
	if summaryJSON != "" {
		return renderer.WriteJSON(analysis.Summary, summaryJSON)
	}
	renderer.RenderSummary(os.Stdout, analysis)
	return nil
}
