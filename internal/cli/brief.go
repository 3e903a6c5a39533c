package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/llm"
	"github.com/shadowhorn/shadowhorn/internal/normalize"
	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	briefDepartment string
	briefJSON       string
	briefPretty     bool
	briefTimeout    time.Duration
)

// briefCmd represents the brief command
var briefCmd = &cobra.Command{
	Use:   "brief <identifier> <correlation.json>",
	Short: "Generate a prose intelligence brief from a correlation document",
	Long: `Brief asks the configured LLM backend to write a narrative intelligence
brief over an existing correlation document. The focus follows the same
department names the report command uses, plus "combined" for a single
holistic brief.

Requires an LLM provider in the configuration.

Example:
  shadowhorn brief octocat correlation.json
  shadowhorn brief octocat correlation.json --department combined`,
	Args: cobra.ExactArgs(2),
	RunE: runBrief,
}

func init() {
	rootCmd.AddCommand(briefCmd)

	briefCmd.Flags().StringVarP(&briefDepartment, "department", "d", "combined", "brief focus (osint, threat-intel, pentesting, malware-rev, combined)")
	briefCmd.Flags().StringVar(&briefJSON, "json", "", "write brief JSON to this path instead of plain text")
	briefCmd.Flags().BoolVar(&briefPretty, "pretty", true, "indent JSON output")
	briefCmd.Flags().DurationVar(&briefTimeout, "timeout", 3*time.Minute, "brief generation timeout")
}

func runBrief(cmd *cobra.Command, args []string) error {
	identifier := args[0]

	doc, err := readDocument(args[1])
	if err != nil {
		return err
	}

	cfg := loadConfig()
	correlator, err := llm.NewCorrelator(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configure LLM backend: %w", err)
	}
	if correlator == nil {
		return fmt.Errorf("no LLM provider configured; set llm.provider in the configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), briefTimeout)
	defer cancel()

	brief, err := correlator.GenerateBrief(ctx, identifier, briefDepartment, normalize.Unwrap(doc))
	if err != nil {
		return err
	}

	if briefJSON != "" {
		return pipeline.NewRenderer(briefPretty).WriteJSON(brief, briefJSON)
	}
	fmt.Println(brief.Text)
	return nil
}
