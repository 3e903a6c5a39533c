package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	reportDepartment    string
	reportComprehensive bool
	reportPlatforms     []string
	reportMode          string
	reportPrompt        string
	reportJSON          string
	reportPretty        bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <correlation.json>",
	Short: "Generate an intelligence report from a correlation document",
	Long: `Report turns a correlation document into a department-focused
intelligence report: OSINT exposure, threat intel, offensive recon or
malware relevance. Sections with no meaningful content are dropped.

Example:
  shadowhorn report correlation.json
  shadowhorn report correlation.json --department threat-intel
  shadowhorn report correlation.json --comprehensive --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportDepartment, "department", "d", "osint", "report focus (osint, threat-intel, pentesting, malware-rev)")
	reportCmd.Flags().BoolVar(&reportComprehensive, "comprehensive", false, "generate the full-detail report instead of a department view")
	reportCmd.Flags().StringSliceVar(&reportPlatforms, "platforms", nil, "platforms the data was collected from (recorded in report meta)")
	reportCmd.Flags().StringVar(&reportMode, "mode", "", "correlation mode to record in report meta")
	reportCmd.Flags().StringVar(&reportPrompt, "prompt", "", "custom prompt to record in report meta")
	reportCmd.Flags().StringVar(&reportJSON, "json", "", "write report JSON to this path instead of text output")
	reportCmd.Flags().BoolVar(&reportPretty, "pretty", true, "indent JSON output")
}

func runReport(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig()
	p := pipeline.NewPipeline(cfg)

	reqctx := model.RequestContext{
		Platforms: reportPlatforms,
		Mode:      reportMode,
		Prompt:    reportPrompt,
	}

	var rep *model.Report
	if reportComprehensive {
		rep = p.ComprehensiveReport(doc, reqctx)
	} else {
		rep = p.Report(reportDepartment, doc, reqctx)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Department: %s\n", rep.Meta.Department)
		fmt.Fprintf(os.Stderr, "Sections:   %d\n", len(rep.Sections))
		fmt.Fprintf(os.Stderr, "Sources:    %s\n", strings.Join(rep.Meta.Sources, ", "))
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(reportPretty)
	if reportJSON != "" {
		return renderer.WriteJSON(rep, reportJSON)
	}
	renderer.RenderReport(os.Stdout, rep)
	return nil
}
