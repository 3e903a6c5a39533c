package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/collect"
	"github.com/shadowhorn/shadowhorn/internal/correlate"
	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/pipeline"
	"github.com/shadowhorn/shadowhorn/internal/worker"
)

var (
	batchDepartment  string
	batchOutDir      string
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <identifiers-file>",
	Short: "Analyze multiple identifiers concurrently",
	Long: `Batch reads identifiers from a file (one per line, # comments allowed),
runs collection, rule-based correlation and report generation for each,
and writes one report JSON per identifier to the output directory.

Example:
  shadowhorn batch targets.txt
  shadowhorn batch targets.txt --department pentesting --out reports/ --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchDepartment, "department", "d", "osint", "report focus for every identifier")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "reports", "output directory for report JSON files")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "number of identifiers analyzed in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
}

// batchAnalyzer runs the full chain for one identifier.
type batchAnalyzer struct {
	manager    *collect.Manager
	engine     *correlate.Engine
	pipeline   *pipeline.Pipeline
	department string
}

func (a *batchAnalyzer) AnalyzeIdentifier(ctx context.Context, identifier string) (*model.Report, error) {
	collected, errs := a.manager.Collect(ctx, identifier, nil)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning [%s]: %v\n", identifier, e)
	}

	doc := a.engine.Correlate(identifier, collected)
	platforms := a.manager.Platforms()

	rep := a.pipeline.Report(a.department, doc, model.RequestContext{Platforms: platforms})
	return rep, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()

	analyzer := &batchAnalyzer{
		manager:    collect.NewManager(cfg, newCache(cfg)),
		engine:     correlate.NewEngine(),
		pipeline:   pipeline.NewPipeline(cfg),
		department: batchDepartment,
	}

	processor := worker.NewBatchProcessor(analyzer, batchConcurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	renderer := pipeline.NewRenderer(true)
	succeeded, failed := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", result.Identifier, result.Error)
			continue
		}

		outPath := filepath.Join(batchOutDir, result.Identifier+".json")
		if err := renderer.WriteJSON(result.Report, outPath); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", result.Identifier, err)
			continue
		}
		succeeded++
		if verbose {
			fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
		}
	}

	fmt.Fprintf(os.Stderr, "Batch complete: %d succeeded, %d failed\n", succeeded, failed)
	if succeeded == 0 && failed > 0 {
		return fmt.Errorf("all %d identifiers failed", failed)
	}
	return nil
}
