package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/collect"
	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	collectPlatforms []string
	collectJSON      string
	collectPretty    bool
	collectTimeout   time.Duration
	collectNoCache   bool
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect <identifier>",
	Short: "Collect raw OSINT data for an identifier",
	Long: `Collect gathers publicly reachable data for a username or email across
the registered platforms (GitHub, Snapchat, BreachDirectory, compromise
check) and writes the raw per-platform documents as a JSON array.

Per-platform failures are reported but do not abort the run.

Example:
  shadowhorn collect octocat
  shadowhorn collect octocat --platforms github,compromise --json octocat.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringSliceVar(&collectPlatforms, "platforms", nil, "platforms to collect from (default: all registered)")
	collectCmd.Flags().StringVar(&collectJSON, "json", "-", "output path (\"-\" for stdout)")
	collectCmd.Flags().BoolVar(&collectPretty, "pretty", true, "indent JSON output")
	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 3*time.Minute, "overall collection timeout")
	collectCmd.Flags().BoolVar(&collectNoCache, "no-cache", false, "disable cache (force fresh collection)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	identifier := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	cfg := loadConfig()
	if collectNoCache {
		cfg.Cache.Enabled = false
	}

	manager := collect.NewManager(cfg, newCache(cfg))

	if verbose {
		fmt.Fprintf(os.Stderr, "Collecting: %s\n", identifier)
		fmt.Fprintf(os.Stderr, "Platforms:  %v\n", manager.Platforms())
		fmt.Fprintln(os.Stderr)
	}

	collected, errs := manager.Collect(ctx, identifier, collectPlatforms)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	if len(collected) == 0 {
		return fmt.Errorf("no data collected for %s", identifier)
	}

	if verbose {
		for _, data := range collected {
			fmt.Fprintf(os.Stderr, "Collected %s data\n", data.Platform)
		}
		fmt.Fprintln(os.Stderr)
	}

	return pipeline.NewRenderer(collectPretty).WriteJSON(collected, collectJSON)
}
