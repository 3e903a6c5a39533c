package cli

import (
	"github.com/spf13/cobra"

	"github.com/shadowhorn/shadowhorn/internal/pipeline"
)

var (
	graphJSON   string
	graphPretty bool
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <correlation.json>",
	Short: "Project the identity graph from a correlation document",
	Long: `Graph projects a correlation document into the node/link structure the
dashboard renders: the subject at the center, with usernames, emails,
repositories, posts and connections around it.

Example:
  shadowhorn graph correlation.json
  shadowhorn graph correlation.json --json graph.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&graphJSON, "json", "-", "output path (\"-\" for stdout)")
	graphCmd.Flags().BoolVar(&graphPretty, "pretty", true, "indent JSON output")
}

func runGraph(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(loadConfig())
	g := p.Graph(doc)

	return pipeline.NewRenderer(graphPretty).WriteJSON(g, graphJSON)
}
