// Package cli wires the shadowhorn commands: collect raw OSINT, correlate
// it into a profile document, and project that document into graphs,
// summaries and department reports.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shadowhorn",
	Short: "ShadowHorn - OSINT aggregation and intelligence reporting",
	Long: `ShadowHorn collects public footprint data for an identifier, correlates
it into a single structured profile, and turns that profile into identity
graphs, risk assessments and department-focused intelligence reports.

It only processes publicly reachable data and never authenticates as the
subject. Reports describe exposure, not guilt.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for ShadowHorn.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shadowhorn v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.shadowhorn/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.shadowhorn")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SHADOWHORN_*
	viper.SetEnvPrefix("SHADOWHORN")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file over the defaults and resolves
// credentials from the environment.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)

	cfg.Output.Verbose = verbose

	if cfg.Collect.GitHubToken == "" {
		cfg.Collect.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Collect.BreachAPIKey == "" {
		cfg.Collect.BreachAPIKey = os.Getenv("BREACHDIRECTORY_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "openrouter":
			cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
		}
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	if cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = home + "/.shadowhorn/cache"
		}
	}

	return cfg
}
