package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// configPath is the global --config flag shared by all subcommands.
var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askme",
	Short: "AskMe - Intent-routing advisory chatbot",
	Long: `AskMe is a conversational front end that classifies free-text questions
into business domains (general, finance, hr, orders, reports) and dispatches
them to domain-specific backend advisors.

Classification is dual-mode: a language model picks a single domain when
available, with a deterministic keyword fallback that can fan a query out to
several domains at once. Binary outputs (generated PDFs, workbook exports)
are staged in an artifact store and returned as download links.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "askme.yml", "Path to the configuration file")
}
