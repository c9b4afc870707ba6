package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcoe/askme/internal/printer"
	"github.com/rcoe/askme/pkg/advisor"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question from the command line",
	Long: `Route a single question through the classifier and advisors and print
the reply, without starting the HTTP server.

Examples:
  askme ask "what is our leave policy"
  askme ask "show my last 5 sales orders"
  askme ask --config demo.yml "generate the PO report for 55269"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := loadApp(configPath)
	if err != nil {
		return printer.ErrorWithContext(
			"Failed to load configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{"Check the configuration file and try again"},
		)
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return printer.Error("Empty question", "Provide a question to route.", nil)
	}

	result, err := app.Router.Route(context.Background(), advisor.Query{Text: question})
	if err != nil {
		return printer.Error("Query failed", err.Error(), nil)
	}

	domains := make([]string, 0, len(result.DomainsInvoked))
	for _, d := range result.DomainsInvoked {
		domains = append(domains, string(d))
	}
	printer.Step("Routed to: %s\n\n", strings.Join(domains, ", "))
	printer.Reply(result.Reply)

	if result.Artifact != nil {
		printer.Info("\n")
		printer.Success("Artifact staged: %s (%s)\n", result.Artifact.ID, result.Artifact.Kind)
		printer.Info("Run the server and fetch /download/%s to retrieve it.\n", result.Artifact.ID)
	}
	return nil
}
