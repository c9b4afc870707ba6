package commands

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcoe/askme/internal/printer"
)

var advisorsJSON bool

var advisorsCmd = &cobra.Command{
	Use:   "advisors",
	Short: "List registered advisors",
	Long: `List every advisor in the registry with its domain, registration status
and description.

Use --json for machine-readable output.`,
	RunE: runAdvisors,
}

func init() {
	advisorsCmd.Flags().BoolVar(&advisorsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(advisorsCmd)
}

// advisorView is the JSON shape of one registry entry.
type advisorView struct {
	Domain       string    `json:"domain"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
	RegisteredAt time.Time `json:"registered_at,omitempty"`
}

func runAdvisors(cmd *cobra.Command, args []string) error {
	app, err := loadApp(configPath)
	if err != nil {
		return printer.ErrorWithContext(
			"Failed to load configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{"Check the configuration file and try again"},
		)
	}

	infos := app.Registry.List()

	if advisorsJSON {
		views := make([]advisorView, 0, len(infos))
		for _, info := range infos {
			views = append(views, advisorView{
				Domain:       string(info.Domain),
				Status:       string(info.Status),
				Description:  info.Description,
				RegisteredAt: info.RegisteredAt,
			})
		}
		out, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		printer.Println(string(out))
		return nil
	}

	printer.Info("Advisors (%d registered):\n", app.Registry.Size())
	for _, info := range infos {
		printer.AdvisorRow(string(info.Domain), string(info.Status), info.Description)
	}
	return nil
}
