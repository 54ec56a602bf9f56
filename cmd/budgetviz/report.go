package main

import (
	"os"

	"budgetviz/internal/cli"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the report as a terminal table",
		Long: `Read the contributions sheet once and print the total, the ranked
table of shares and a bar per contributor. Exits non-zero when the sheet
cannot be read or lacks the expected columns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(os.Stderr, cfg.LogLevel)

			reports, err := cli.NewReportService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			report, buildErr := reports.Build(cmd.Context())
			if err := cli.RenderReport(cmd.OutOrStdout(), reports.Source(), report, buildErr); err != nil {
				// the message is already on screen
				cmd.SilenceErrors = true
				return err
			}
			return nil
		},
	}
}
