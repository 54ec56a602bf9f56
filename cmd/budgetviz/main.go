package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budgetviz",
		Short: "Budget contributions report",
		Long: `budgetviz reads the budget contributions sheet, totals each contributor's
share and shows the result as a web page or a terminal table.

Configuration comes from the environment (and a .env file when present).
Without a subcommand the web server is started.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(reportCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
