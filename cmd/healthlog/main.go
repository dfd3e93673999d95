package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := &cobra.Command{
		Use:           "healthlog",
		Short:         "Track daily health logs and view scores, trends and insights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().String("profile", "", "Credentials profile (default from HEALTHLOG_PROFILE)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("env-file", ".env", "Optional .env file to load")
	root.PersistentFlags().Bool("offline", false, "Use only the local journal; never contact the backend")

	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newLogCmd(a))
	root.AddCommand(newDashboardCmd(a))
	root.AddCommand(newTrendCmd(a))
	root.AddCommand(newInsightsCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newNarrateCmd(a))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
