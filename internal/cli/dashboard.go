package cli

import (
	"github.com/spf13/cobra"

	"github.com/deploylab/bluegreen/pkg/bluegreen/dashboard"
)

// NewDashboardCmd creates the "dashboard" subcommand.
func NewDashboardCmd() *cobra.Command {
	var port string

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the status and journal API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			if port == "" {
				port = rt.cfg.DashboardPort
			}

			client, err := rt.rollouts()
			if err != nil {
				return err
			}

			handler, err := dashboard.NewHandler(dashboard.Config{
				Port:                   port,
				Namespace:              rt.cfg.Namespace,
				Rollout:                rt.cfg.AppName,
				JournalRetentionDays:   rt.cfg.JournalRetentionDays,
				JournalCleanupInterval: rt.cfg.JournalCleanupInterval,
			}, client, rt.recorder, rt.logger)
			if err != nil {
				return err
			}

			server := dashboard.NewServer(handler, rt.logger)
			if err := server.Start(cmd.Context()); err != nil {
				return err
			}
			return server.WaitForShutdown(cmd.Context())
		},
	}

	dashboardCmd.Flags().StringVar(&port, "port", "", "port to serve on (default: configured dashboard port)")

	return dashboardCmd
}
