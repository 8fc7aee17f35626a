// Package cli wires the bluegreen command tree: project scaffolding, cluster
// bootstrap, deploys, and the rollout operations.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/deploylab/bluegreen/pkg/bluegreen"
)

// NewRootCmd builds the top-level bluegreen command.
func NewRootCmd() *cobra.Command {
	defaults := bluegreen.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "bluegreen",
		Short:         "Blue/green deployment toolkit for Kubernetes",
		Long:          "bluegreen scaffolds a demo project, bootstraps the Argo controllers, and drives blue/green rollouts through promote, abort, retry and undo.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("app", defaults.AppName, "application name the rollout is tracked under")
	rootCmd.PersistentFlags().StringP("namespace", "n", defaults.Namespace, "namespace of the application")
	rootCmd.PersistentFlags().String("kubeconfig", defaults.Kubeconfig, "path to the kubeconfig file")
	rootCmd.PersistentFlags().String("data-dir", defaults.DataPath, "directory for the operation journal")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(
		NewScaffoldCmd(),
		NewClusterCmd(),
		NewDeployCmd(),
		NewStatusCmd(),
		NewPromoteCmd(),
		NewAbortCmd(),
		NewRetryCmd(),
		NewUndoCmd(),
		NewJournalCmd(),
		NewDashboardCmd(),
	)

	return rootCmd
}
