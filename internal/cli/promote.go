package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPromoteCmd creates the "promote" subcommand.
func NewPromoteCmd() *cobra.Command {
	var full bool

	promoteCmd := &cobra.Command{
		Use:   "promote [rollout]",
		Short: "Promote the paused rollout, switching traffic to the new version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			name := rt.cfg.AppName
			if len(args) == 1 {
				name = args[0]
			}

			client, err := rt.rollouts()
			if err != nil {
				return err
			}
			if err := client.Promote(cmd.Context(), rt.cfg.Namespace, name, full); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rollout %s/%s promoted\n", rt.cfg.Namespace, name)
			return nil
		},
	}

	promoteCmd.Flags().BoolVar(&full, "full", false, "skip remaining pauses and steps entirely")

	return promoteCmd
}

// NewAbortCmd creates the "abort" subcommand.
func NewAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort [rollout]",
		Short: "Abort the rollout, keeping traffic on the stable version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			name := rt.cfg.AppName
			if len(args) == 1 {
				name = args[0]
			}

			client, err := rt.rollouts()
			if err != nil {
				return err
			}
			if err := client.Abort(cmd.Context(), rt.cfg.Namespace, name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rollout %s/%s aborted\n", rt.cfg.Namespace, name)
			return nil
		},
	}
}

// NewRetryCmd creates the "retry" subcommand.
func NewRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry [rollout]",
		Short: "Retry an aborted rollout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			name := rt.cfg.AppName
			if len(args) == 1 {
				name = args[0]
			}

			client, err := rt.rollouts()
			if err != nil {
				return err
			}
			if err := client.Retry(cmd.Context(), rt.cfg.Namespace, name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rollout %s/%s retried\n", rt.cfg.Namespace, name)
			return nil
		},
	}
}

// NewUndoCmd creates the "undo" subcommand.
func NewUndoCmd() *cobra.Command {
	var toRevision int64

	undoCmd := &cobra.Command{
		Use:   "undo [rollout]",
		Short: "Roll the rollout back to a previous revision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			name := rt.cfg.AppName
			if len(args) == 1 {
				name = args[0]
			}

			client, err := rt.rollouts()
			if err != nil {
				return err
			}
			if err := client.Undo(cmd.Context(), rt.cfg.Namespace, name, toRevision); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "rollout %s/%s rolled back\n", rt.cfg.Namespace, name)
			return nil
		},
	}

	undoCmd.Flags().Int64Var(&toRevision, "to-revision", 0, "revision to roll back to (default: previous)")

	return undoCmd
}
