package cli

import (
	"github.com/spf13/cobra"

	"github.com/deploylab/bluegreen/pkg/bluegreen/cluster"
)

// NewClusterCmd creates the "cluster" subcommand with up, down and forward.
func NewClusterCmd() *cobra.Command {
	clusterCmd := &cobra.Command{
		Use:   "cluster",
		Short: "Bootstrap or tear down the tutorial cluster",
	}

	var kubectlPath string
	clusterCmd.PersistentFlags().StringVar(&kubectlPath, "kubectl", cluster.DefaultKubectl, "kubectl binary to use for installs and port-forwards")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Install Argo CD and Argo Rollouts and create the app namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			mgr, err := clusterManager(rt, kubectlPath)
			if err != nil {
				return err
			}
			return mgr.Up(cmd.Context(), rt.cfg.Namespace)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Delete the controller namespaces and the app namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			mgr, err := clusterManager(rt, kubectlPath)
			if err != nil {
				return err
			}
			return mgr.Down(cmd.Context(), rt.cfg.Namespace)
		},
	}

	forwardCmd := &cobra.Command{
		Use:   "forward",
		Short: "Port-forward the Argo CD UI (8080) and the active service (3000)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			mgr, err := clusterManager(rt, kubectlPath)
			if err != nil {
				return err
			}
			return mgr.Forward(cmd.Context(), cluster.DefaultForwards(rt.cfg.Namespace, rt.cfg.AppName))
		},
	}

	clusterCmd.AddCommand(upCmd, downCmd, forwardCmd)
	return clusterCmd
}

func clusterManager(rt *runtime, kubectlPath string) (*cluster.Manager, error) {
	clientset, _, err := rt.kube()
	if err != nil {
		return nil, err
	}

	mgr := cluster.NewManager(clientset, cluster.NewRunner(rt.logger), rt.logger, rt.recorder)
	mgr.SetKubectl(kubectlPath)
	return mgr, nil
}
