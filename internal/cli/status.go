package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the "status" subcommand.
func NewStatusCmd() *cobra.Command {
	var output string

	statusCmd := &cobra.Command{
		Use:   "status [rollout]",
		Short: "Show the rollout's phase, revision and pods",
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

			status, err := client.Status(cmd.Context(), rt.cfg.Namespace, name)
			if err != nil {
				return err
			}

			if output == "json" {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:      %s\n", status.Name)
			fmt.Fprintf(out, "Namespace: %s\n", status.Namespace)
			fmt.Fprintf(out, "Phase:     %s\n", status.Phase)
			if status.Message != "" {
				fmt.Fprintf(out, "Message:   %s\n", status.Message)
			}
			fmt.Fprintf(out, "Paused:    %t\n", status.Paused)
			if status.Aborted {
				fmt.Fprintf(out, "Aborted:   true\n")
			}
			fmt.Fprintf(out, "Image:     %s\n", status.Image)
			if status.Revision != "" {
				fmt.Fprintf(out, "Revision:  %s\n", status.Revision)
			}
			fmt.Fprintf(out, "Replicas:  %d desired, %d ready, %d updated\n",
				status.Replicas, status.ReadyReplicas, status.UpdatedReplicas)

			if len(status.Pods) > 0 {
				fmt.Fprintln(out)
				w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "POD\tHASH\tIMAGE\tPHASE\tREADY")
				for _, pod := range status.Pods {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
						pod.Name, pod.TemplateHash, pod.Image, pod.Phase, pod.Ready)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	statusCmd.Flags().StringVarP(&output, "output", "o", "", "output format (json)")

	return statusCmd
}
