package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
	"github.com/deploylab/bluegreen/pkg/bluegreen/scaffold"
)

// NewScaffoldCmd creates the "scaffold" subcommand.
func NewScaffoldCmd() *cobra.Command {
	var (
		dir      string
		image    string
		tag      string
		port     int
		replicas int
		showDiff bool
	)

	scaffoldCmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate the blue/green demo project files",
		Long:  "Writes the demo project into a directory: Dockerfile, the two server sources, the CI pipeline, the Rollout and Service manifests, and the helper scripts. Existing files are overwritten.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := scaffold.DefaultParams()
			if v, err := cmd.Flags().GetString("app"); err == nil && v != "" {
				params.AppName = v
			}
			if v, err := cmd.Flags().GetString("namespace"); err == nil && v != "" {
				params.Namespace = v
			}
			if image != "" {
				params.Image = image
			}
			if tag != "" {
				params.Tag = tag
			}
			if port != 0 {
				params.Port = port
			}
			if replicas != 0 {
				params.Replicas = replicas
			}

			if showDiff {
				diff, err := scaffold.Diff(dir, params)
				if err != nil {
					return err
				}
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return nil
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			written, err := scaffold.Write(dir, params)
			if err != nil {
				journal.RecordSafe(rt.recorder, rt.logger, journal.Failure("scaffold", params.AppName, "Failed to generate project files", err))
				return err
			}
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			journal.RecordSafe(rt.recorder, rt.logger, journal.Success("scaffold", params.AppName, fmt.Sprintf("Generated %d project files in %s", len(written), dir)))
			return nil
		},
	}

	scaffoldCmd.Flags().StringVar(&dir, "dir", ".", "target directory for the generated project")
	scaffoldCmd.Flags().StringVar(&image, "image", "", "container image repository")
	scaffoldCmd.Flags().StringVar(&tag, "tag", "", "initial image tag")
	scaffoldCmd.Flags().IntVar(&port, "port", 0, "container port the demo app listens on")
	scaffoldCmd.Flags().IntVar(&replicas, "replicas", 0, "replica count in the Rollout manifest")
	scaffoldCmd.Flags().BoolVar(&showDiff, "diff", false, "show what would change without writing")

	return scaffoldCmd
}
