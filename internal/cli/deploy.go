package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/deploylab/bluegreen/pkg/bluegreen/errors"
	"github.com/deploylab/bluegreen/pkg/bluegreen/kube"
)

// NewDeployCmd creates the "deploy" subcommand.
func NewDeployCmd() *cobra.Command {
	var files []string

	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Apply manifests to the cluster",
		Long:  "Server-side applies the given manifest files or directories. Directories are applied in lexical order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 {
				return fmt.Errorf("%w: at least one --filename is required", apperrors.ErrInvalid)
			}

			paths, err := collectManifestPaths(files)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			clientset, dynamicClient, err := rt.kube()
			if err != nil {
				return err
			}
			applier := kube.NewApplier(clientset, dynamicClient, rt.logger, rt.recorder, "bluegreen")

			for _, path := range paths {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("%w: reading %s: %w", apperrors.ErrInvalid, path, err)
				}

				applied, err := applier.ApplyManifest(cmd.Context(), data)
				if err != nil {
					return err
				}
				for _, key := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", key)
				}
			}
			return nil
		},
	}

	deployCmd.Flags().StringSliceVarP(&files, "filename", "f", nil, "manifest file or directory to apply (repeatable)")

	return deployCmd
}

func collectManifestPaths(files []string) ([]string, error) {
	var paths []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrInvalid, file, err)
		}
		if !info.IsDir() {
			paths = append(paths, file)
			continue
		}

		entries, err := os.ReadDir(file)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", apperrors.ErrInvalid, file, err)
		}
		// ReadDir returns entries in lexical order already
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			paths = append(paths, filepath.Join(file, entry.Name()))
		}
	}
	return paths, nil
}
