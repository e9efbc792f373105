package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hairizuan-noorazman/runnerconf/publish"
	"github.com/hairizuan-noorazman/runnerconf/storage"
	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	var resultsDir, reportDir, runID string
	var replace bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the runner's results and report to artifact storage",
		Long: `Upload everything the runner wrote to its results and report directories.
Storage is configured under "storage" in the config file or with
RUNNERCONF_STORAGE_* environment variables (type: local or s3).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			if replace && runID == "" {
				return errors.New("--replace requires --run-id")
			}

			id := uuid.New()
			if runID != "" {
				parsed, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid --run-id: %w", err)
				}
				id = parsed
			}

			store, err := storage.New(ctx, storageConfig())
			if err != nil {
				return err
			}

			publisher := publish.NewPublisher(store, log)
			if replace {
				if _, err := publisher.Remove(ctx, id); err != nil && !errors.Is(err, storage.ErrArtifactNotFound) {
					return err
				}
			}

			manifest, err := publisher.Publish(ctx, id,
				publish.Source{Dir: resultsDir},
				publish.Source{Dir: reportDir, Report: true},
			)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), manifest)
			}

			var rows [][]string
			for _, a := range manifest.Artifacts {
				rows = append(rows, []string{string(a.Kind), a.Key, fmt.Sprintf("%d", a.Size)})
			}
			printTable(cmd.OutOrStdout(), []string{"KIND", "KEY", "SIZE"}, rows)
			fmt.Fprintf(cmd.OutOrStdout(), "\nrun %s: %d artifacts, manifest at %s\n",
				manifest.RunID, len(manifest.Artifacts), publish.ManifestKey(manifest.RunID))
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "test-results", "runner output directory")
	cmd.Flags().StringVar(&reportDir, "report", "playwright-report", "HTML report directory")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id to publish under (default: new UUID)")
	cmd.Flags().BoolVar(&replace, "replace", false, "remove what was previously published under --run-id first")
	return cmd
}
