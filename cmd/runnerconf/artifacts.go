package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type planResponse struct {
	Retry          int  `json:"retry"`
	Failed         bool `json:"failed"`
	RecordTrace    bool `json:"record_trace"`
	KeepTrace      bool `json:"keep_trace"`
	KeepScreenshot bool `json:"keep_screenshot"`
	RecordVideo    bool `json:"record_video"`
	KeepVideo      bool `json:"keep_video"`
}

func newArtifactsCmd() *cobra.Command {
	var retry int
	var failed bool

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Show which artifacts an attempt records and keeps",
		Example: `  runnerconf artifacts --failed
  runnerconf artifacts --retry 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if retry < 0 {
				return fmt.Errorf("--retry cannot be negative")
			}

			cfg, err := loadRunnerConfig(newLogger())
			if err != nil {
				return err
			}
			plan := cfg.Use.Plan(retry, failed)

			if flagJSON {
				return printJSON(cmd.OutOrStdout(), planResponse(plan))
			}

			printTable(cmd.OutOrStdout(), []string{"ARTIFACT", "MODE", "RECORDED", "KEPT"}, [][]string{
				{"trace", string(cfg.Use.Trace), yesNo(plan.RecordTrace), yesNo(plan.KeepTrace)},
				{"screenshot", string(cfg.Use.Screenshot), "-", yesNo(plan.KeepScreenshot)},
				{"video", string(cfg.Use.Video), yesNo(plan.RecordVideo), yesNo(plan.KeepVideo)},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "\nattempt %d of %d, %s\n", retry+1, cfg.Retries+1, outcome(failed))
			return nil
		},
	}

	cmd.Flags().IntVar(&retry, "retry", 0, "zero-based retry index (0 is the first run)")
	cmd.Flags().BoolVar(&failed, "failed", false, "the attempt failed")
	return cmd
}

func outcome(failed bool) string {
	if failed {
		return "failed"
	}
	return "passed"
}
