package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the runner configuration and the document it renders to",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			bold := color.New(color.Bold).SprintFunc()

			cfg, err := loadRunnerConfig(newLogger())
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", red("✗"), err)
				return err
			}
			fmt.Fprintf(out, "%s configuration loaded\n", green("✓"))

			// Load passes a malformed BASE_URL through; validate is where it fails.
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "%s %s\n", red("✗"), err)
				return err
			}

			doc, err := runner.Render(cfg, runner.FormatJSON)
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", red("✗"), err)
				return err
			}
			if err := runner.ValidateDocument(doc); err != nil {
				var schemaErr *runner.SchemaError
				if errors.As(err, &schemaErr) {
					for _, v := range schemaErr.Violations {
						fmt.Fprintf(out, "%s %s\n", red("✗"), v)
					}
				} else {
					fmt.Fprintf(out, "%s %s\n", red("✗"), err)
				}
				return err
			}
			fmt.Fprintf(out, "%s rendered document matches schema\n", green("✓"))

			for _, p := range cfg.Projects {
				opts, err := cfg.Effective(p)
				if err != nil {
					fmt.Fprintf(out, "%s %s\n", red("✗"), err)
					return err
				}
				fmt.Fprintf(out, "%s project %s: %s %dx%d\n",
					green("✓"), bold(opts.Name), opts.Browser, opts.Viewport.Width, opts.Viewport.Height)
			}
			return nil
		},
	}
}
