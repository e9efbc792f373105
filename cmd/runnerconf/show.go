package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var format, get string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved runner configuration",
		Example: `  runnerconf show
  runnerconf show --format yaml
  CI=1 runnerconf show --get retries
  runnerconf show --get 'projects.#.name'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunnerConfig(newLogger())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if get != "" {
				doc, err := runner.Render(cfg, runner.FormatJSON)
				if err != nil {
					return err
				}
				value, err := runner.Query(doc, get)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			if flagJSON {
				format = string(runner.FormatJSON)
			}

			if format == "table" {
				printTable(out, []string{"SETTING", "VALUE"}, configRows(cfg))
				return nil
			}

			f, err := runner.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := runner.Render(cfg, f)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	cmd.Flags().StringVar(&get, "get", "", "print a single value by path, e.g. use.baseURL")
	return cmd
}

func configRows(cfg runner.Config) [][]string {
	projects := make([]string, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		projects = append(projects, fmt.Sprintf("%s (%s)", p.Name, p.Device))
	}

	rows := [][]string{
		{"test directory", cfg.TestDir},
		{"timeout", cfg.Timeout.String()},
		{"fully parallel", yesNo(cfg.FullyParallel)},
		{"forbid only", yesNo(cfg.ForbidOnly)},
		{"retries", strconv.Itoa(cfg.Retries)},
		{"reporter", string(cfg.Reporter)},
		{"base url", cfg.Use.BaseURL},
		{"trace", string(cfg.Use.Trace)},
		{"screenshot", string(cfg.Use.Screenshot)},
		{"video", string(cfg.Use.Video)},
		{"viewport", fmt.Sprintf("%dx%d", cfg.Use.Viewport.Width, cfg.Use.Viewport.Height)},
		{"headless", yesNo(cfg.Use.Headless)},
		{"projects", strings.Join(projects, ", ")},
	}

	if cfg.WebServer != nil {
		rows = append(rows,
			[]string{"web server", cfg.WebServer.Command},
			[]string{"web server url", cfg.WebServer.URL},
			[]string{"reuse existing server", yesNo(cfg.WebServer.ReuseExistingServer)},
		)
	}
	return rows
}
