package main

import (
	"fmt"

	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/spf13/cobra"
)

type deviceResponse struct {
	Name              string  `json:"name"`
	Browser           string  `json:"browser"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	DeviceScaleFactor float64 `json:"device_scale_factor"`
	UserAgent         string  `json:"user_agent"`
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the device presets projects can run with",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices := runner.Devices()

			if flagJSON {
				resp := make([]deviceResponse, 0, len(devices))
				for _, d := range devices {
					resp = append(resp, deviceResponse{
						Name:              d.Name,
						Browser:           string(d.DefaultBrowserType),
						Width:             d.Viewport.Width,
						Height:            d.Viewport.Height,
						DeviceScaleFactor: d.DeviceScaleFactor,
						UserAgent:         d.UserAgent,
					})
				}
				return printJSON(cmd.OutOrStdout(), resp)
			}

			var rows [][]string
			for _, d := range devices {
				rows = append(rows, []string{
					d.Name,
					string(d.DefaultBrowserType),
					fmt.Sprintf("%dx%d", d.Viewport.Width, d.Viewport.Height),
					fmt.Sprintf("%g", d.DeviceScaleFactor),
				})
			}
			printTable(cmd.OutOrStdout(), []string{"NAME", "BROWSER", "VIEWPORT", "SCALE"}, rows)
			return nil
		},
	}
}
