package runner

import "time"

const (
	DefaultTestDir   = "./tests"
	DefaultTimeout   = 30 * time.Second
	DefaultBaseURL   = "http://localhost:3000"
	DefaultCIRetries = 2

	// 600x800 keeps screenshots small while still showing the UI clearly.
	DefaultViewportWidth  = 600
	DefaultViewportHeight = 800
)

// Default returns the configuration used when no environment variable and no
// config file is present.
func Default() Config {
	return Config{
		TestDir:       DefaultTestDir,
		Timeout:       DefaultTimeout,
		FullyParallel: true,
		ForbidOnly:    false,
		Retries:       0,
		Reporter:      ReporterHTML,
		Use: UseOptions{
			BaseURL:    DefaultBaseURL,
			Trace:      TraceOnFirstRetry,
			Screenshot: ScreenshotOnlyOnFailure,
			Video:      VideoRetainOnFailure,
			Viewport: Viewport{
				Width:  DefaultViewportWidth,
				Height: DefaultViewportHeight,
			},
			Headless: true,
		},
		Projects: DefaultProjects(),
	}
}

// DefaultProjects returns the browser targets enabled out of the box.
func DefaultProjects() []Project {
	return []Project{
		{Name: "chromium", Device: DeviceDesktopChrome},
	}
}

// OptionalProjects returns the additional browser targets that ship disabled.
// They can be switched on by listing them under `projects` in the config file.
func OptionalProjects() []Project {
	return []Project{
		{Name: "firefox", Device: DeviceDesktopFirefox},
		{Name: "webkit", Device: DeviceDesktopSafari},
	}
}
