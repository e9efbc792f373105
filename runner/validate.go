package runner

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks that the configuration is internally consistent. It returns
// the first problem found.
func (c Config) Validate() error {
	return c.validate(true)
}

func (c Config) validate(checkBaseURL bool) error {
	if c.TestDir == "" {
		return ErrInvalidTestDir
	}
	if c.Timeout < time.Millisecond {
		return fmt.Errorf("%w: got %s, the runner counts in milliseconds", ErrInvalidTimeout, c.Timeout)
	}
	if c.Retries < 0 {
		return ErrInvalidRetries
	}
	if !c.Reporter.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReporter, c.Reporter)
	}
	if err := c.Use.validate(checkBaseURL); err != nil {
		return err
	}
	if err := validateProjects(c.Projects); err != nil {
		return err
	}
	if c.WebServer != nil && c.WebServer.Command == "" {
		return ErrInvalidWebServer
	}
	return nil
}

// Validate checks the shared options.
func (u UseOptions) Validate() error {
	return u.validate(true)
}

func (u UseOptions) validate(checkBaseURL bool) error {
	if checkBaseURL {
		if err := validateBaseURL(u.BaseURL); err != nil {
			return err
		}
	}
	if !u.Trace.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTraceMode, u.Trace)
	}
	if !u.Screenshot.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidScreenshotMode, u.Screenshot)
	}
	if !u.Video.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidVideoMode, u.Video)
	}
	if u.Viewport.Width <= 0 || u.Viewport.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, u.Viewport.Width, u.Viewport.Height)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, raw)
	}
	return nil
}

func validateProjects(projects []Project) error {
	if len(projects) == 0 {
		return ErrNoProjects
	}

	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.Name == "" {
			return ErrInvalidProjectName
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateProject, p.Name)
		}
		seen[p.Name] = true

		if _, err := LookupDevice(p.Device); err != nil {
			return fmt.Errorf("project %q: %w", p.Name, err)
		}
	}
	return nil
}
