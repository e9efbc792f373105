package runner

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTestDir is returned when the test directory is empty.
	ErrInvalidTestDir = errors.New("test_dir is required")

	// ErrInvalidTimeout is returned when the per-test timeout is under a millisecond.
	ErrInvalidTimeout = errors.New("timeout must be at least 1ms")

	// ErrInvalidRetries is returned when the retry count is negative.
	ErrInvalidRetries = errors.New("retries cannot be negative")

	// ErrInvalidReporter is returned when the reporter is not a known reporter.
	ErrInvalidReporter = errors.New("invalid reporter")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url")

	// ErrInvalidTraceMode is returned when the trace capture mode is unknown.
	ErrInvalidTraceMode = errors.New("invalid trace mode")

	// ErrInvalidScreenshotMode is returned when the screenshot capture mode is unknown.
	ErrInvalidScreenshotMode = errors.New("invalid screenshot mode")

	// ErrInvalidVideoMode is returned when the video capture mode is unknown.
	ErrInvalidVideoMode = errors.New("invalid video mode")

	// ErrInvalidViewport is returned when a viewport dimension is not positive.
	ErrInvalidViewport = errors.New("viewport width and height must be positive")

	// ErrNoProjects is returned when no browser target is configured.
	ErrNoProjects = errors.New("at least one project is required")

	// ErrDuplicateProject is returned when two projects share a name.
	ErrDuplicateProject = errors.New("duplicate project name")

	// ErrInvalidProjectName is returned when a project has no name.
	ErrInvalidProjectName = errors.New("project name is required")

	// ErrInvalidWebServer is returned when a web server is configured without a command.
	ErrInvalidWebServer = errors.New("web_server requires a command")
)

// Reporter selects the runner's result output format.
type Reporter string

const (
	ReporterList   Reporter = "list"
	ReporterLine   Reporter = "line"
	ReporterDot    Reporter = "dot"
	ReporterHTML   Reporter = "html"
	ReporterJSON   Reporter = "json"
	ReporterJUnit  Reporter = "junit"
	ReporterBlob   Reporter = "blob"
	ReporterGitHub Reporter = "github"
	ReporterNull   Reporter = "null"
)

// IsValid checks if the reporter is one the runner ships with.
func (r Reporter) IsValid() bool {
	switch r {
	case ReporterList, ReporterLine, ReporterDot, ReporterHTML, ReporterJSON,
		ReporterJUnit, ReporterBlob, ReporterGitHub, ReporterNull:
		return true
	default:
		return false
	}
}

// TraceMode controls when a trace is recorded and kept.
type TraceMode string

const (
	TraceOff                  TraceMode = "off"
	TraceOn                   TraceMode = "on"
	TraceRetainOnFailure      TraceMode = "retain-on-failure"
	TraceOnFirstRetry         TraceMode = "on-first-retry"
	TraceOnAllRetries         TraceMode = "on-all-retries"
	TraceRetainOnFirstFailure TraceMode = "retain-on-first-failure"
)

// IsValid checks if the trace mode is valid.
func (m TraceMode) IsValid() bool {
	switch m {
	case TraceOff, TraceOn, TraceRetainOnFailure, TraceOnFirstRetry,
		TraceOnAllRetries, TraceRetainOnFirstFailure:
		return true
	default:
		return false
	}
}

// ScreenshotMode controls when a screenshot is captured after a test.
type ScreenshotMode string

const (
	ScreenshotOff            ScreenshotMode = "off"
	ScreenshotOn             ScreenshotMode = "on"
	ScreenshotOnlyOnFailure  ScreenshotMode = "only-on-failure"
	ScreenshotOnFirstFailure ScreenshotMode = "on-first-failure"
)

// IsValid checks if the screenshot mode is valid.
func (m ScreenshotMode) IsValid() bool {
	switch m {
	case ScreenshotOff, ScreenshotOn, ScreenshotOnlyOnFailure, ScreenshotOnFirstFailure:
		return true
	default:
		return false
	}
}

// VideoMode controls when a video is recorded and kept.
type VideoMode string

const (
	VideoOff             VideoMode = "off"
	VideoOn              VideoMode = "on"
	VideoRetainOnFailure VideoMode = "retain-on-failure"
	VideoOnFirstRetry    VideoMode = "on-first-retry"
)

// IsValid checks if the video mode is valid.
func (m VideoMode) IsValid() bool {
	switch m {
	case VideoOff, VideoOn, VideoRetainOnFailure, VideoOnFirstRetry:
		return true
	default:
		return false
	}
}

// Viewport is a browser page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// UseOptions are the settings shared by every project.
type UseOptions struct {
	BaseURL    string
	Trace      TraceMode
	Screenshot ScreenshotMode
	Video      VideoMode
	Viewport   Viewport
	Headless   bool
}

// Project is a browser target, named after the device preset it runs with.
type Project struct {
	Name   string
	Device string
}

// WebServer describes a dev server the runner starts before the tests.
type WebServer struct {
	Command             string
	URL                 string
	ReuseExistingServer bool
}

// Config is the record handed to the external test runner. It is built once
// by Load and never mutated afterwards.
type Config struct {
	TestDir       string
	Timeout       time.Duration
	FullyParallel bool
	ForbidOnly    bool
	Retries       int
	Reporter      Reporter
	Use           UseOptions
	Projects      []Project
	WebServer     *WebServer
}

// Clone returns a deep copy so callers can derive variants without touching
// the loaded record.
func (c Config) Clone() Config {
	out := c
	if c.Projects != nil {
		out.Projects = make([]Project, len(c.Projects))
		copy(out.Projects, c.Projects)
	}
	if c.WebServer != nil {
		ws := *c.WebServer
		out.WebServer = &ws
	}
	return out
}

// Project returns the project with the given name.
func (c Config) Project(name string) (Project, bool) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}
