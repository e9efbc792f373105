package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned when a render format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPathNotFound is returned when a query path matches nothing in a document.
	ErrPathNotFound = errors.New("path not found")
)

// Format is a serialisation of the configuration understood by the runner.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name, accepting "yml" as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

type viewportDocument struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type useDocument struct {
	BaseURL    string           `json:"baseURL" yaml:"baseURL"`
	Trace      string           `json:"trace" yaml:"trace"`
	Screenshot string           `json:"screenshot" yaml:"screenshot"`
	Video      string           `json:"video" yaml:"video"`
	Viewport   viewportDocument `json:"viewport" yaml:"viewport"`
	Headless   bool             `json:"headless" yaml:"headless"`
}

type deviceDocument struct {
	UserAgent          string           `json:"userAgent" yaml:"userAgent"`
	Viewport           viewportDocument `json:"viewport" yaml:"viewport"`
	Screen             viewportDocument `json:"screen" yaml:"screen"`
	DeviceScaleFactor  float64          `json:"deviceScaleFactor" yaml:"deviceScaleFactor"`
	IsMobile           bool             `json:"isMobile" yaml:"isMobile"`
	HasTouch           bool             `json:"hasTouch" yaml:"hasTouch"`
	DefaultBrowserType string           `json:"defaultBrowserType" yaml:"defaultBrowserType"`
}

type projectDocument struct {
	Name string         `json:"name" yaml:"name"`
	Use  deviceDocument `json:"use" yaml:"use"`
}

type webServerDocument struct {
	Command             string `json:"command" yaml:"command"`
	URL                 string `json:"url" yaml:"url"`
	ReuseExistingServer bool   `json:"reuseExistingServer" yaml:"reuseExistingServer"`
}

// document mirrors the runner's own configuration keys. Timeout is in milliseconds.
type document struct {
	TestDir       string             `json:"testDir" yaml:"testDir"`
	Timeout       int64              `json:"timeout" yaml:"timeout"`
	FullyParallel bool               `json:"fullyParallel" yaml:"fullyParallel"`
	ForbidOnly    bool               `json:"forbidOnly" yaml:"forbidOnly"`
	Retries       int                `json:"retries" yaml:"retries"`
	Reporter      string             `json:"reporter" yaml:"reporter"`
	Use           useDocument        `json:"use" yaml:"use"`
	Projects      []projectDocument  `json:"projects" yaml:"projects"`
	WebServer     *webServerDocument `json:"webServer,omitempty" yaml:"webServer,omitempty"`
}

func toDocument(c Config) (document, error) {
	doc := document{
		TestDir:       c.TestDir,
		Timeout:       c.Timeout.Milliseconds(),
		FullyParallel: c.FullyParallel,
		ForbidOnly:    c.ForbidOnly,
		Retries:       c.Retries,
		Reporter:      string(c.Reporter),
		Use: useDocument{
			BaseURL:    c.Use.BaseURL,
			Trace:      string(c.Use.Trace),
			Screenshot: string(c.Use.Screenshot),
			Video:      string(c.Use.Video),
			Viewport:   viewportDocument(c.Use.Viewport),
			Headless:   c.Use.Headless,
		},
		Projects: make([]projectDocument, 0, len(c.Projects)),
	}

	for _, p := range c.Projects {
		d, err := LookupDevice(p.Device)
		if err != nil {
			return document{}, fmt.Errorf("project %q: %w", p.Name, err)
		}
		doc.Projects = append(doc.Projects, projectDocument{
			Name: p.Name,
			Use: deviceDocument{
				UserAgent:          d.UserAgent,
				Viewport:           viewportDocument(d.Viewport),
				Screen:             viewportDocument(d.Screen),
				DeviceScaleFactor:  d.DeviceScaleFactor,
				IsMobile:           d.IsMobile,
				HasTouch:           d.HasTouch,
				DefaultBrowserType: string(d.DefaultBrowserType),
			},
		})
	}

	if c.WebServer != nil {
		doc.WebServer = &webServerDocument{
			Command:             c.WebServer.Command,
			URL:                 c.WebServer.URL,
			ReuseExistingServer: c.WebServer.ReuseExistingServer,
		}
	}

	return doc, nil
}

// Render serialises the configuration using the runner's key names.
func Render(c Config, format Format) ([]byte, error) {
	doc, err := toDocument(c)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Query looks up a gjson path (e.g. "use.baseURL" or "projects.#.name") in a
// rendered JSON document. Objects and arrays are returned as raw JSON.
func Query(doc []byte, path string) (string, error) {
	if !gjson.ValidBytes(doc) {
		return "", errors.New("document is not valid JSON")
	}
	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return result.String(), nil
}
