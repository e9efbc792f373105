package runner

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDevice is returned when a project names a device preset that is not registered.
var ErrUnknownDevice = errors.New("unknown device")

// BrowserType is the browser engine a device runs on.
type BrowserType string

const (
	BrowserChromium BrowserType = "chromium"
	BrowserFirefox  BrowserType = "firefox"
	BrowserWebKit   BrowserType = "webkit"
)

// IsValid checks if the browser type is valid.
func (b BrowserType) IsValid() bool {
	switch b {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
		return true
	default:
		return false
	}
}

const (
	DeviceDesktopChrome  = "Desktop Chrome"
	DeviceDesktopEdge    = "Desktop Edge"
	DeviceDesktopFirefox = "Desktop Firefox"
	DeviceDesktopSafari  = "Desktop Safari"
)

// Device is a named emulation preset.
type Device struct {
	Name               string
	UserAgent          string
	Viewport           Viewport
	Screen             Viewport
	DeviceScaleFactor  float64
	IsMobile           bool
	HasTouch           bool
	DefaultBrowserType BrowserType
}

var desktopScreen = Viewport{Width: 1920, Height: 1080}

var desktopViewport = Viewport{Width: 1280, Height: 720}

var devices = map[string]Device{
	DeviceDesktopChrome: {
		Name:               DeviceDesktopChrome,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.33 Safari/537.36",
		Viewport:           desktopViewport,
		Screen:             desktopScreen,
		DeviceScaleFactor:  1,
		DefaultBrowserType: BrowserChromium,
	},
	DeviceDesktopEdge: {
		Name:               DeviceDesktopEdge,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.6778.33 Safari/537.36 Edg/131.0.6778.33",
		Viewport:           desktopViewport,
		Screen:             desktopScreen,
		DeviceScaleFactor:  1,
		DefaultBrowserType: BrowserChromium,
	},
	DeviceDesktopFirefox: {
		Name:               DeviceDesktopFirefox,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
		Viewport:           desktopViewport,
		Screen:             desktopScreen,
		DeviceScaleFactor:  1,
		DefaultBrowserType: BrowserFirefox,
	},
	DeviceDesktopSafari: {
		Name:               DeviceDesktopSafari,
		UserAgent:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
		Viewport:           desktopViewport,
		Screen:             desktopScreen,
		DeviceScaleFactor:  2,
		DefaultBrowserType: BrowserWebKit,
	},
}

// LookupDevice returns the preset registered under name.
func LookupDevice(name string) (Device, error) {
	d, ok := devices[name]
	if !ok {
		return Device{}, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	return d, nil
}

// Devices returns all registered presets sorted by name.
func Devices() []Device {
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProjectOptions are the options a single project actually runs with.
type ProjectOptions struct {
	Name              string
	Browser           BrowserType
	BaseURL           string
	Trace             TraceMode
	Screenshot        ScreenshotMode
	Video             VideoMode
	Headless          bool
	UserAgent         string
	Viewport          Viewport
	Screen            Viewport
	DeviceScaleFactor float64
	IsMobile          bool
	HasTouch          bool
}

// Effective merges the shared options with the project's device preset. The
// device is spread into the project's own options, so its viewport, user agent
// and browser take precedence over the shared ones.
func (c Config) Effective(p Project) (ProjectOptions, error) {
	d, err := LookupDevice(p.Device)
	if err != nil {
		return ProjectOptions{}, fmt.Errorf("project %q: %w", p.Name, err)
	}

	return ProjectOptions{
		Name:              p.Name,
		Browser:           d.DefaultBrowserType,
		BaseURL:           c.Use.BaseURL,
		Trace:             c.Use.Trace,
		Screenshot:        c.Use.Screenshot,
		Video:             c.Use.Video,
		Headless:          c.Use.Headless,
		UserAgent:         d.UserAgent,
		Viewport:          d.Viewport,
		Screen:            d.Screen,
		DeviceScaleFactor: d.DeviceScaleFactor,
		IsMobile:          d.IsMobile,
		HasTouch:          d.HasTouch,
	}, nil
}
