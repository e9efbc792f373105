package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hairizuan-noorazman/runnerconf/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// EnvCI marks a continuous integration run when set to any non-empty value.
	EnvCI = "CI"

	// EnvBaseURL overrides the base URL used for relative navigation.
	EnvBaseURL = "BASE_URL"

	// EnvPrefix prefixes environment overrides for the CLI's own settings
	// (logging and storage), e.g. RUNNERCONF_LOG_LEVEL. Runner settings only
	// read CI and BASE_URL from the environment.
	EnvPrefix = "RUNNERCONF"

	// ConfigName is the file name (without extension) searched for in WithSearchPaths.
	ConfigName = "runnerconf"
)

type loadOptions struct {
	configFile  string
	searchPaths []string
	headed      bool
	log         logger.Logger
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigFile reads overrides from the given YAML file. The file must exist.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithSearchPaths looks for runnerconf.yaml in each directory. A missing file is not an error.
func WithSearchPaths(dirs ...string) LoadOption {
	return func(o *loadOptions) {
		o.searchPaths = append(o.searchPaths, dirs...)
	}
}

// WithHeaded turns headless mode off, like the runner's --headed flag.
func WithHeaded(headed bool) LoadOption {
	return func(o *loadOptions) {
		o.headed = headed
	}
}

// WithLogger sets the logger used to report how the configuration was resolved.
func WithLogger(log logger.Logger) LoadOption {
	return func(o *loadOptions) {
		o.log = log
	}
}

type projectEntry struct {
	Name   string `mapstructure:"name"`
	Device string `mapstructure:"device"`
}

// Load resolves the runner configuration from static defaults, an optional
// config file and the environment. Missing environment variables are never an
// error; they fall back to the documented defaults.
func Load(opts ...LoadOption) (Config, error) {
	o := loadOptions{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	if err := v.BindEnv("ci", EnvCI); err != nil {
		return Config{}, fmt.Errorf("failed to bind %s: %w", EnvCI, err)
	}
	if err := v.BindEnv("use.base_url", EnvBaseURL); err != nil {
		return Config{}, fmt.Errorf("failed to bind %s: %w", EnvBaseURL, err)
	}

	setDefaults(v)

	if err := readConfigFile(v, o); err != nil {
		return Config{}, err
	}

	ci := isTruthy(v.GetString("ci"))

	cfg := Config{
		TestDir:       v.GetString("test_dir"),
		Timeout:       loadTimeout(v),
		FullyParallel: v.GetBool("fully_parallel"),
		ForbidOnly:    ci,
		Retries:       v.GetInt("retries"),
		Reporter:      Reporter(v.GetString("reporter")),
		Use: UseOptions{
			BaseURL:    v.GetString("use.base_url"),
			Trace:      TraceMode(v.GetString("use.trace")),
			Screenshot: ScreenshotMode(v.GetString("use.screenshot")),
			Video:      VideoMode(v.GetString("use.video")),
			Viewport: Viewport{
				Width:  v.GetInt("use.viewport.width"),
				Height: v.GetInt("use.viewport.height"),
			},
			Headless: v.GetBool("use.headless") && !o.headed,
		},
	}
	if ci {
		cfg.Retries = v.GetInt("ci_retries")
	}

	projects, err := loadProjects(v)
	if err != nil {
		return Config{}, err
	}
	cfg.Projects = projects
	cfg.WebServer = loadWebServer(v, ci)

	// BASE_URL is handed to the runner as given; a malformed value is its
	// problem to report, not a load failure.
	if err := cfg.validate(false); err != nil {
		return Config{}, fmt.Errorf("invalid runner configuration: %w", err)
	}
	if err := validateBaseURL(cfg.Use.BaseURL); err != nil {
		o.log.Warn(context.Background(), "base url is not an absolute http(s) url", map[string]interface{}{
			"base_url": cfg.Use.BaseURL,
			"error":    err.Error(),
		})
	}

	o.log.Debug(context.Background(), "runner configuration resolved", map[string]interface{}{
		"ci":          ci,
		"base_url":    cfg.Use.BaseURL,
		"retries":     cfg.Retries,
		"projects":    len(cfg.Projects),
		"config_file": v.ConfigFileUsed(),
	})

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("test_dir", DefaultTestDir)
	v.SetDefault("timeout", "30s")
	v.SetDefault("fully_parallel", true)
	v.SetDefault("retries", 0)
	v.SetDefault("ci_retries", DefaultCIRetries)
	v.SetDefault("reporter", string(ReporterHTML))

	v.SetDefault("use.base_url", DefaultBaseURL)
	v.SetDefault("use.trace", string(TraceOnFirstRetry))
	v.SetDefault("use.screenshot", string(ScreenshotOnlyOnFailure))
	v.SetDefault("use.video", string(VideoRetainOnFailure))
	v.SetDefault("use.viewport.width", DefaultViewportWidth)
	v.SetDefault("use.viewport.height", DefaultViewportHeight)
	v.SetDefault("use.headless", true)

	defaults := make([]map[string]interface{}, 0, len(DefaultProjects()))
	for _, p := range DefaultProjects() {
		defaults = append(defaults, map[string]interface{}{"name": p.Name, "device": p.Device})
	}
	v.SetDefault("projects", defaults)

	v.SetDefault("web_server.command", "")
	v.SetDefault("web_server.url", "")
}

func readConfigFile(v *viper.Viper, o loadOptions) error {
	switch {
	case o.configFile != "":
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	case len(o.searchPaths) > 0:
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		for _, dir := range o.searchPaths {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}
	return nil
}

func loadProjects(v *viper.Viper) ([]Project, error) {
	var entries []projectEntry
	if err := v.UnmarshalKey("projects", &entries); err != nil {
		return nil, fmt.Errorf("failed to parse projects: %w", err)
	}

	projects := make([]Project, 0, len(entries))
	for _, e := range entries {
		p := Project{Name: e.Name, Device: e.Device}
		if p.Device == "" {
			p.Device = knownProjectDevice(p.Name)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// knownProjectDevice lets a config file enable a bundled target by name only.
func knownProjectDevice(name string) string {
	for _, p := range append(DefaultProjects(), OptionalProjects()...) {
		if p.Name == name {
			return p.Device
		}
	}
	return ""
}

func loadWebServer(v *viper.Viper, ci bool) *WebServer {
	command := v.GetString("web_server.command")
	if command == "" {
		return nil
	}

	ws := &WebServer{
		Command:             command,
		URL:                 v.GetString("web_server.url"),
		ReuseExistingServer: !ci,
	}
	if ws.URL == "" {
		ws.URL = v.GetString("use.base_url")
	}
	if v.IsSet("web_server.reuse_existing_server") {
		ws.ReuseExistingServer = v.GetBool("web_server.reuse_existing_server")
	}
	return ws
}

// loadTimeout reads timeout as a duration ("30s") or, like the runner itself,
// as a plain number of milliseconds (30000).
func loadTimeout(v *viper.Viper) time.Duration {
	switch raw := v.Get("timeout").(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return time.Duration(cast.ToInt64(raw)) * time.Millisecond
	case string:
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return v.GetDuration("timeout")
}

// isTruthy follows the runner's reading of CI: any non-empty value counts.
func isTruthy(value string) bool {
	return value != ""
}
