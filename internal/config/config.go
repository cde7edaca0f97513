package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/renderloop/internal/app"
	"github.com/atomicstack/renderloop/internal/gfx"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig       = "RENDERLOOP_CONFIG"
	envTitle        = "RENDERLOOP_TITLE"
	envWidth        = "RENDERLOOP_WIDTH"
	envHeight       = "RENDERLOOP_HEIGHT"
	envPlatform     = "RENDERLOOP_PLATFORM"
	envRenderer     = "RENDERLOOP_RENDERER"
	envVendorID     = "RENDERLOOP_VENDOR_ID"
	envDeviceID     = "RENDERLOOP_DEVICE_ID"
	envVSync        = "RENDERLOOP_VSYNC"
	envFrames       = "RENDERLOOP_FRAMES"
	envFrameTimeout = "RENDERLOOP_FRAME_TIMEOUT"
	envTrace        = "RENDERLOOP_TRACE"
	envLogFile      = "RENDERLOOP_LOG_FILE"
)

const (
	PlatformTerminal = "terminal"
	PlatformHeadless = "headless"
)

// settings is the merged view of defaults, file and environment that the
// flag defaults are built from.
type settings struct {
	title        string
	width        int
	height       int
	platform     string
	renderer     string
	vendorID     pciID
	deviceID     pciID
	vsync        bool
	frames       int
	frameTimeout time.Duration
	logFile      string
	trace        bool
}

func defaults() settings {
	return settings{
		title:        "renderloop",
		platform:     PlatformTerminal,
		renderer:     "auto",
		vsync:        true,
		frameTimeout: 100 * time.Millisecond,
	}
}

// fileConfig is the YAML config file. Absent keys keep earlier values.
type fileConfig struct {
	Title        *string `yaml:"title"`
	Width        *int    `yaml:"width"`
	Height       *int    `yaml:"height"`
	Platform     *string `yaml:"platform"`
	Renderer     *string `yaml:"renderer"`
	VendorID     *pciID  `yaml:"vendor-id"`
	DeviceID     *pciID  `yaml:"device-id"`
	VSync        *bool   `yaml:"vsync"`
	Frames       *int    `yaml:"frames"`
	FrameTimeout *string `yaml:"frame-timeout"`
	LogFile      *string `yaml:"log-file"`
	Trace        *bool   `yaml:"trace"`
}

// Load parses configuration from CLI arguments, environment variables and
// the optional config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Later sources
// win: defaults, then the config file, then the environment, then flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	s := defaults()

	path := envOrDefault(env, envConfig, "")
	if p, ok := configPathFromArgs(args); ok {
		path = p
	}
	if path != "" {
		if err := s.applyFile(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	s.applyEnv(env)

	fs := flag.NewFlagSet("renderloop", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to a YAML config file")
	title := fs.String("title", s.title, "window title")
	width := fs.Int("width", s.width, "window width in cells (0 uses the terminal width)")
	height := fs.Int("height", s.height, "window height in rows (0 uses the terminal height)")
	platform := fs.String("platform", s.platform, "window system: terminal or headless")
	renderer := fs.String("renderer", s.renderer, "renderer: auto, noop or cells")
	fs.Var(&s.vendorID, "vendor-id", "preferred adapter vendor (hex or decimal)")
	fs.Var(&s.deviceID, "device-id", "preferred adapter device (hex or decimal)")
	vsync := fs.Bool("vsync", s.vsync, "pace frames to 60Hz")
	frames := fs.Int("frames", s.frames, "stop after this many frames (headless only, 0 runs until closed)")
	frameTimeout := fs.Duration("frame-timeout", s.frameTimeout, "how long the main thread waits for a frame")
	trace := fs.Bool("trace", s.trace, "enable verbose JSON trace logging")
	logFile := fs.String("log-file", s.logFile, "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *frames < 0 {
		return Config{}, fmt.Errorf("frames must be >= 0 (got %d)", *frames)
	}
	rendererType, err := gfx.ParseRendererType(*renderer)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Title:        *title,
			Width:        *width,
			Height:       *height,
			Platform:     *platform,
			Renderer:     rendererType,
			VendorID:     uint16(s.vendorID),
			DeviceID:     uint16(s.deviceID),
			VSync:        *vsync,
			Frames:       *frames,
			FrameTimeout: *frameTimeout,
			Args:         append([]string(nil), fs.Args()...),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":       path,
			"title":        *title,
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"platform":     *platform,
			"renderer":     rendererType.String(),
			"vendorID":     s.vendorID.String(),
			"deviceID":     s.deviceID.String(),
			"vsync":        strconv.FormatBool(*vsync),
			"frames":       strconv.Itoa(*frames),
			"frameTimeout": frameTimeout.String(),
			"trace":        strconv.FormatBool(*trace),
			"logFile":      *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func (s *settings) applyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if fc.Title != nil {
		s.title = *fc.Title
	}
	if fc.Width != nil {
		s.width = *fc.Width
	}
	if fc.Height != nil {
		s.height = *fc.Height
	}
	if fc.Platform != nil {
		s.platform = *fc.Platform
	}
	if fc.Renderer != nil {
		s.renderer = *fc.Renderer
	}
	if fc.VendorID != nil {
		s.vendorID = *fc.VendorID
	}
	if fc.DeviceID != nil {
		s.deviceID = *fc.DeviceID
	}
	if fc.VSync != nil {
		s.vsync = *fc.VSync
	}
	if fc.Frames != nil {
		s.frames = *fc.Frames
	}
	if fc.FrameTimeout != nil {
		d, err := time.ParseDuration(*fc.FrameTimeout)
		if err != nil {
			return fmt.Errorf("frame-timeout: %w", err)
		}
		s.frameTimeout = d
	}
	if fc.LogFile != nil {
		s.logFile = *fc.LogFile
	}
	if fc.Trace != nil {
		s.trace = *fc.Trace
	}
	return nil
}

func (s *settings) applyEnv(env map[string]string) {
	s.title = envOrDefault(env, envTitle, s.title)
	s.width = envOrInt(env, envWidth, s.width)
	s.height = envOrInt(env, envHeight, s.height)
	s.platform = envOrDefault(env, envPlatform, s.platform)
	s.renderer = envOrDefault(env, envRenderer, s.renderer)
	s.vendorID = envOrPCIID(env, envVendorID, s.vendorID)
	s.deviceID = envOrPCIID(env, envDeviceID, s.deviceID)
	s.vsync = envOrBool(env, envVSync, s.vsync)
	s.frames = envOrInt(env, envFrames, s.frames)
	s.frameTimeout = envOrDuration(env, envFrameTimeout, s.frameTimeout)
	s.logFile = envOrDefault(env, envLogFile, s.logFile)
	s.trace = envOrBool(env, envTrace, s.trace)
}

// configPathFromArgs finds -config ahead of the real flag parse, so the file
// can supply the defaults that parse starts from.
func configPathFromArgs(args []string) (string, bool) {
	path, found := "", false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || !strings.HasPrefix(arg, "-") {
			break
		}
		name := strings.TrimLeft(arg, "-")
		switch {
		case name == "config" && i+1 < len(args):
			path, found = args[i+1], true
			i++
		case strings.HasPrefix(name, "config="):
			path, found = strings.TrimPrefix(name, "config="), true
		}
	}
	return path, found
}

// pciID is a PCI vendor or device id given in hex (0x10de) or decimal.
type pciID uint16

func parsePCIID(s string) (pciID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid PCI id %q", s)
	}
	return pciID(v), nil
}

func (p *pciID) String() string {
	return fmt.Sprintf("0x%04x", uint16(*p))
}

func (p *pciID) Set(s string) error {
	v, err := parsePCIID(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p *pciID) UnmarshalYAML(node *yaml.Node) error {
	return p.Set(node.Value)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrPCIID(env map[string]string, key string, fallback pciID) pciID {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := parsePCIID(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects combinations the flag parser cannot catch on its own.
func Validate(cfg Config) error {
	switch cfg.App.Platform {
	case PlatformTerminal:
		if cfg.App.Frames > 0 {
			return fmt.Errorf("frames requires the %s platform", PlatformHeadless)
		}
	case PlatformHeadless:
	default:
		return fmt.Errorf("unknown platform %q (want %s or %s)", cfg.App.Platform, PlatformTerminal, PlatformHeadless)
	}
	if cfg.App.FrameTimeout <= 0 {
		return fmt.Errorf("frame-timeout must be > 0 (got %s)", cfg.App.FrameTimeout)
	}
	return nil
}
