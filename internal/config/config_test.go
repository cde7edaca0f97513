package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/renderloop/internal/app"
	"github.com/atomicstack/renderloop/internal/gfx"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "renderloop.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	want := app.Config{
		Title:        "renderloop",
		Platform:     PlatformTerminal,
		Renderer:     gfx.RendererCount,
		VSync:        true,
		FrameTimeout: 100 * time.Millisecond,
	}
	if cfg.App.Title != want.Title || cfg.App.Platform != want.Platform || cfg.App.Renderer != want.Renderer ||
		cfg.App.VSync != want.VSync || cfg.App.FrameTimeout != want.FrameTimeout || len(cfg.App.Args) != 0 {
		t.Fatalf("defaults = %+v", cfg.App)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"title: from-file",
		"width: 100",
		"height: 40",
		"renderer: noop",
		"vendor-id: 0x10de",
		"frame-timeout: 250ms",
		"vsync: false",
	}, "\n"))
	environ := []string{
		envConfig + "=" + path,
		envWidth + "=120",
		envRenderer + "=cells",
		envDeviceID + "=0x1234",
		envWidth + "x=ignored",
		"malformed",
	}
	cfg, err := LoadArgs([]string{"-height", "50", "--", "scene.txt"}, environ)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	got := cfg.App
	if got.Title != "from-file" || got.Width != 120 || got.Height != 50 {
		t.Fatalf("title/size = %q %dx%d", got.Title, got.Width, got.Height)
	}
	if got.Renderer != gfx.RendererCells || got.VendorID != 0x10de || got.DeviceID != 0x1234 {
		t.Fatalf("renderer = %s vendor = %#x device = %#x", got.Renderer, got.VendorID, got.DeviceID)
	}
	if got.VSync || got.FrameTimeout != 250*time.Millisecond {
		t.Fatalf("vsync = %v timeout = %s", got.VSync, got.FrameTimeout)
	}
	if len(got.Args) != 1 || got.Args[0] != "scene.txt" {
		t.Fatalf("args = %v", got.Args)
	}
	if cfg.File != path || cfg.Flags["vendorID"] != "0x10de" || cfg.Flags["renderer"] != "cells" {
		t.Fatalf("file = %q flags = %v", cfg.File, cfg.Flags)
	}
}

func TestConfigFlagOverridesEnvironmentFile(t *testing.T) {
	envPath := writeFile(t, "title: env-file\n")
	flagPath := writeFile(t, "title: flag-file\n")
	cfg, err := LoadArgs([]string{"--config=" + flagPath}, []string{envConfig + "=" + envPath})
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Title != "flag-file" {
		t.Fatalf("title = %q", cfg.App.Title)
	}
	cfg, err = LoadArgs([]string{"-config", flagPath, "-title", "flag"}, nil)
	if err != nil || cfg.App.Title != "flag" {
		t.Fatalf("title = %q, err = %v", cfg.App.Title, err)
	}
}

func TestEmptyConfigFile(t *testing.T) {
	path := writeFile(t, "")
	if _, err := LoadArgs([]string{"-config", path}, nil); err != nil {
		t.Fatalf("empty file: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		args []string
		file string
	}{
		"negative width":  {args: []string{"-width", "-1"}},
		"negative height": {args: []string{"-height", "-1"}},
		"negative frames": {args: []string{"-frames", "-2"}},
		"bad renderer":    {args: []string{"-renderer", "vulkan"}},
		"bad vendor":      {args: []string{"-vendor-id", "0x1ffff"}},
		"unknown flag":    {args: []string{"-nope"}},
		"unknown key":     {file: "colour: red\n"},
		"bad duration":    {file: "frame-timeout: soon\n"},
		"bad pci id":      {file: "device-id: gpu\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			args := tc.args
			if tc.file != "" {
				args = append([]string{"-config", writeFile(t, tc.file)}, args...)
			}
			if _, err := LoadArgs(args, nil); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if _, err := LoadArgs([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, nil); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{App: app.Config{Platform: PlatformHeadless, Frames: 3, FrameTimeout: time.Millisecond}}
	if err := Validate(base); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	terminalFrames := base
	terminalFrames.App.Platform = PlatformTerminal
	if err := Validate(terminalFrames); err == nil {
		t.Fatalf("frames on a terminal should be rejected")
	}
	unknown := base
	unknown.App.Platform = "wayland"
	if err := Validate(unknown); err == nil {
		t.Fatalf("unknown platform should be rejected")
	}
	noTimeout := base
	noTimeout.App.FrameTimeout = 0
	if err := Validate(noTimeout); err == nil {
		t.Fatalf("zero frame timeout should be rejected")
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	cases := []struct {
		args  []string
		path  string
		found bool
	}{
		{nil, "", false},
		{[]string{"-config", "a.yaml"}, "a.yaml", true},
		{[]string{"--config=b.yaml", "-trace"}, "b.yaml", true},
		{[]string{"-trace", "--", "-config", "c.yaml"}, "", false},
		{[]string{"positional", "-config", "d.yaml"}, "", false},
		{[]string{"-config"}, "", false},
	}
	for _, tc := range cases {
		path, found := configPathFromArgs(tc.args)
		if path != tc.path || found != tc.found {
			t.Fatalf("configPathFromArgs(%v) = %q, %v", tc.args, path, found)
		}
	}
}
