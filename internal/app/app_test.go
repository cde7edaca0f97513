package app

import (
	"testing"
	"time"

	"github.com/atomicstack/renderloop/internal/gfx"
)

func TestRunHeadlessFrames(t *testing.T) {
	status, err := Run(Config{
		Title:        "test",
		Width:        60,
		Height:       20,
		Platform:     "headless",
		Renderer:     gfx.RendererCount,
		Frames:       5,
		FrameTimeout: 50 * time.Millisecond,
		Args:         []string{"one"},
	})
	if err != nil || status != 0 {
		t.Fatalf("Run = %d, %v", status, err)
	}
}

func TestRunUnknownPlatform(t *testing.T) {
	if _, err := Run(Config{Platform: "wayland"}); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestPick(t *testing.T) {
	if pick(10, 80) != 10 || pick(0, 80) != 80 {
		t.Fatalf("pick should prefer the configured size")
	}
}
