package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/walker"
)

func TestDebugText(t *testing.T) {
	m, err := walker.NewManager(config.DefaultWalkerConfig(), walker.NewRand(1))
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	m.Resize(960, 84, 2)

	text := DebugText(m, errors.New("missing file"))
	for _, want := range []string{"sprite sheet: missing file", "surface 960x84 @2.00x", "walkers 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("DebugText() = %q, missing %q", text, want)
		}
	}

	m.AddWalker()
	m.AddWalker()
	text = DebugText(m, nil)
	if strings.Contains(text, "sprite sheet") {
		t.Error("DebugText() must not mention the sheet when it loaded")
	}
	if !strings.Contains(text, "#1 rest") || !strings.Contains(text, "#2 rest") {
		t.Errorf("DebugText() should list every walker, got %q", text)
	}
	if got := strings.Count(text, "\n"); got != 3 {
		t.Errorf("DebugText() has %d lines, want 3", got)
	}
}
