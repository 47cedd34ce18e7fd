// Package main provides a headless walker simulator for checking state machine behaviour
// without opening a window.
//
// Usage:
//
//	go run ./cmd/walkdump [flags]
//
// Flags:
//
//	--config <path>    Walker config file (default: data/walkers.yaml)
//	--seed <n>         Random seed (default: 1)
//	--seconds <s>      Simulated duration (default: 30)
//	--step <ms>        Tick length in milliseconds (default: 16.67)
//	--width <px>       Surface width (default: surface.width from config)
//	--ratio <r>        Device pixel ratio (default: 1)
//	--verbose          Enable verbose logging
//
// Purpose:
//   - Inspect rest/walk/sleep transitions for a given seed
//   - Verify walkers stay inside the surface after tuning behaviour parameters
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/game"
	"github.com/decker502/walkers/pkg/sprite"
	"github.com/decker502/walkers/pkg/walker"
)

var (
	configFlag  = flag.String("config", config.DefaultWalkerConfigPath, "Walker config file")
	seedFlag    = flag.Int64("seed", 1, "Random seed")
	secondsFlag = flag.Float64("seconds", 30, "Simulated duration in seconds")
	stepFlag    = flag.Float64("step", 1000.0/60.0, "Tick length in milliseconds")
	widthFlag   = flag.Float64("width", 0, "Surface width (0 = config surface.width)")
	ratioFlag   = flag.Float64("ratio", 1, "Device pixel ratio")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadWalkerConfig(*configFlag)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load config: %v", err)
	}

	sheet := sprite.LoadSheet(sprite.OpenResource, cfg.Sheet.Path)
	if sheet.Err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load sprite sheet: %v", sheet.Err)
	}

	m, err := walker.NewManager(cfg, walker.NewRand(*seedFlag))
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to create manager: %v", err)
	}
	if err := m.AttachSheet(sheet.Width, sheet.Height); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to attach sheet: %v", err)
	}

	width := *widthFlag
	if width <= 0 {
		width = float64(cfg.Surface.Width)
	}
	height := float64(cfg.InitialSurfaceHeight(m.Geometry().FrameHeight))
	m.Resize(width, height, *ratioFlag)
	m.AddConfiguredWalkers(cfg.Walkers)

	fmt.Printf("=== Walker Dump ===\n")
	fmt.Printf("Sheet: %s %dx%d (frame %dx%d)\n", cfg.Sheet.Path, sheet.Width, sheet.Height, m.Geometry().FrameWidth, m.Geometry().FrameHeight)
	fmt.Printf("Surface: %.0fx%.0f @%.2fx, seed %d\n\n", width, height, *ratioFlag, *seedFlag)

	rep := simulate(m, game.NewFrameClock(cfg.Loop.MaxStepMs), *secondsFlag*1000, *stepFlag)
	rep.Print(os.Stdout)

	c := &frameCanvas{}
	m.Render(c)
	fmt.Printf("\nFinal frame (pixel ratio %.2f):\n", c.ratio)
	for i, d := range c.draws {
		fmt.Printf("#%d src=%v dst=(%.1f, %.1f %.0fx%.0f)\n", i+1, d.Src, d.Dst.X, d.Dst.Y, d.Dst.W, d.Dst.H)
	}
}
