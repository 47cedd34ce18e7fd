// Package main runs the sprite walkers inside a terminal using tcell half-block cells.
//
// Usage:
//
//	go run ./cmd/walkterm [flags]
//
// Flags:
//
//	--config <path>   Walker config file (default: data/walkers.yaml)
//	--seed <n>        Random seed, 0 uses the current time
//	--log <path>      Write logs to a file (terminal output is reserved for drawing)
//
// Controls:
//
//	+ / -      Adjust the global walker scale
//	a          Add a walker at a random position
//	q / ESC    Quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/game"
	"github.com/decker502/walkers/pkg/render/term"
	"github.com/decker502/walkers/pkg/sprite"
	"github.com/decker502/walkers/pkg/walker"
	"github.com/gdamore/tcell/v2"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	configFlag = flag.String("config", config.DefaultWalkerConfigPath, "Walker config file")
	seedFlag   = flag.Int64("seed", 0, "Random seed (0 = current time)")
	logFlag    = flag.String("log", "", "Log file path (empty = discard)")
)

// TermGame 终端版帧循环
type TermGame struct {
	screen  tcell.Screen
	cfg     *config.WalkerConfig
	manager *walker.Manager
	loader  *sprite.Loader
	canvas  *term.Canvas
	clock   *game.FrameClock

	spawnRand walker.Rand
	start     time.Time
	width     int
	height    int
}

func NewTermGame(cfg *config.WalkerConfig, seed int64) (*TermGame, error) {
	manager, err := walker.NewManager(cfg, walker.NewRand(seed))
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	g := &TermGame{
		screen:    screen,
		cfg:       cfg,
		manager:   manager,
		loader:    sprite.StartLoad(sprite.OpenResource, cfg.Sheet.Path),
		clock:     game.NewFrameClock(cfg.Loop.MaxStepMs),
		spawnRand: walker.NewRand(seed + 1),
		start:     time.Now(),
	}
	g.handleResize()
	return g, nil
}

func (g *TermGame) nowMs() float64 {
	return float64(time.Since(g.start).Microseconds()) / 1000
}

// handleResize 终端尺寸变化：逻辑表面为 列数 x 行数*2
func (g *TermGame) handleResize() {
	cols, rows := g.screen.Size()
	if cols == g.width && rows == g.height {
		return
	}
	g.width, g.height = cols, rows
	g.manager.Resize(float64(cols), float64(rows*2), 1)
}

// pollSheet 精灵图加载完成后创建画布和默认行走者
func (g *TermGame) pollSheet() error {
	res, done := g.loader.Poll()
	if !done {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	if err := g.manager.AttachSheet(res.Width, res.Height); err != nil {
		return err
	}
	g.canvas = term.NewCanvas(g.screen, res.Image)
	g.manager.AddConfiguredWalkers(g.cfg.Walkers)
	g.clock.Start(g.nowMs())
	log.Printf("[WalkTerm] Sheet %dx%d loaded, %d walkers", res.Width, res.Height, g.manager.Len())
	return nil
}

func (g *TermGame) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case '+', '=':
			g.manager.SetScale(walker.AdjustScale(g.manager.Scale(), walker.ScaleStep))
		case '-':
			g.manager.SetScale(walker.AdjustScale(g.manager.Scale(), -walker.ScaleStep))
		case 'a':
			if g.manager.Geometry().Loaded() {
				x := walker.SpawnX(g.manager.Surface().Width, g.spawnRand.Float64())
				g.manager.AddWalker(walker.WithX(x), walker.WithScale(g.manager.Scale()))
			}
		}

	case *tcell.EventResize:
		g.screen.Sync()
		g.handleResize()
	}
	return true
}

func (g *TermGame) tick() {
	if g.clock.Started() {
		g.manager.Update(g.clock.Tick(g.nowMs()))
	}
	if g.canvas == nil {
		return
	}
	g.manager.Render(g.canvas)
	g.canvas.Show()
}

func (g *TermGame) run() error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return nil
			}

		case <-ticker.C:
			if !g.loader.Finished() {
				if err := g.pollSheet(); err != nil {
					return err
				}
			}
			g.tick()
		}
	}
}

func (g *TermGame) cleanup() {
	g.screen.Fini()
}

func main() {
	flag.Parse()

	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.Create(*logFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log.SetOutput(logOut)

	cfg, err := config.LoadWalkerConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := NewTermGame(cfg, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	runErr := g.run()
	g.cleanup()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Sprite sheet unavailable: %v\n", runErr)
		os.Exit(1)
	}
}
