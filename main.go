// Package main 是桌面端入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--verbose          Enable verbose logging
//	--config <path>    Walker config file (default: data/walkers.yaml)
//	--seed <n>         Random seed, 0 uses the current time
//
// Controls:
//
//	+ / -   Adjust the global walker scale
//	A       Add a walker at a random position
//	Click   Add a walker at the pointer
//	K       Send every walker into the next configured extra state
//	D       Toggle the debug overlay
//	F11     Toggle fullscreen
//	S       Save display settings
package main

import (
	"flag"
	"log"

	"github.com/decker502/walkers/pkg/app"
	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag  = flag.String("config", config.DefaultWalkerConfigPath, "Walker config file")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = current time)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	walkers, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Seed:       *seedFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(walkers.InitialWindowSize())
	ebiten.SetWindowTitle("Sprite Walkers")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(walkers); err != nil {
		log.Fatalf("Game error: %v", err)
	}

	// 退出时保存显示设置
	if err := walkers.SaveSettings(); err != nil {
		log.Printf("[Main] Failed to save settings: %v", err)
	}
}
