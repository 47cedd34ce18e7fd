// Package app 提供行走者程序的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/game"
	"github.com/decker502/walkers/pkg/render"
	"github.com/decker502/walkers/pkg/sprite"
	"github.com/decker502/walkers/pkg/utils"
	"github.com/decker502/walkers/pkg/walker"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ExtraStateMs K 键进入额外状态的持续时间
const ExtraStateMs = 2000.0

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 行走者配置文件路径，为空使用 data/walkers.yaml
	ConfigPath string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// App 是程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg      *config.WalkerConfig
	manager  *walker.Manager
	loader   *sprite.Loader
	canvas   *render.EbitenCanvas
	clock    *game.FrameClock
	settings *game.SettingsManager

	spawnRand  walker.Rand
	extraIndex int
	start      time.Time
	loadErr    error
	verbose    bool

	outsideW, outsideH float64
	ratio              float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 精灵图在后台解码，Update 中轮询加载结果。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultWalkerConfigPath
	}
	walkerConfig, err := config.LoadWalkerConfig(path)
	if err != nil {
		return nil, fmt.Errorf("行走者配置加载失败: %w", err)
	}
	log.Printf("[Config] 加载行走者配置: %s (%d walkers, states: %v)", path, len(walkerConfig.Walkers), walkerConfig.StateNames())

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	manager, err := walker.NewManager(walkerConfig, walker.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("行走者管理器创建失败: %w", err)
	}

	settings := game.NewSettingsManager(game.OpenStore(game.AppName))
	if settings.GetSettings().Fullscreen && !utils.IsMobile() {
		ebiten.SetFullscreen(true)
	}

	a := &App{
		cfg:       walkerConfig,
		manager:   manager,
		loader:    sprite.StartLoad(sprite.OpenResource, walkerConfig.Sheet.Path),
		canvas:    render.NewEbitenCanvas(nil),
		clock:     game.NewFrameClock(walkerConfig.Loop.MaxStepMs),
		settings:  settings,
		spawnRand: walker.NewRand(seed + 1),
		start:     time.Now(),
		verbose:   cfg.Verbose,
	}
	log.Printf("[App] Loading sprite sheet %s (seed %d)", walkerConfig.Sheet.Path, seed)
	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.pollSheet()

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			a.resetWindowSize()
			a.pendingWindowSizeReset = false
		}
	}

	a.handleInput()

	if a.clock.Started() {
		a.manager.Update(a.clock.Tick(a.nowMs()))
	}
	return nil
}

// pollSheet 检查精灵图是否加载完成
//
// 成功时记录帧几何、设置初始窗口高度、创建默认行走者并启动时钟；
// 失败时只记录一次日志，之后保持静止。
func (a *App) pollSheet() {
	res, done := a.loader.Poll()
	if !done {
		return
	}
	if res.Err != nil {
		a.loadErr = res.Err
		log.Printf("[App] Sprite sheet unavailable: %v", res.Err)
		return
	}

	if err := a.manager.AttachSheet(res.Width, res.Height); err != nil {
		a.loadErr = err
		log.Printf("[App] Sprite sheet rejected: %v", err)
		return
	}
	a.canvas.SetSheet(ebiten.NewImageFromImage(res.Image))

	a.resetWindowSize()
	a.manager.AddConfiguredWalkers(a.cfg.Walkers)

	// 仅在用户调整过缩放时覆盖配置中每个行走者的缩放
	if s := a.settings.GetSettings().UserScale; s != walker.DefaultScale {
		a.manager.SetScale(s)
	}

	a.clock.Start(a.nowMs())
	log.Printf("[App] Loop started with %d walkers", a.manager.Len())
}

// resetWindowSize 窗口恢复为配置宽度与 min(MaxHeight, 帧高 + 边距)
func (a *App) resetWindowSize() {
	g := a.manager.Geometry()
	if !g.Loaded() {
		return
	}
	w, h := a.cfg.Surface.Width, a.cfg.InitialSurfaceHeight(g.FrameHeight)
	ebiten.SetWindowSize(w, h)
	log.Printf("[App] SetWindowSize(%d, %d)", w, h)
}

func (a *App) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		a.setScale(walker.AdjustScale(a.manager.Scale(), walker.ScaleStep))
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		a.setScale(walker.AdjustScale(a.manager.Scale(), -walker.ScaleStep))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		a.addWalkerAt(walker.SpawnX(a.manager.Surface().Width, a.spawnRand.Float64()))
	}

	// 点击/触摸：在指针横坐标处加入行走者（移动端没有键盘）
	if pressed, px, py := IsPointerJustPressed(); pressed {
		x, _ := ToLogical(px, py, a.manager.Surface().PixelRatio)
		a.addWalkerAt(x)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		a.enterExtraState()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		show := !a.settings.GetSettings().ShowDebug
		a.settings.SetShowDebug(show)
		log.Printf("[App] Debug overlay: %v", show)
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) && !utils.IsMobile() {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.SaveSettings(); err != nil {
			log.Printf("[App] Failed to save settings: %v", err)
		}
	}
}

// enterExtraState 让所有行走者依次进入配置中的额外状态，到期后回到 rest
func (a *App) enterExtraState() {
	names := a.cfg.StateNames()
	if len(names) == 0 || !a.manager.Ready() {
		return
	}
	name := names[a.extraIndex%len(names)]
	a.extraIndex++

	for _, w := range a.manager.Walkers() {
		if err := a.manager.Enter(w, name, ExtraStateMs); err != nil {
			log.Printf("[App] Failed to enter state %s: %v", name, err)
			return
		}
	}
}

func (a *App) addWalkerAt(x float64) {
	if !a.manager.Geometry().Loaded() {
		return
	}
	a.manager.AddWalker(walker.WithX(x), walker.WithScale(a.manager.Scale()))
}

func (a *App) setScale(s float64) {
	a.manager.SetScale(s)
	a.settings.SetUserScale(a.manager.Scale())
}

// nowMs 自启动以来的单调时间戳（毫秒）
func (a *App) nowMs() float64 {
	return float64(time.Since(a.start).Microseconds()) / 1000
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.canvas.SetTarget(screen)
	a.manager.Render(a.canvas)

	if a.settings.GetSettings().ShowDebug {
		ebitenutil.DebugPrint(screen, DebugText(a.manager, a.loadErr))
	}
}

// LayoutF 逻辑尺寸取外部尺寸，后备缓冲按设备像素比放大
//
// 尺寸或像素比变化时立即同步重算，不做防抖。
func (a *App) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	ratio := 1.0
	if m := ebiten.Monitor(); m != nil {
		ratio = m.DeviceScaleFactor()
	}

	if outsideWidth != a.outsideW || outsideHeight != a.outsideH || ratio != a.ratio {
		a.outsideW, a.outsideH, a.ratio = outsideWidth, outsideHeight, ratio
		a.manager.Resize(outsideWidth, outsideHeight, ratio)
	}

	s := a.manager.Surface()
	return float64(s.BackingWidth), float64(s.BackingHeight)
}

// Layout 实现 ebiten.Game；实际使用 LayoutF
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := a.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// InitialWindowSize 精灵图加载前的窗口尺寸
//
// 高度先按表面上限设置，加载完成后收缩为 min(MaxHeight, 帧高 + 边距)。
func (a *App) InitialWindowSize() (int, int) {
	return a.cfg.Surface.Width, a.cfg.Surface.MaxHeight
}

// SaveSettings 保存显示设置
func (a *App) SaveSettings() error {
	return a.settings.Save()
}

// Manager 返回行走者管理器
func (a *App) Manager() *walker.Manager {
	return a.manager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// DebugText 调试覆盖层文本
func DebugText(m *walker.Manager, loadErr error) string {
	var b strings.Builder
	if loadErr != nil {
		fmt.Fprintf(&b, "sprite sheet: %v\n", loadErr)
	}
	s := m.Surface()
	fmt.Fprintf(&b, "surface %.0fx%.0f @%.2fx  scale %.1f  walkers %d\n", s.Width, s.Height, s.PixelRatio, m.Scale(), m.Len())
	for _, w := range m.Walkers() {
		b.WriteString(w.String())
		b.WriteByte('\n')
	}
	return b.String()
}
