package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/decker502/walkers/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultWalkerConfigPath 嵌入的默认配置文件路径
const DefaultWalkerConfigPath = "data/walkers.yaml"

// 精灵图固定网格（4 列 9 行）
const (
	DefaultSheetCols = 4
	DefaultSheetRows = 9
)

// 用户缩放倍率的取值范围
const (
	MinUserScale = 0.2
	MaxUserScale = 2.0
)

// WalkerConfig 行走者程序的完整配置
//
// 配置文件位置: data/walkers.yaml
type WalkerConfig struct {
	// Sheet 精灵图资源与网格
	Sheet SheetConfig `yaml:"sheet"`

	// Surface 绘制表面初始尺寸
	Surface SurfaceConfig `yaml:"surface"`

	// Loop 帧循环参数
	Loop LoopConfig `yaml:"loop"`

	// Behavior 状态机调参
	Behavior BehaviorConfig `yaml:"behavior"`

	// Walkers 启动时创建的默认行走者
	Walkers []WalkerSpawn `yaml:"walkers"`

	// States 额外注册的状态（key 为状态名）
	States map[string]StateConfig `yaml:"states"`
}

// SheetConfig 精灵图配置
type SheetConfig struct {
	Path string `yaml:"path"` // 资源路径，"assets/" 前缀走嵌入资源，其余走文件系统
	Cols int    `yaml:"cols"`
	Rows int    `yaml:"rows"`
}

// SurfaceConfig 绘制表面配置（CSS 像素）
type SurfaceConfig struct {
	Width         int `yaml:"width"`         // 窗口初始宽度
	MaxHeight     int `yaml:"maxHeight"`     // 加载完成后的表面高度上限
	HeightPadding int `yaml:"heightPadding"` // 表面高度 = min(MaxHeight, frameHeight + HeightPadding)
}

// LoopConfig 帧循环配置
type LoopConfig struct {
	// MaxStepMs 单帧 dt 上限（毫秒），防止后台恢复后位置和计时器跳变
	MaxStepMs float64 `yaml:"maxStepMs"`
}

// Range 半开区间 [Min, Max)
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// At 返回区间内按比例 t ∈ [0, 1) 插值的值
func (r Range) At(t float64) float64 {
	return r.Min + t*(r.Max-r.Min)
}

// Contains 判断 v 是否落在 [Min, Max) 内
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v < r.Max
}

func (r Range) validate(name string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s: min must be >= 0, got %.1f", name, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s: min(%.1f) > max(%.1f)", name, r.Min, r.Max)
	}
	return nil
}

// BehaviorConfig 行走者状态机参数
//
// 所有时间单位为毫秒，距离单位为 CSS 像素。
type BehaviorConfig struct {
	Margin           float64 `yaml:"margin"`           // 左右边界留白
	MinTravel        float64 `yaml:"minTravel"`        // 最小行走距离，可用空间不足时继续休息
	MaxWalk          float64 `yaml:"maxWalk"`          // 单次行走距离上限
	WalkFraction     Range   `yaml:"walkFraction"`     // 行走距离占可用空间的比例区间
	FrameDurationMs  float64 `yaml:"frameDurationMs"`  // 行走动画每帧时长
	SleepFrameFactor float64 `yaml:"sleepFrameFactor"` // 睡眠动画帧时长倍数
	SleepChance      float64 `yaml:"sleepChance"`      // 休息结束且朝右时入睡概率
	InitialRestMs    Range   `yaml:"initialRestMs"`    // 创建时的休息时长
	RestMs           Range   `yaml:"restMs"`           // 默认休息时长
	SettleRestMs     Range   `yaml:"settleRestMs"`     // 行走结束后的休息时长
	SleepMs          Range   `yaml:"sleepMs"`          // 睡眠时长
}

// SleepFrameDurationMs 睡眠动画每帧时长
func (b BehaviorConfig) SleepFrameDurationMs() float64 {
	return b.FrameDurationMs * b.SleepFrameFactor
}

// WalkerSpawn 默认行走者配置，未设置的字段使用行走者默认值
type WalkerSpawn struct {
	X       *float64 `yaml:"x"`
	VX      *float64 `yaml:"vx"`
	Scale   *float64 `yaml:"scale"`
	OffsetY *float64 `yaml:"offsetY"`
}

// StateConfig 额外状态定义
//
// Rows 与 FixedRow 二选一：Rows 按朝向选择行，FixedRow 固定一行。
type StateConfig struct {
	Rows            *DirectionalRows `yaml:"rows"`
	FixedRow        *int             `yaml:"fixedRow"`
	Frames          []int            `yaml:"frames"`
	FrameDurationMs float64          `yaml:"frameDurationMs"` // 0 表示固定在首帧
	Moves           bool             `yaml:"moves"`
}

// DirectionalRows 按朝向选择的行号
type DirectionalRows struct {
	Right int `yaml:"right"`
	Left  int `yaml:"left"`
}

// ErrNoWalkers 配置中没有任何默认行走者
var ErrNoWalkers = errors.New("config has no walkers")

// ErrBuiltinState 额外状态与内置状态重名
var ErrBuiltinState = errors.New("built-in state cannot be redefined")

// BuiltinStateNames 内置状态名，states 中不允许出现
var BuiltinStateNames = []string{"rest", "walk", "sleep"}

// IsBuiltinState 判断是否为内置状态名
func IsBuiltinState(name string) bool {
	for _, b := range BuiltinStateNames {
		if b == name {
			return true
		}
	}
	return false
}

// DefaultBehaviorConfig 返回默认状态机参数
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{
		Margin:           12,
		MinTravel:        30,
		MaxWalk:          600,
		WalkFraction:     Range{Min: 0.4, Max: 1.0},
		FrameDurationMs:  120,
		SleepFrameFactor: 6,
		SleepChance:      0.25,
		InitialRestMs:    Range{Min: 800, Max: 2000},
		RestMs:           Range{Min: 800, Max: 2800},
		SettleRestMs:     Range{Min: 1200, Max: 4000},
		SleepMs:          Range{Min: 3000, Max: 8000},
	}
}

// DefaultWalkerConfig 返回内置默认配置（嵌入资源不可用时使用）
func DefaultWalkerConfig() *WalkerConfig {
	x, vx, scale := 40.0, 60.0, 0.6
	return &WalkerConfig{
		Sheet: SheetConfig{
			Path: "assets/images/spritesheet.png",
			Cols: DefaultSheetCols,
			Rows: DefaultSheetRows,
		},
		Surface: SurfaceConfig{
			Width:         960,
			MaxHeight:     160,
			HeightPadding: 20,
		},
		Loop:     LoopConfig{MaxStepMs: 50},
		Behavior: DefaultBehaviorConfig(),
		Walkers:  []WalkerSpawn{{X: &x, VX: &vx, Scale: &scale}},
	}
}

// LoadWalkerConfig 加载行走者配置
//
// 路径以 "data/" 开头且嵌入资源已初始化时从嵌入资源读取，否则从文件系统读取。
//
// 参数:
//   - path: 配置文件路径（如 "data/walkers.yaml"）
//
// 返回:
//   - *WalkerConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败
func LoadWalkerConfig(path string) (*WalkerConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.IsInitialized() && embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read walker config: %w", err)
	}
	return ParseWalkerConfig(data)
}

// ParseWalkerConfig 解析 YAML 配置
//
// 未出现在 YAML 中的字段保持默认值。
func ParseWalkerConfig(data []byte) (*WalkerConfig, error) {
	cfg := DefaultWalkerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse walker config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid walker config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *WalkerConfig) Validate() error {
	if c.Sheet.Cols <= 0 || c.Sheet.Rows <= 0 {
		return fmt.Errorf("sheet grid must be positive, got %dx%d", c.Sheet.Cols, c.Sheet.Rows)
	}
	if c.Sheet.Path == "" {
		return errors.New("sheet path is empty")
	}
	if c.Surface.Width <= 0 {
		return fmt.Errorf("surface width must be > 0, got %d", c.Surface.Width)
	}
	if c.Loop.MaxStepMs <= 0 {
		return fmt.Errorf("loop maxStepMs must be > 0, got %.1f", c.Loop.MaxStepMs)
	}
	if err := c.Behavior.Validate(); err != nil {
		return err
	}
	if len(c.Walkers) == 0 {
		return ErrNoWalkers
	}
	for i, w := range c.Walkers {
		if w.VX != nil && *w.VX <= 0 {
			return fmt.Errorf("walker %d: vx must be > 0, got %.1f", i, *w.VX)
		}
	}
	for _, name := range c.StateNames() {
		if IsBuiltinState(name) {
			return fmt.Errorf("state '%s': %w", name, ErrBuiltinState)
		}
		if err := c.States[name].validate(name, c.Sheet.Cols, c.Sheet.Rows); err != nil {
			return err
		}
	}
	return nil
}

// Validate 检查状态机参数
func (b BehaviorConfig) Validate() error {
	if b.Margin < 0 {
		return fmt.Errorf("margin must be >= 0, got %.1f", b.Margin)
	}
	if b.MinTravel <= 0 {
		return fmt.Errorf("minTravel must be > 0, got %.1f", b.MinTravel)
	}
	if b.MaxWalk < b.MinTravel {
		return fmt.Errorf("maxWalk(%.1f) < minTravel(%.1f)", b.MaxWalk, b.MinTravel)
	}
	if b.WalkFraction.Min <= 0 || b.WalkFraction.Max > 1 || b.WalkFraction.Min > b.WalkFraction.Max {
		return fmt.Errorf("walkFraction must lie in (0, 1], got [%.2f, %.2f)", b.WalkFraction.Min, b.WalkFraction.Max)
	}
	if b.FrameDurationMs <= 0 {
		return fmt.Errorf("frameDurationMs must be > 0, got %.1f", b.FrameDurationMs)
	}
	if b.SleepFrameFactor <= 0 {
		return fmt.Errorf("sleepFrameFactor must be > 0, got %.1f", b.SleepFrameFactor)
	}
	if b.SleepChance < 0 || b.SleepChance > 1 {
		return fmt.Errorf("sleepChance must lie in [0, 1], got %.2f", b.SleepChance)
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"initialRestMs", b.InitialRestMs},
		{"restMs", b.RestMs},
		{"settleRestMs", b.SettleRestMs},
		{"sleepMs", b.SleepMs},
	}
	for _, item := range ranges {
		if err := item.r.validate(item.name); err != nil {
			return err
		}
	}
	return nil
}

func (s StateConfig) validate(name string, cols, rows int) error {
	if len(s.Frames) == 0 {
		return fmt.Errorf("state '%s': frames must not be empty", name)
	}
	for _, f := range s.Frames {
		if f < 0 || f >= cols {
			return fmt.Errorf("state '%s': frame %d outside sheet columns [0, %d)", name, f, cols)
		}
	}
	if s.FrameDurationMs < 0 {
		return fmt.Errorf("state '%s': frameDurationMs must be >= 0", name)
	}

	switch {
	case s.Rows != nil && s.FixedRow != nil:
		return fmt.Errorf("state '%s': rows and fixedRow are mutually exclusive", name)
	case s.Rows != nil:
		if !rowInSheet(s.Rows.Right, rows) || !rowInSheet(s.Rows.Left, rows) {
			return fmt.Errorf("state '%s': rows outside sheet [0, %d)", name, rows)
		}
	case s.FixedRow != nil:
		if !rowInSheet(*s.FixedRow, rows) {
			return fmt.Errorf("state '%s': fixedRow %d outside sheet [0, %d)", name, *s.FixedRow, rows)
		}
	default:
		return fmt.Errorf("state '%s': one of rows or fixedRow is required", name)
	}
	return nil
}

func rowInSheet(row, rows int) bool {
	return row >= 0 && row < rows
}

// StateNames 返回额外状态名（排序，保证注册顺序确定）
func (c *WalkerConfig) StateNames() []string {
	names := make([]string, 0, len(c.States))
	for name := range c.States {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitialSurfaceHeight 精灵图加载后的表面高度
//
// 参数:
//   - frameHeight: 单帧高度（像素）
//
// 返回:
//   - min(MaxHeight, frameHeight + HeightPadding)
func (c *WalkerConfig) InitialSurfaceHeight(frameHeight int) int {
	h := frameHeight + c.Surface.HeightPadding
	if c.Surface.MaxHeight > 0 && h > c.Surface.MaxHeight {
		h = c.Surface.MaxHeight
	}
	return h
}
