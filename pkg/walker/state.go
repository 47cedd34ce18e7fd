package walker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/decker502/walkers/pkg/config"
)

// 内置状态名
const (
	StateRest  = "rest"
	StateWalk  = "walk"
	StateSleep = "sleep"
)

// 精灵图行约定（4 列 9 行）
const (
	RowWalkRight = 1
	RowWalkLeft  = 3
	RowSleep     = 7
)

// Direction 行走者朝向
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// RowSelector 根据朝向选择精灵图行
type RowSelector func(dir Direction) int

// DirectionalRows 朝右使用 right 行，朝左使用 left 行
func DirectionalRows(right, left int) RowSelector {
	return func(dir Direction) int {
		if dir == Right {
			return right
		}
		return left
	}
}

// FixedRow 与朝向无关的固定行
func FixedRow(row int) RowSelector {
	return func(Direction) int {
		return row
	}
}

// StateDefinition 状态定义表中的一项
//
// 状态机只查表，不按状态名分派动画逻辑；新增状态只需注册新条目。
type StateDefinition struct {
	Name   string
	Row    RowSelector
	Frames []int // 循环播放的列号序列

	// FrameDuration 每帧时长（毫秒），0 表示固定在首帧
	FrameDuration float64

	// Moves 该状态下是否按速度水平移动
	Moves bool
}

// First 返回帧序列的首帧
func (d StateDefinition) First() int {
	return d.Frames[0]
}

// HasFrame 判断列号是否属于帧序列
func (d StateDefinition) HasFrame(frame int) bool {
	for _, f := range d.Frames {
		if f == frame {
			return true
		}
	}
	return false
}

// Next 返回 frame 之后的帧（循环）；frame 不在序列中时返回首帧
func (d StateDefinition) Next(frame int) int {
	for i, f := range d.Frames {
		if f == frame {
			return d.Frames[(i+1)%len(d.Frames)]
		}
	}
	return d.First()
}

// fallbackState 未注册状态的兜底定义：单帧、按朝向选行
var fallbackState = StateDefinition{
	Name:   "idle",
	Row:    DirectionalRows(RowWalkRight, RowWalkLeft),
	Frames: []int{0},
}

var (
	// ErrInvalidState 状态定义不完整
	ErrInvalidState = errors.New("invalid state definition")
	// ErrUnknownState 状态未注册
	ErrUnknownState = errors.New("unknown state")
)

// Registry 状态定义表
type Registry struct {
	defs map[string]StateDefinition
}

// NewRegistry 创建空的状态定义表
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]StateDefinition)}
}

// DefaultRegistry 创建包含 rest / walk / sleep 的状态定义表
func DefaultRegistry(b config.BehaviorConfig) *Registry {
	r := NewRegistry()
	r.mustRegister(StateDefinition{
		Name:   StateRest,
		Row:    DirectionalRows(RowWalkRight, RowWalkLeft),
		Frames: []int{0},
	})
	r.mustRegister(StateDefinition{
		Name:          StateWalk,
		Row:           DirectionalRows(RowWalkRight, RowWalkLeft),
		Frames:        []int{1, 2, 3},
		FrameDuration: b.FrameDurationMs,
		Moves:         true,
	})
	r.mustRegister(StateDefinition{
		Name:          StateSleep,
		Row:           FixedRow(RowSleep),
		Frames:        []int{0, 1, 2, 3},
		FrameDuration: b.SleepFrameDurationMs(),
	})
	return r
}

func (r *Registry) mustRegister(def StateDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Register 注册或替换一个状态定义
//
// 已注册的内置状态（rest / walk / sleep）不可替换。
func (r *Registry) Register(def StateDefinition) error {
	_, exists := r.defs[def.Name]
	switch {
	case exists && config.IsBuiltinState(def.Name):
		return fmt.Errorf("state '%s': %w", def.Name, config.ErrBuiltinState)
	case def.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidState)
	case def.Row == nil:
		return fmt.Errorf("%w: state '%s' has no row selector", ErrInvalidState, def.Name)
	case len(def.Frames) == 0:
		return fmt.Errorf("%w: state '%s' has no frames", ErrInvalidState, def.Name)
	case def.FrameDuration < 0:
		return fmt.Errorf("%w: state '%s' has negative frame duration", ErrInvalidState, def.Name)
	}

	frames := make([]int, len(def.Frames))
	copy(frames, def.Frames)
	def.Frames = frames
	r.defs[def.Name] = def
	return nil
}

// RegisterConfig 注册配置文件中的额外状态
func (r *Registry) RegisterConfig(states map[string]config.StateConfig) error {
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if config.IsBuiltinState(name) {
			return fmt.Errorf("state '%s': %w", name, config.ErrBuiltinState)
		}
		sc := states[name]
		var row RowSelector
		switch {
		case sc.Rows != nil:
			row = DirectionalRows(sc.Rows.Right, sc.Rows.Left)
		case sc.FixedRow != nil:
			row = FixedRow(*sc.FixedRow)
		}
		err := r.Register(StateDefinition{
			Name:          name,
			Row:           row,
			Frames:        sc.Frames,
			FrameDuration: sc.FrameDurationMs,
			Moves:         sc.Moves,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Lookup 查找已注册的状态
func (r *Registry) Lookup(name string) (StateDefinition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Resolve 查找状态，未注册时返回单帧兜底定义
func (r *Registry) Resolve(name string) StateDefinition {
	if def, ok := r.defs[name]; ok {
		return def
	}
	return fallbackState
}

// Names 返回所有已注册状态名（排序）
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
