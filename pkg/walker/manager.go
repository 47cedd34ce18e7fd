package walker

import (
	"fmt"
	"image"
	"log"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/sprite"
)

// Canvas 绘制协作者
//
// SetPixelRatio 配置像素缩放变换，使后续坐标都以逻辑像素表示；
// DrawFrame 把精灵图的源矩形绘制到目标矩形。
type Canvas interface {
	SetPixelRatio(ratio float64)
	Clear()
	DrawFrame(src image.Rectangle, dst Rect)
}

// Manager 管理所有行走者与共享的帧几何、表面状态
//
// 更新与渲染都按加入顺序遍历，后加入的行走者绘制在上层。
type Manager struct {
	stage   *Stage
	walkers []*Walker
	nextID  int
	scale   float64
}

// NewManager 根据配置创建管理器
//
// 参数:
//   - cfg: 行走者配置（网格、行为参数、额外状态）
//   - rnd: 随机源，nil 时使用固定种子
func NewManager(cfg *config.WalkerConfig, rnd Rand) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("walker manager: nil config")
	}
	if rnd == nil {
		rnd = NewRand(1)
	}

	geometry := sprite.NewGeometry(cfg.Sheet.Cols, cfg.Sheet.Rows)
	stage := NewStage(geometry, cfg.Behavior, rnd)
	if err := stage.States.RegisterConfig(cfg.States); err != nil {
		return nil, fmt.Errorf("failed to register states: %w", err)
	}

	return &Manager{
		stage:  stage,
		nextID: 1,
		scale:  DefaultScale,
	}, nil
}

// Stage 返回共享上下文
func (m *Manager) Stage() *Stage { return m.stage }

// States 返回实时的状态定义表
func (m *Manager) States() *Registry { return m.stage.States }

// Geometry 返回帧几何
func (m *Manager) Geometry() *sprite.Geometry { return m.stage.Geometry }

// Surface 返回当前表面状态
func (m *Manager) Surface() Surface { return m.stage.Surface }

// AddWalker 创建行走者并加入集合末尾
//
// 帧几何已知时立即计算显示尺寸，否则推迟到精灵图加载完成。
func (m *Manager) AddWalker(opts ...Option) *Walker {
	w := newWalker(m.nextID, m.stage, opts...)
	m.nextID++
	w.rescale(m.stage)
	m.walkers = append(m.walkers, w)

	log.Printf("[WalkerManager] Added walker %s", w)
	return w
}

// AddConfiguredWalkers 按配置批量创建行走者
func (m *Manager) AddConfiguredWalkers(spawns []config.WalkerSpawn) []*Walker {
	added := make([]*Walker, 0, len(spawns))
	for _, spawn := range spawns {
		added = append(added, m.AddWalker(SpawnOptions(spawn)...))
	}
	return added
}

// SpawnOptions 把配置项转换为创建选项，未设置的字段保持默认
func SpawnOptions(spawn config.WalkerSpawn) []Option {
	var opts []Option
	if spawn.X != nil {
		opts = append(opts, WithX(*spawn.X))
	}
	if spawn.VX != nil {
		opts = append(opts, WithSpeed(*spawn.VX))
	}
	if spawn.Scale != nil {
		opts = append(opts, WithScale(*spawn.Scale))
	}
	if spawn.OffsetY != nil {
		opts = append(opts, WithOffsetY(*spawn.OffsetY))
	}
	return opts
}

// Walkers 按加入顺序返回所有行走者
func (m *Manager) Walkers() []*Walker {
	out := make([]*Walker, len(m.walkers))
	copy(out, m.walkers)
	return out
}

// Len 行走者数量
func (m *Manager) Len() int {
	return len(m.walkers)
}

// AttachSheet 精灵图加载完成：计算帧尺寸并刷新所有行走者的显示尺寸
func (m *Manager) AttachSheet(width, height int) error {
	if err := m.stage.Geometry.Load(width, height); err != nil {
		return err
	}
	g := m.stage.Geometry
	log.Printf("[WalkerManager] Sheet %dx%d attached, frame %dx%d", width, height, g.FrameWidth, g.FrameHeight)
	m.recompute()
	return nil
}

// Ready 精灵图已加载且至少有一个行走者时才开始帧循环
func (m *Manager) Ready() bool {
	return m.stage.Geometry.Loaded() && len(m.walkers) > 0
}

// Resize 表面尺寸变化时同步重算
//
// 精灵图加载前只记录逻辑尺寸。
func (m *Manager) Resize(width, height, ratio float64) {
	m.stage.Surface.Resize(width, height, ratio)
	m.recompute()
}

// recompute 重新计算每个行走者的显示尺寸
func (m *Manager) recompute() {
	if !m.stage.Geometry.Loaded() {
		return
	}
	for _, w := range m.walkers {
		w.rescale(m.stage)
	}
}

// SetScale 设置所有行走者的用户缩放（限制在 [0.2, 2.0]）
func (m *Manager) SetScale(s float64) {
	m.scale = sprite.ClampScale(s)
	for _, w := range m.walkers {
		w.setScale(m.stage, m.scale)
	}
	log.Printf("[WalkerManager] Global scale set to %.2f", m.scale)
}

// Scale 最近一次设置的全局缩放
func (m *Manager) Scale() float64 {
	return m.scale
}

// SetWalkerScale 调整单个行走者的缩放
func (m *Manager) SetWalkerScale(w *Walker, s float64) {
	w.setScale(m.stage, s)
}

// Enter 强制行走者进入指定状态（调试用）
//
// 状态必须已注册；计时到期后按转移表离开。
func (m *Manager) Enter(w *Walker, state string, durationMs float64) error {
	if _, ok := m.stage.States.Lookup(state); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownState, state)
	}
	w.enter(m.stage, state, durationMs)
	return nil
}

// Update 按加入顺序推进所有行走者
//
// 循环未就绪时不做任何事；负的 dt 视为 0。
func (m *Manager) Update(dt float64) {
	if !m.Ready() {
		return
	}
	if dt < 0 {
		dt = 0
	}
	for _, w := range m.walkers {
		w.Update(m.stage, dt)
	}
}

// Render 清空表面后按加入顺序绘制所有行走者
func (m *Manager) Render(c Canvas) {
	c.SetPixelRatio(m.stage.Surface.PixelRatio)
	c.Clear()
	if !m.stage.Geometry.Loaded() {
		return
	}
	for _, w := range m.walkers {
		if cmd, ok := w.Render(m.stage); ok {
			c.DrawFrame(cmd.Src, cmd.Dst)
		}
	}
}
