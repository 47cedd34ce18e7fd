package walker

import (
	"fmt"
	"image"
	"log"
	"math"

	"github.com/decker502/walkers/pkg/sprite"
)

// 行走者默认参数
const (
	DefaultX       = 40.0
	DefaultSpeed   = 60.0 // 像素/秒
	DefaultScale   = 0.6
	DefaultOffsetY = 0.0
)

// timerEpsilon 状态计时的到期容差（毫秒），吸收分步累减的浮点误差
const timerEpsilon = 1e-9

// Rect 目标矩形（逻辑像素）
type Rect struct {
	X, Y, W, H float64
}

// DrawCommand 单个行走者的一次绘制：精灵图源矩形 → 表面目标矩形
type DrawCommand struct {
	Src image.Rectangle
	Dst Rect
}

// Walker 单个行走者的状态机
//
// 所有字段只由自身的 update 修改；Manager 只负责集合的成员与顺序。
type Walker struct {
	id int

	x   float64
	vx  float64
	dir Direction

	state      string
	stateTimer float64 // 当前状态剩余时间（毫秒），<= timerEpsilon 视为到期
	frameIndex int     // 当前帧列号，始终属于当前状态的帧序列
	frameTimer float64 // 距上次换帧累计的时间（毫秒）

	userScale float64
	offsetY   float64

	// 缓存的显示尺寸，仅在尺寸变化或缩放变化时重新计算
	scaledW, scaledH int
}

// Option 行走者创建选项
type Option func(*Walker)

// WithX 初始水平位置
func WithX(x float64) Option {
	return func(w *Walker) { w.x = x }
}

// WithSpeed 水平速度（像素/秒，必须为正，非正值忽略）
func WithSpeed(vx float64) Option {
	return func(w *Walker) {
		if vx > 0 {
			w.vx = vx
		}
	}
}

// WithScale 用户缩放，限制在 [0.2, 2.0]
func WithScale(s float64) Option {
	return func(w *Walker) { w.userScale = sprite.ClampScale(s) }
}

// WithOffsetY 距表面底部的垂直偏移
func WithOffsetY(offsetY float64) Option {
	return func(w *Walker) { w.offsetY = offsetY }
}

// newWalker 创建处于 rest 状态的行走者，朝向与休息时长随机
func newWalker(id int, st *Stage, opts ...Option) *Walker {
	w := &Walker{
		id:        id,
		x:         DefaultX,
		vx:        DefaultSpeed,
		userScale: DefaultScale,
		offsetY:   DefaultOffsetY,
	}
	for _, opt := range opts {
		opt(w)
	}

	if st.Rand.Float64() < 0.5 {
		w.dir = Right
	} else {
		w.dir = Left
	}
	w.state = StateRest
	w.stateTimer = st.sample(st.Behavior.InitialRestMs)
	w.frameIndex = st.States.Resolve(StateRest).First()
	return w
}

// ID 行走者编号（从 1 开始，按加入顺序递增）
func (w *Walker) ID() int { return w.id }

// X 水平位置（逻辑像素）
func (w *Walker) X() float64 { return w.x }

// Speed 水平速度（像素/秒）
func (w *Walker) Speed() float64 { return w.vx }

// Dir 当前朝向
func (w *Walker) Dir() Direction { return w.dir }

// State 当前状态名
func (w *Walker) State() string { return w.state }

// StateTimer 当前状态剩余时间（毫秒）
func (w *Walker) StateTimer() float64 { return w.stateTimer }

// FrameIndex 当前帧列号
func (w *Walker) FrameIndex() int { return w.frameIndex }

// Scale 用户缩放
func (w *Walker) Scale() float64 { return w.userScale }

// OffsetY 距表面底部的垂直偏移
func (w *Walker) OffsetY() float64 { return w.offsetY }

// ScaledSize 缓存的显示尺寸；帧几何未知时为 0
func (w *Walker) ScaledSize() (int, int) { return w.scaledW, w.scaledH }

func (w *Walker) String() string {
	return fmt.Sprintf("#%d %-5s %-5s x=%6.1f t=%5.0fms frame=%d scale=%.2f",
		w.id, w.state, w.dir, w.x, w.stateTimer, w.frameIndex, w.userScale)
}

// Update 推进一个时间步（dt 毫秒）
//
// 顺序：移动 → 动画换帧 → 扣减状态计时 → 到期转移 → 边界限制。
func (w *Walker) Update(st *Stage, dt float64) {
	def := st.States.Resolve(w.state)

	if def.Moves {
		w.x += w.vx * (dt / 1000) * float64(w.dir)
		// 到达边界时停住，剩余时间原地等待
		w.clampX(st)
	}

	w.animate(def, dt)

	w.stateTimer -= dt
	if w.stateTimer <= timerEpsilon {
		w.transition(st)
	}

	w.clampX(st)
}

// animate 按状态定义推进帧
//
// rest 与帧时长为 0 的状态固定在首帧；其余状态累计 frameTimer，到时切到下一帧。
func (w *Walker) animate(def StateDefinition, dt float64) {
	if def.Name == StateRest || def.FrameDuration <= 0 {
		w.frameIndex = def.First()
		return
	}
	if !def.HasFrame(w.frameIndex) {
		w.frameIndex = def.First()
	}

	w.frameTimer += dt
	if w.frameTimer >= def.FrameDuration {
		w.frameTimer = 0
		w.frameIndex = def.Next(w.frameIndex)
	}
}

// transition 状态计时到期后的转移表
func (w *Walker) transition(st *Stage) {
	b := st.Behavior

	switch w.state {
	case StateRest:
		w.leaveRest(st)
	case StateWalk:
		w.enter(st, StateRest, st.sample(b.SettleRestMs))
	default:
		// sleep 以及其他任何状态（包括未注册的）都回到 rest
		w.enter(st, StateRest, st.sample(b.RestMs))
	}
}

// leaveRest 休息结束：朝右时可能入睡，否则选择方向尝试行走
func (w *Walker) leaveRest(st *Stage) {
	b := st.Behavior

	if w.dir == Right && st.Rand.Float64() < b.SleepChance {
		w.enter(st, StateSleep, st.sample(b.SleepMs))
		return
	}

	if st.Rand.Float64() < 0.5 {
		w.dir = Right
	} else {
		w.dir = Left
	}

	available := w.available(st)
	if available < b.MinTravel {
		// 空间不足，不进入长度为 0 的行走
		w.enter(st, StateRest, st.sample(b.RestMs))
		return
	}

	maxPossible := math.Max(b.MinTravel, math.Min(available, b.MaxWalk))
	fraction := b.WalkFraction.At(st.Rand.Float64())
	walkDist := math.Max(b.MinTravel, math.Floor(maxPossible*fraction))
	walkTime := walkDist / w.vx * 1000

	w.enter(st, StateWalk, walkTime)
}

// enter 进入新状态并重置动画
func (w *Walker) enter(st *Stage, state string, durationMs float64) {
	if state != w.state || state != StateRest {
		log.Printf("[Walker] #%d %s -> %s (%.0fms, dir=%s, x=%.1f)", w.id, w.state, state, durationMs, w.dir, w.x)
	}
	w.state = state
	w.stateTimer = durationMs
	w.frameTimer = 0
	w.frameIndex = st.States.Resolve(state).First()
}

// available 当前朝向上到边界的可用距离
func (w *Walker) available(st *Stage) float64 {
	if w.dir == Right {
		return w.rightLimit(st) - w.x
	}
	return w.x - st.Behavior.Margin
}

// displayWidth 显示宽度，缩放尺寸未知时退回原始帧宽
func (w *Walker) displayWidth(st *Stage) int {
	if w.scaledW > 0 {
		return w.scaledW
	}
	if st.Geometry != nil {
		return st.Geometry.FrameWidth
	}
	return 0
}

func (w *Walker) displayHeight(st *Stage) int {
	if w.scaledH > 0 {
		return w.scaledH
	}
	if st.Geometry != nil {
		return st.Geometry.FrameHeight
	}
	return 0
}

// rightLimit x 的右边界：表面宽度 - 显示宽度 - 留白
func (w *Walker) rightLimit(st *Stage) float64 {
	return st.Surface.Width - float64(w.displayWidth(st)) - st.Behavior.Margin
}

// clampX 将 x 限制在 [margin, rightLimit]
//
// 表面窄于精灵时 rightLimit < margin，此时贴住左侧留白。
func (w *Walker) clampX(st *Stage) {
	if limit := w.rightLimit(st); w.x > limit {
		w.x = limit
	}
	if w.x < st.Behavior.Margin {
		w.x = st.Behavior.Margin
	}
}

// rescale 重新计算缓存的显示尺寸；帧几何未知时跳过
func (w *Walker) rescale(st *Stage) {
	if sw, sh, ok := st.Geometry.ScaledSize(st.Surface.Height, w.userScale); ok {
		w.scaledW, w.scaledH = sw, sh
	}
}

// setScale 设置用户缩放（限制在 [0.2, 2.0]）并重新计算显示尺寸
func (w *Walker) setScale(st *Stage, s float64) {
	w.userScale = sprite.ClampScale(s)
	w.rescale(st)
}

// Render 生成绘制命令
//
// 源矩形：列 = frameIndex，行 = 状态的行选择器(朝向)；
// 目标矩形底部对齐，并按 offsetY 向上偏移。帧几何未知时返回 false。
func (w *Walker) Render(st *Stage) (DrawCommand, bool) {
	if !st.Geometry.Loaded() {
		return DrawCommand{}, false
	}

	def := st.States.Resolve(w.state)
	frame := w.frameIndex
	if !def.HasFrame(frame) {
		frame = def.First()
	}

	dw := float64(w.displayWidth(st))
	dh := float64(w.displayHeight(st))
	return DrawCommand{
		Src: st.Geometry.SourceRect(frame, def.Row(w.dir)),
		Dst: Rect{
			X: w.x,
			Y: st.Surface.Height - dh - w.offsetY,
			W: dw,
			H: dh,
		},
	}, true
}
