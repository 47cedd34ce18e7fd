package game

import "math"

// DefaultMaxStepMs 单帧 dt 上限（毫秒）
const DefaultMaxStepMs = 50.0

// FrameClock 帧时钟
//
// 宿主每次刷新传入单调递增的时间戳（毫秒），Tick 返回与上一帧的间隔。
// 间隔被限制在 [0, maxStep]，避免窗口失焦或卡顿恢复后位置和计时器跳变。
type FrameClock struct {
	maxStep float64
	last    float64
	started bool
}

// NewFrameClock 创建帧时钟，maxStep <= 0 时使用默认上限
func NewFrameClock(maxStep float64) *FrameClock {
	if maxStep <= 0 {
		maxStep = DefaultMaxStepMs
	}
	return &FrameClock{maxStep: maxStep}
}

// Start 记录循环开始的时间戳
func (c *FrameClock) Start(nowMs float64) {
	c.last = nowMs
	c.started = true
}

// Started 循环是否已经开始
func (c *FrameClock) Started() bool {
	return c.started
}

// Tick 返回自上一帧以来经过的时间（毫秒），并记录本帧时间戳
//
// 未 Start 时返回 0。
func (c *FrameClock) Tick(nowMs float64) float64 {
	if !c.started {
		return 0
	}
	dt := nowMs - c.last
	c.last = nowMs
	return math.Max(0, math.Min(c.maxStep, dt))
}
