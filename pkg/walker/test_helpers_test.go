package walker

import (
	"image"
	"testing"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/sprite"
)

// scriptedRand 按顺序返回预设值的随机源，用完后返回 fallback
type scriptedRand struct {
	values   []float64
	next     int
	fallback float64
}

func newScriptedRand(values ...float64) *scriptedRand {
	return &scriptedRand{values: values, fallback: 0.5}
}

func (r *scriptedRand) Float64() float64 {
	if r.next >= len(r.values) {
		return r.fallback
	}
	v := r.values[r.next]
	r.next++
	return v
}

// consumed 已消耗的预设值数量
func (r *scriptedRand) consumed() int {
	return r.next
}

// newTestStage 创建帧尺寸为 64x64（4x9 网格）的上下文
func newTestStage(t *testing.T, surfaceW, surfaceH float64, rnd Rand) *Stage {
	t.Helper()
	g := sprite.NewGeometry(config.DefaultSheetCols, config.DefaultSheetRows)
	if err := g.Load(256, 576); err != nil {
		t.Fatalf("geometry Load() error: %v", err)
	}
	st := NewStage(g, config.DefaultBehaviorConfig(), rnd)
	st.Surface.Resize(surfaceW, surfaceH, 1)
	return st
}

// newTestWalker 直接构造处于 rest 的行走者，并按上下文计算显示尺寸
func newTestWalker(st *Stage, x, vx float64, dir Direction, scale float64) *Walker {
	w := &Walker{
		id:        1,
		x:         x,
		vx:        vx,
		dir:       dir,
		state:     StateRest,
		userScale: scale,
	}
	w.rescale(st)
	return w
}

type drawCall struct {
	src image.Rectangle
	dst Rect
}

// recordingCanvas 记录绘制调用的画布
type recordingCanvas struct {
	ratio  float64
	clears int
	draws  []drawCall
}

func (c *recordingCanvas) SetPixelRatio(ratio float64) { c.ratio = ratio }

func (c *recordingCanvas) Clear() {
	c.clears++
	c.draws = c.draws[:0]
}

func (c *recordingCanvas) DrawFrame(src image.Rectangle, dst Rect) {
	c.draws = append(c.draws, drawCall{src: src, dst: dst})
}
