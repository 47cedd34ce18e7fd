// Package sprite 提供精灵图的帧几何计算与加载
//
// 精灵图是固定网格（Cols 列 × Rows 行）的单张图片。单帧尺寸在图片加载完成后
// 计算一次，此后不再改变。
package sprite

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/decker502/walkers/pkg/config"
)

// ErrAlreadyLoaded 帧尺寸只能计算一次
var ErrAlreadyLoaded = errors.New("sprite geometry already loaded")

// Geometry 精灵图帧几何
type Geometry struct {
	Cols, Rows int

	SheetWidth, SheetHeight int
	FrameWidth, FrameHeight int
}

// NewGeometry 创建尚未加载的帧几何
func NewGeometry(cols, rows int) *Geometry {
	return &Geometry{Cols: cols, Rows: rows}
}

// Load 根据精灵图像素尺寸计算单帧尺寸
//
// 只允许调用一次；重复调用返回 ErrAlreadyLoaded 且不修改已有数据。
func (g *Geometry) Load(sheetWidth, sheetHeight int) error {
	if g.Loaded() {
		return ErrAlreadyLoaded
	}
	if g.Cols <= 0 || g.Rows <= 0 {
		return fmt.Errorf("invalid sheet grid %dx%d", g.Cols, g.Rows)
	}
	frameW := sheetWidth / g.Cols
	frameH := sheetHeight / g.Rows
	if frameW <= 0 || frameH <= 0 {
		return fmt.Errorf("sheet %dx%d too small for %dx%d grid", sheetWidth, sheetHeight, g.Cols, g.Rows)
	}

	g.SheetWidth, g.SheetHeight = sheetWidth, sheetHeight
	g.FrameWidth, g.FrameHeight = frameW, frameH
	return nil
}

// Loaded 帧高度已知时返回 true
func (g *Geometry) Loaded() bool {
	return g != nil && g.FrameHeight > 0
}

// SourceRect 返回 (col, row) 单元格在精灵图中的源矩形
func (g *Geometry) SourceRect(col, row int) image.Rectangle {
	x := col * g.FrameWidth
	y := row * g.FrameHeight
	return image.Rect(x, y, x+g.FrameWidth, y+g.FrameHeight)
}

// ScaledSize 计算行走者的显示尺寸
//
// 有效缩放 = min(1, logicalHeight/FrameHeight) × userScale（userScale 先限制到
// [0.2, 2.0]），保证精灵不会超出表面高度，同时保留用户缩放。
//
// 返回:
//   - w, h: 向下取整后的显示尺寸
//   - ok: 帧尺寸未知时为 false
func (g *Geometry) ScaledSize(logicalHeight, userScale float64) (w, h int, ok bool) {
	if !g.Loaded() {
		return 0, 0, false
	}
	fit := math.Min(1, logicalHeight/float64(g.FrameHeight))
	eff := fit * ClampScale(userScale)
	w = int(math.Floor(float64(g.FrameWidth) * eff))
	h = int(math.Floor(float64(g.FrameHeight) * eff))
	return w, h, true
}

// ClampScale 将用户缩放限制在 [MinUserScale, MaxUserScale]
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return config.MinUserScale
	}
	if s < config.MinUserScale {
		return config.MinUserScale
	}
	if s > config.MaxUserScale {
		return config.MaxUserScale
	}
	return s
}
