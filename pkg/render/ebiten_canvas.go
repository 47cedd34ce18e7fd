// Package render 提供行走者绘制协作者的具体实现
//
// EbitenCanvas 用于桌面/移动端窗口；终端画布在子包 term 中，不依赖 ebiten。
// 两者都实现 walker.Canvas：坐标以逻辑像素传入，由画布自行处理像素比。
package render

import (
	"image"

	"github.com/decker502/walkers/pkg/walker"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenCanvas 基于 Ebitengine 的画布
type EbitenCanvas struct {
	target *ebiten.Image
	sheet  *ebiten.Image
	ratio  float64

	// Filter 缩放采样方式
	Filter ebiten.Filter
}

// NewEbitenCanvas 创建画布，sheet 可以为 nil（加载完成后通过 SetSheet 设置）
func NewEbitenCanvas(sheet *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{
		sheet:  sheet,
		ratio:  1,
		Filter: ebiten.FilterLinear,
	}
}

// SetSheet 精灵图加载完成后设置
func (c *EbitenCanvas) SetSheet(sheet *ebiten.Image) {
	c.sheet = sheet
}

// SetTarget 设置本帧的绘制目标（通常是 Draw 传入的 screen）
func (c *EbitenCanvas) SetTarget(target *ebiten.Image) {
	c.target = target
}

// SetPixelRatio 设置逻辑像素到后备缓冲像素的缩放
func (c *EbitenCanvas) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	c.ratio = ratio
}

// Clear 清空整个目标
func (c *EbitenCanvas) Clear() {
	if c.target != nil {
		c.target.Clear()
	}
}

// DrawFrame 把精灵图的 src 区域绘制到 dst（逻辑像素）
func (c *EbitenCanvas) DrawFrame(src image.Rectangle, dst walker.Rect) {
	if c.target == nil || c.sheet == nil || src.Empty() || dst.W <= 0 || dst.H <= 0 {
		return
	}

	frame := c.sheet.SubImage(src).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = FrameGeoM(src, dst, c.ratio)
	op.Filter = c.Filter
	c.target.DrawImage(frame, op)
}

// FrameGeoM 计算单帧绘制变换：缩放到目标尺寸 → 平移到目标位置 → 乘以像素比
func FrameGeoM(src image.Rectangle, dst walker.Rect, ratio float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(dst.W/float64(src.Dx()), dst.H/float64(src.Dy()))
	m.Translate(dst.X, dst.Y)
	m.Scale(ratio, ratio)
	return m
}
