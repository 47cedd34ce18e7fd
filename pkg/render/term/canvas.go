// Package term 提供基于 tcell 的终端画布
package term

import (
	"image"
	"image/color"
	"math"

	"github.com/decker502/walkers/pkg/walker"
	"github.com/gdamore/tcell/v2"
)

// halfBlock 上半块字符：前景色为上像素，背景色为下像素
const halfBlock = '▀'

// alphaThreshold 低于该不透明度的像素视为透明
const alphaThreshold = 0x80

// Canvas 基于 tcell 的终端画布
//
// 每个字符单元对应上下两个逻辑像素，逻辑表面尺寸为 cols x rows*2。
// 采样使用最近邻，不做混合。
type Canvas struct {
	screen tcell.Screen
	sheet  image.Image

	width  int
	height int
	pixels []color.RGBA

	// Background 透明像素使用的颜色
	Background tcell.Color
}

// NewCanvas 创建终端画布
func NewCanvas(screen tcell.Screen, sheet image.Image) *Canvas {
	c := &Canvas{
		screen:     screen,
		sheet:      sheet,
		Background: tcell.ColorDefault,
	}
	c.syncSize()
	return c
}

// LogicalSize 返回逻辑表面尺寸（像素）
func (c *Canvas) LogicalSize() (int, int) {
	cols, rows := c.screen.Size()
	return cols, rows * 2
}

// SetPixelRatio 终端单元与逻辑像素固定对应，忽略像素比
func (c *Canvas) SetPixelRatio(float64) {}

// Clear 按当前屏幕尺寸重置像素缓冲
func (c *Canvas) Clear() {
	c.syncSize()
	for i := range c.pixels {
		c.pixels[i] = color.RGBA{}
	}
}

func (c *Canvas) syncSize() {
	w, h := c.LogicalSize()
	if w == c.width && h == c.height && c.pixels != nil {
		return
	}
	c.width, c.height = w, h
	c.pixels = make([]color.RGBA, w*h)
}

// DrawFrame 把精灵图的 src 区域最近邻采样到 dst（逻辑像素）
func (c *Canvas) DrawFrame(src image.Rectangle, dst walker.Rect) {
	if c.sheet == nil || src.Empty() || dst.W <= 0 || dst.H <= 0 {
		return
	}

	x0 := max(0, int(math.Floor(dst.X)))
	y0 := max(0, int(math.Floor(dst.Y)))
	x1 := min(c.width, int(math.Ceil(dst.X+dst.W)))
	y1 := min(c.height, int(math.Ceil(dst.Y+dst.H)))

	for py := y0; py < y1; py++ {
		v := (float64(py) + 0.5 - dst.Y) / dst.H
		if v < 0 || v >= 1 {
			continue
		}
		sy := src.Min.Y + int(v*float64(src.Dy()))
		for px := x0; px < x1; px++ {
			u := (float64(px) + 0.5 - dst.X) / dst.W
			if u < 0 || u >= 1 {
				continue
			}
			sx := src.Min.X + int(u*float64(src.Dx()))

			p := color.RGBAModel.Convert(c.sheet.At(sx, sy)).(color.RGBA)
			if p.A < alphaThreshold {
				continue
			}
			c.pixels[py*c.width+px] = p
		}
	}
}

// Pixel 返回缓冲中的像素，越界或透明时 ok 为 false
func (c *Canvas) Pixel(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return color.RGBA{}, false
	}
	p := c.pixels[y*c.width+x]
	return p, p.A != 0
}

// Show 把像素缓冲写入屏幕并刷新
func (c *Canvas) Show() {
	rows := c.height / 2
	for row := 0; row < rows; row++ {
		for x := 0; x < c.width; x++ {
			top, topOK := c.Pixel(x, row*2)
			bottom, bottomOK := c.Pixel(x, row*2+1)

			if !topOK && !bottomOK {
				c.screen.SetContent(x, row, ' ', nil, tcell.StyleDefault.Background(c.Background))
				continue
			}

			fg, bg := c.Background, c.Background
			if topOK {
				fg = rgb(top)
			}
			if bottomOK {
				bg = rgb(bottom)
			}
			c.screen.SetContent(x, row, halfBlock, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	c.screen.Show()
}

func rgb(p color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}
