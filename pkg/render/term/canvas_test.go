package term

import (
	"image"
	"image/color"
	"testing"

	"github.com/decker502/walkers/pkg/walker"
	"github.com/gdamore/tcell/v2"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// newTestSheet 8x4 的精灵图：左 4x4 为上红下蓝，右 4x4 全透明
func newTestSheet() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if y < 2 {
				img.SetRGBA(x, y, red)
			} else {
				img.SetRGBA(x, y, blue)
			}
		}
	}
	return img
}

func newTestScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen Init() error: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func TestCanvasLogicalSize(t *testing.T) {
	screen := newTestScreen(t, 20, 6)
	c := NewCanvas(screen, nil)

	if w, h := c.LogicalSize(); w != 20 || h != 12 {
		t.Errorf("LogicalSize() = %dx%d, want 20x12", w, h)
	}
}

func TestCanvasDrawFrame(t *testing.T) {
	tests := []struct {
		name     string
		src      image.Rectangle
		dst      walker.Rect
		x, y     int
		want     color.RGBA
		wantSeen bool
	}{
		{"原尺寸上半", image.Rect(0, 0, 4, 4), walker.Rect{X: 2, Y: 0, W: 4, H: 4}, 2, 0, red, true},
		{"原尺寸下半", image.Rect(0, 0, 4, 4), walker.Rect{X: 2, Y: 0, W: 4, H: 4}, 5, 3, blue, true},
		{"目标矩形外", image.Rect(0, 0, 4, 4), walker.Rect{X: 2, Y: 0, W: 4, H: 4}, 6, 0, color.RGBA{}, false},
		{"放大两倍", image.Rect(0, 0, 4, 4), walker.Rect{X: 0, Y: 0, W: 8, H: 8}, 7, 3, red, true},
		{"放大两倍下半", image.Rect(0, 0, 4, 4), walker.Rect{X: 0, Y: 0, W: 8, H: 8}, 7, 4, blue, true},
		{"透明帧", image.Rect(4, 0, 8, 4), walker.Rect{X: 0, Y: 0, W: 4, H: 4}, 1, 1, color.RGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newTestScreen(t, 10, 5)
			c := NewCanvas(screen, newTestSheet())
			c.Clear()
			c.DrawFrame(tt.src, tt.dst)

			got, seen := c.Pixel(tt.x, tt.y)
			if seen != tt.wantSeen {
				t.Fatalf("Pixel(%d,%d) visible = %v, want %v", tt.x, tt.y, seen, tt.wantSeen)
			}
			if seen && got != tt.want {
				t.Errorf("Pixel(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestCanvasClipsToScreen 超出屏幕的部分被裁剪
func TestCanvasClipsToScreen(t *testing.T) {
	screen := newTestScreen(t, 4, 2)
	c := NewCanvas(screen, newTestSheet())
	c.Clear()
	c.DrawFrame(image.Rect(0, 0, 4, 4), walker.Rect{X: -2, Y: 2, W: 4, H: 4})

	if p, ok := c.Pixel(0, 2); !ok || p != red {
		t.Errorf("Pixel(0,2) = %v/%v, want red", p, ok)
	}
	if _, ok := c.Pixel(2, 2); ok {
		t.Error("Pixel(2,2) lies outside the destination and must stay transparent")
	}
}

func TestCanvasShow(t *testing.T) {
	screen := newTestScreen(t, 6, 3)
	c := NewCanvas(screen, newTestSheet())
	c.Clear()
	// 目标 4x4 起点 (0,1)：单元行 0 上像素透明、下像素红
	c.DrawFrame(image.Rect(0, 0, 4, 4), walker.Rect{X: 0, Y: 1, W: 4, H: 4})
	c.Show()

	tests := []struct {
		name   string
		x, y   int
		rune   rune
		fg, bg tcell.Color
	}{
		{"上透明下红", 0, 0, halfBlock, tcell.ColorDefault, tcell.NewRGBColor(255, 0, 0)},
		{"上红下蓝", 1, 1, halfBlock, tcell.NewRGBColor(255, 0, 0), tcell.NewRGBColor(0, 0, 255)},
		{"空白单元", 5, 2, ' ', tcell.ColorDefault, tcell.ColorDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, style, _ := screen.GetContent(tt.x, tt.y)
			if r != tt.rune {
				t.Errorf("rune = %q, want %q", r, tt.rune)
			}
			fg, bg, _ := style.Decompose()
			if r == halfBlock && fg != tt.fg {
				t.Errorf("fg = %v, want %v", fg, tt.fg)
			}
			if bg != tt.bg {
				t.Errorf("bg = %v, want %v", bg, tt.bg)
			}
		})
	}
}

// TestCanvasClearFollowsResize 屏幕尺寸变化后 Clear 重建缓冲
func TestCanvasClearFollowsResize(t *testing.T) {
	screen := newTestScreen(t, 4, 2)
	c := NewCanvas(screen, newTestSheet())
	c.DrawFrame(image.Rect(0, 0, 4, 4), walker.Rect{W: 4, H: 4})

	screen.SetSize(8, 3)
	c.Clear()

	if c.width != 8 || c.height != 6 {
		t.Errorf("buffer = %dx%d, want 8x6", c.width, c.height)
	}
	if _, ok := c.Pixel(0, 0); ok {
		t.Error("Clear() must leave every pixel transparent")
	}
}
