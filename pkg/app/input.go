package app

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标）
// 返回是否按下以及按下位置（屏幕坐标，即后备缓冲像素）
func IsPointerJustPressed() (bool, int, int) {
	// 优先检测触摸（移动设备）
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 其次检测鼠标左键（桌面设备）
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// ToLogical 把屏幕坐标换算为逻辑像素
//
// Layout 返回的是后备缓冲尺寸，指针坐标因此需要除以设备像素比。
func ToLogical(x, y int, ratio float64) (float64, float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	return float64(x) / ratio, float64(y) / ratio
}
