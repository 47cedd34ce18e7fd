package walker

import (
	"math"

	"github.com/decker502/walkers/pkg/sprite"
)

// ScaleStep +/- 键每次调整的全局缩放
const ScaleStep = 0.1

// AdjustScale 在当前缩放上加 delta，按 0.1 取整并限制范围
func AdjustScale(current, delta float64) float64 {
	return sprite.ClampScale(math.Round((current+delta)*10) / 10)
}

// SpawnX 根据随机值 t ∈ [0,1) 选择新行走者的横坐标
//
// 越界位置会在第一次 Update 时被夹回边界内。
func SpawnX(surfaceWidth, t float64) float64 {
	return math.Floor(math.Max(0, surfaceWidth) * t)
}
