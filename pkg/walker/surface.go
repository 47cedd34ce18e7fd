package walker

import (
	"math"
	"math/rand"

	"github.com/decker502/walkers/pkg/config"
	"github.com/decker502/walkers/pkg/sprite"
)

// Surface 绘制表面状态
//
// 逻辑尺寸以 CSS 像素为单位；后备缓冲尺寸 = 逻辑尺寸 × 设备像素比。
// 画布按 PixelRatio 做缩放变换，因此所有绘制坐标都使用逻辑像素。
type Surface struct {
	Width, Height float64
	PixelRatio    float64

	BackingWidth, BackingHeight int
}

// Resize 记录新的逻辑尺寸并计算后备缓冲尺寸
//
// ratio <= 0 时按 1 处理；后备缓冲每个维度至少为 1。
func (s *Surface) Resize(width, height, ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	s.Width = math.Max(0, width)
	s.Height = math.Max(0, height)
	s.PixelRatio = ratio
	s.BackingWidth = max(1, int(math.Floor(s.Width*ratio)))
	s.BackingHeight = max(1, int(math.Floor(s.Height*ratio)))
}

// Rand 均匀分布随机源，*rand.Rand 满足该接口
type Rand interface {
	Float64() float64
}

// NewRand 创建带种子的随机源
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Stage 行走者共享的上下文
//
// 由 Manager 持有：帧几何、表面尺寸、状态定义表、行为参数与随机源。
type Stage struct {
	Geometry *sprite.Geometry
	Surface  Surface
	States   *Registry
	Behavior config.BehaviorConfig
	Rand     Rand
}

// NewStage 创建上下文，States 为默认状态表
func NewStage(geometry *sprite.Geometry, behavior config.BehaviorConfig, rnd Rand) *Stage {
	return &Stage{
		Geometry: geometry,
		Surface:  Surface{PixelRatio: 1, BackingWidth: 1, BackingHeight: 1},
		States:   DefaultRegistry(behavior),
		Behavior: behavior,
		Rand:     rnd,
	}
}

// sample 在 [Min, Max) 中均匀取值
func (s *Stage) sample(r config.Range) float64 {
	return r.At(s.Rand.Float64())
}
