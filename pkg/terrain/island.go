// Package terrain 提供观星台小岛的程序化高度场
//
// 用多八度 simplex 噪声叠加径向衰减生成一座中央隆起、边缘没入海面
// 的小岛。高度场是纯函数：相同种子在任何坐标上都返回相同高度，
// 萤火虫调度器和渲染层共享同一个实例作为 HeightAt 回调。
package terrain

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// IslandConfig 小岛生成参数
type IslandConfig struct {
	Seed       int64   // 噪声种子
	Radius     float64 // 岛屿半径（米）：超出后地形沉入海底
	PeakHeight float64 // 中央最大隆起高度（米）
	SeaDepth   float64 // 岛外海底深度（米，正值）
	Octaves    int     // 噪声八度数
	Frequency  float64 // 基础噪声频率（1/米）
	Lacunarity float64 // 相邻八度的频率倍率
	Gain       float64 // 相邻八度的振幅倍率
}

// DefaultIslandConfig 返回默认小岛参数
func DefaultIslandConfig() IslandConfig {
	return IslandConfig{
		Seed:       2023,
		Radius:     80.0,
		PeakHeight: 12.0,
		SeaDepth:   6.0,
		Octaves:    4,
		Frequency:  0.02,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Island 小岛高度场
type Island struct {
	cfg   IslandConfig
	noise opensimplex.Noise
}

// NewIsland 创建小岛高度场
//
// 参数：
//   - cfg: 生成参数（零值字段回退到默认值）
func NewIsland(cfg IslandConfig) *Island {
	def := DefaultIslandConfig()
	if cfg.Radius <= 0 {
		cfg.Radius = def.Radius
	}
	if cfg.PeakHeight <= 0 {
		cfg.PeakHeight = def.PeakHeight
	}
	if cfg.SeaDepth <= 0 {
		cfg.SeaDepth = def.SeaDepth
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = def.Octaves
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = def.Frequency
	}
	if cfg.Lacunarity <= 0 {
		cfg.Lacunarity = def.Lacunarity
	}
	if cfg.Gain <= 0 {
		cfg.Gain = def.Gain
	}

	return &Island{
		cfg:   cfg,
		noise: opensimplex.NewNormalized(cfg.Seed),
	}
}

// HeightAt 返回世界坐标 (x, z) 处的地面高度
//
// 海平面为 0：岛内为正，岛外渐变到 -SeaDepth。
func (is *Island) HeightAt(x, z float64) float64 {
	// 多八度噪声（0~1）
	n := is.octaveNoise(x, z)

	// 径向衰减：中心为 1，岛缘降到 0，之后地形整体下沉
	d := math.Hypot(x, z) / is.cfg.Radius
	shape := 1.0 - d*d
	if shape < 0 {
		shape = 0
	}

	height := n * is.cfg.PeakHeight * shape

	// 岛缘外平滑下潜到海底
	if d > 0.85 {
		sink := (d - 0.85) / 0.30
		if sink > 1 {
			sink = 1
		}
		sink = sink * sink * (3 - 2*sink)
		height -= is.cfg.SeaDepth * sink
	}

	return height
}

// octaveNoise 叠加多个八度的归一化噪声
func (is *Island) octaveNoise(x, z float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := is.cfg.Frequency
	maxValue := 0.0

	for o := 0; o < is.cfg.Octaves; o++ {
		total += is.noise.Eval2(x*frequency, z*frequency) * amplitude
		maxValue += amplitude
		amplitude *= is.cfg.Gain
		frequency *= is.cfg.Lacunarity
	}

	return total / maxValue
}
