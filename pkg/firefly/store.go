// Package firefly 实现观星台场景的环境光预算调度器
//
// 几百只萤火虫需要看起来各自独立地持续发光，但渲染器一次只负担得起
// 少量真实动态光源。该包把问题拆成四个在单线程帧循环内协作的系统：
//
//   - KinematicsSystem 每帧推进漂移运动（位置与相位的唯一写入者）
//   - BudgetSystem     按慢节奏重选活跃子集（目标亮度的唯一写入者）
//   - FadeSystem       每帧把当前亮度逼近目标（当前亮度的唯一写入者）
//   - Publisher        把非可忽略的光源快照推给渲染接收者
//
// "每个字段只有一个写入者"是贯穿全包的并发不变量：所有系统在同一个
// 模拟 tick 内同步运行，因此无需任何锁。
package firefly

import (
	"math"
	"math/rand"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
)

// HeightFunc 地形高度采样回调
// 返回世界坐标 (x, z) 处的地面高度
type HeightFunc func(x, z float64) float64

// Firefly 单个实体的快照视图
// 用于按索引整体读写，内部存储是列式数组（structure-of-arrays）
type Firefly struct {
	X, Y, Z       float64 // 世界坐标
	R, G, B       float64 // 颜色（0~1）
	BaseIntensity float64 // 基础亮度
	Range         float64 // 光照半径
	CyclePhase    float64 // 周期相位（创建时随机，之后只读）
	WanderPhase   float64 // 漂移相位（由 KinematicsSystem 推进）
}

// fireflyPalette 暖色调色板
// 萤火虫的颜色在创建时从这里随机选取
var fireflyPalette = [][3]float64{
	{0.80, 1.00, 0.60}, // 黄绿
	{1.00, 0.85, 0.45}, // 琥珀
	{0.70, 0.95, 0.80}, // 青绿
	{1.00, 0.95, 0.70}, // 暖白
}

// Store 萤火虫实体表
//
// 固定容量的列式存储，索引密集（0..Count()-1）。会话期间不增删
// 实体，因此无需空闲链表或世代编号；Dispose 一次性整体销毁。
type Store struct {
	count int

	// 位置与颜色
	posX, posY, posZ []float64
	colR, colG, colB []float64

	// 光照属性
	baseIntensity []float64
	lightRange    []float64

	// 运动状态
	cyclePhase  []float64
	wanderPhase []float64
	homeX       []float64 // 游走锚点
	homeZ       []float64
	hover       []float64 // 锚点悬浮高度（地面以上，不含浮动偏移）

	// 光槽（与实体平行的淡入淡出状态）
	target  []float64 // 目标亮度，BudgetSystem 独占写入
	current []float64 // 当前亮度，FadeSystem 独占写入
}

// NewStore 创建实体表并执行放置策略
//
// 放置策略：围绕原点随机方位角 + 环带内随机半径确定锚点；锚点悬浮
// 高度取在安全带 [minClearance, maxClearance] 内部并预留垂直浮动
// 振幅，保证初始高度严格位于安全带之内。
//
// 参数：
//   - count: 实体数量（调用方负责先按质量档案裁剪）
//   - tuning: 调参配置（必须已通过 Validate）
//   - heightAt: 地形高度回调，nil 时视为常量 0（调用方负责发诊断）
//   - seed: 放置随机种子（相同种子产生相同布局，用于可复现测试）
func NewStore(count int, tuning *config.FireflyTuning, heightAt HeightFunc, seed int64) *Store {
	if count < 0 {
		count = 0
	}
	if heightAt == nil {
		heightAt = func(x, z float64) float64 { return 0 }
	}

	s := &Store{
		count:         count,
		posX:          make([]float64, count),
		posY:          make([]float64, count),
		posZ:          make([]float64, count),
		colR:          make([]float64, count),
		colG:          make([]float64, count),
		colB:          make([]float64, count),
		baseIntensity: make([]float64, count),
		lightRange:    make([]float64, count),
		cyclePhase:    make([]float64, count),
		wanderPhase:   make([]float64, count),
		homeX:         make([]float64, count),
		homeZ:         make([]float64, count),
		hover:         make([]float64, count),
		target:        make([]float64, count),
		current:       make([]float64, count),
	}

	rng := rand.New(rand.NewSource(seed))

	// 悬浮高度的合法区间：安全带内缩垂直振幅，再留 5% 边距保证"严格位于"
	hoverLo := tuning.MinClearance + tuning.FloatAmpY
	hoverHi := tuning.MaxClearance - tuning.FloatAmpY
	hoverMargin := 0.05 * (hoverHi - hoverLo)

	for i := 0; i < count; i++ {
		azimuth := rng.Float64() * 2 * math.Pi
		radius := tuning.PlacementRadiusMin +
			rng.Float64()*(tuning.PlacementRadiusMax-tuning.PlacementRadiusMin)

		s.homeX[i] = math.Cos(azimuth) * radius
		s.homeZ[i] = math.Sin(azimuth) * radius
		s.hover[i] = hoverLo + hoverMargin + rng.Float64()*(hoverHi-hoverLo-2*hoverMargin)

		s.cyclePhase[i] = rng.Float64() * 2 * math.Pi
		s.wanderPhase[i] = rng.Float64() * 2 * math.Pi

		col := fireflyPalette[rng.Intn(len(fireflyPalette))]
		s.colR[i], s.colG[i], s.colB[i] = col[0], col[1], col[2]

		s.baseIntensity[i] = tuning.IntensityMin +
			rng.Float64()*(tuning.IntensityMax-tuning.IntensityMin)
		s.lightRange[i] = tuning.LightRangeMin +
			rng.Float64()*(tuning.LightRangeMax-tuning.LightRangeMin)

		// 用运动公式在初始相位处实例化位置，保证与之后每帧的结果连续
		s.materialize(i, tuning, heightAt)
	}

	return s
}

// materialize 根据当前相位计算实体的世界坐标
// 与 KinematicsSystem 共用同一运动公式，保证创建与逐帧更新连续
func (s *Store) materialize(i int, tuning *config.FireflyTuning, heightAt HeightFunc) {
	wp := s.wanderPhase[i]
	cp := s.cyclePhase[i]

	x := s.homeX[i] + math.Cos(wp+cp)*tuning.WanderRadius +
		math.Sin(wp*1.7+cp)*tuning.FloatAmpX
	z := s.homeZ[i] + math.Sin(wp*0.77+cp)*tuning.WanderRadius +
		math.Cos(wp*1.3+cp)*tuning.FloatAmpZ

	// 垂直浮动：相位正弦与锚点位置正弦的等权和，振幅以 FloatAmpY 为界
	dy := tuning.FloatAmpY * 0.5 *
		(math.Sin(wp*1.1+cp) + math.Sin(s.homeX[i]*0.35+s.homeZ[i]*0.27+wp*0.7))

	ground := heightAt(x, z)
	y := ground + s.hover[i] + dy
	// 安全钳位：无论地形如何起伏，实体不可没入地面
	if minY := ground + tuning.MinClearance; y < minY {
		y = minY
	}

	s.posX[i], s.posY[i], s.posZ[i] = x, y, z
}

// Count 返回实体数量
func (s *Store) Count() int {
	return s.count
}

// Get 按索引读取实体快照
func (s *Store) Get(i int) Firefly {
	return Firefly{
		X: s.posX[i], Y: s.posY[i], Z: s.posZ[i],
		R: s.colR[i], G: s.colG[i], B: s.colB[i],
		BaseIntensity: s.baseIntensity[i],
		Range:         s.lightRange[i],
		CyclePhase:    s.cyclePhase[i],
		WanderPhase:   s.wanderPhase[i],
	}
}

// Set 按索引整体写入实体
// 仅供构造期和测试使用；运行期的字段写入归属各系统
func (s *Store) Set(i int, f Firefly) {
	s.posX[i], s.posY[i], s.posZ[i] = f.X, f.Y, f.Z
	s.colR[i], s.colG[i], s.colB[i] = f.R, f.G, f.B
	s.baseIntensity[i] = f.BaseIntensity
	s.lightRange[i] = f.Range
	s.cyclePhase[i] = f.CyclePhase
	s.wanderPhase[i] = f.WanderPhase
}

// TargetIntensity 返回槽位 i 的目标亮度
func (s *Store) TargetIntensity(i int) float64 {
	return s.target[i]
}

// CurrentIntensity 返回槽位 i 的当前亮度
func (s *Store) CurrentIntensity(i int) float64 {
	return s.current[i]
}

// Dispose 销毁实体表
// 调度器内没有异步任务，销毁总是同步且彻底的
func (s *Store) Dispose() {
	s.count = 0
	s.posX, s.posY, s.posZ = nil, nil, nil
	s.colR, s.colG, s.colB = nil, nil, nil
	s.baseIntensity, s.lightRange = nil, nil
	s.cyclePhase, s.wanderPhase = nil, nil
	s.homeX, s.homeZ, s.hover = nil, nil, nil
	s.target, s.current = nil, nil
}
