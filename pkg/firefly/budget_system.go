package firefly

import (
	"math"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/utils"
)

// ViewpointFunc 观察者位置回调
// 返回相机/观察者的世界坐标，用于距离衰减
type ViewpointFunc func() (x, y, z float64)

// BudgetSystem 光照预算选择系统
//
// 以远低于帧率的节奏（ReselectInterval）重选一小撮实体作为"活跃"
// 子集——只有它们背后有真实光源。选择策略是按时间推移的等距采样：
// 第 k 个名额落在 (offset + floor(k*N/B)) mod N 上。分数步长
// floor(k*N/B) 把 N/B 的余数均匀摊进走步里（残差进位），offset 随
// 重选次数在 0..ceil(N/B)-1 间轮转，因此每个实体索引在连续
// ceil(N/B) 次重选内必然被选中至少一次——覆盖性是精确保证，
// 不是概率性质。
//
// 该系统是 targetIntensity 字段的唯一写入者。
type BudgetSystem struct {
	store           *Store
	tuning          *config.FireflyTuning
	maxActiveLights int
	viewpoint       ViewpointFunc // 可为 nil：距离衰减退化为 1

	selection []int // 当前选择（两次重选之间不可变）
}

// NewBudgetSystem 创建光照预算选择系统
//
// 参数：
//   - store: 实体表
//   - tuning: 调参配置
//   - maxActiveLights: 真实光源预算（来自质量档案）
//   - viewpoint: 观察者位置回调，nil 时禁用距离衰减
func NewBudgetSystem(store *Store, tuning *config.FireflyTuning, maxActiveLights uint32, viewpoint ViewpointFunc) *BudgetSystem {
	return &BudgetSystem{
		store:           store,
		tuning:          tuning,
		maxActiveLights: int(maxActiveLights),
		viewpoint:       viewpoint,
		selection:       make([]int, 0, maxActiveLights),
	}
}

// Reselect 重新挑选活跃子集并写入目标亮度
//
// 未被选中的实体目标亮度归零；被选中的实体目标亮度为
// 基础亮度 × 波浪包络 × 距离衰减，并钳位到 [0, 1]。
//
// 参数：
//   - elapsed: 周期时钟（秒，在 CycleDuration 处回绕的单调计数）
//
// 返回：
//   - 选中的实体索引数量（诊断用）
func (s *BudgetSystem) Reselect(elapsed float64) int {
	// 全部归零后再写选中者，保证落选实体开始淡出
	for i := range s.store.target {
		s.store.target[i] = 0
	}
	s.selection = s.selection[:0]

	n := s.store.count
	b := s.maxActiveLights
	if b > n {
		// 档案配置越界时在边界处钳位，而不是报错
		b = n
	}
	if b == 0 || n == 0 {
		return 0
	}

	period := (n + b - 1) / b // ceil(N/B)：偏移轮转的周期
	step := int(elapsed / s.tuning.ReselectInterval)
	offset := step % period

	for k := 0; k < b; k++ {
		idx := (offset + k*n/b) % n
		s.selection = append(s.selection, idx)

		group := k / s.tuning.WaveGroupSize
		envelope := utils.Clamp01(math.Sin(
			elapsed*s.tuning.WaveSpeed + float64(group)*s.tuning.WaveGroupPhaseGap))

		s.store.target[idx] = utils.Clamp01(
			s.store.baseIntensity[idx] * envelope * s.attenuation(idx))
	}

	return len(s.selection)
}

// attenuation 计算实体 idx 的距离衰减系数
//
// 平滑单调递减，带可配置下限：被选中的光不会纯因距离而完全熄灭。
// 观察者位置不可用时返回 1（不衰减）。
func (s *BudgetSystem) attenuation(idx int) float64 {
	if s.viewpoint == nil {
		return 1.0
	}
	vx, vy, vz := s.viewpoint()
	dx := s.store.posX[idx] - vx
	dy := s.store.posY[idx] - vy
	dz := s.store.posZ[idx] - vz
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	t := s.tuning
	return t.FalloffFloor + (1.0-t.FalloffFloor)*
		(1.0-utils.SmoothStep(t.FalloffStart, t.FalloffEnd, dist))
}

// Selection 返回当前选择的副本
// 两次重选之间选择不可变；返回副本避免外部持有内部数组
func (s *BudgetSystem) Selection() []int {
	out := make([]int, len(s.selection))
	copy(out, s.selection)
	return out
}
