package firefly

import (
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/utils"
)

// FadeSystem 淡入淡出系统
//
// 每帧把每个光槽的当前亮度向目标亮度做指数逼近：
//
//	current += (target - current) * min(dt*fadeSpeed, 1)
//
// 逼近系数钳位到 1，因此永不过冲；单帧变化量以 dt*fadeSpeed 为界，
// 这是活跃子集切换时不出现亮度"跳变"的唯一保证。低于可见性阈值的
// 槽位被排除出渲染集合，但保留状态以备将来再次被选中。
//
// 该系统是 currentIntensity 字段的唯一写入者。
type FadeSystem struct {
	store  *Store
	tuning *config.FireflyTuning
}

// NewFadeSystem 创建淡入淡出系统
func NewFadeSystem(store *Store, tuning *config.FireflyTuning) *FadeSystem {
	return &FadeSystem{
		store:  store,
		tuning: tuning,
	}
}

// Update 推进一帧淡入淡出
//
// 参数：
//   - dt: 帧间隔（秒）
func (s *FadeSystem) Update(dt float64) {
	factor := utils.Clamp01(dt * s.tuning.FadeSpeed)
	for i := 0; i < s.store.count; i++ {
		cur := s.store.current[i]
		cur += (s.store.target[i] - cur) * factor
		// 不变量：currentIntensity 始终有限且落在 [0, 1]
		s.store.current[i] = utils.Clamp01(cur)
	}
}

// Visible 判断槽位 i 是否参与渲染
func (s *FadeSystem) Visible(i int) bool {
	return s.store.current[i] > s.tuning.VisibilityEpsilon
}
