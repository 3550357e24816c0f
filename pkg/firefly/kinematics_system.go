package firefly

import (
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
)

// KinematicsSystem 漂移运动系统
//
// 每帧推进所有实体的漂移相位并重算位置：围绕锚点的水平游走加上
// 正弦叠加的垂直浮动，最后对地形高度做安全钳位。
//
// 该系统是 position 与 wanderPhase 字段的唯一写入者。
// 每帧 O(N)，无内存分配；相同的 (store, dt) 总是产生相同结果。
type KinematicsSystem struct {
	store    *Store
	tuning   *config.FireflyTuning
	heightAt HeightFunc
}

// NewKinematicsSystem 创建漂移运动系统
//
// 参数：
//   - store: 实体表
//   - tuning: 调参配置
//   - heightAt: 地形高度回调，nil 时视为常量 0
func NewKinematicsSystem(store *Store, tuning *config.FireflyTuning, heightAt HeightFunc) *KinematicsSystem {
	if heightAt == nil {
		heightAt = func(x, z float64) float64 { return 0 }
	}
	return &KinematicsSystem{
		store:    store,
		tuning:   tuning,
		heightAt: heightAt,
	}
}

// Update 推进一帧漂移运动
//
// 参数：
//   - dt: 帧间隔（秒）
func (s *KinematicsSystem) Update(dt float64) {
	advance := dt * s.tuning.WanderSpeed
	for i := 0; i < s.store.count; i++ {
		s.store.wanderPhase[i] += advance
		s.store.materialize(i, s.tuning, s.heightAt)
	}
}
