package firefly

import (
	"fmt"
	"log"
	"math"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/quality"
)

// DiagnosticFunc 诊断事件回调
// 只携带计数，不承载行为：没有任何逻辑依赖诊断被观察到
type DiagnosticFunc func(event string, count int)

// 诊断事件名
const (
	// DiagMissingTerrain 构造时缺少地形回调（退化为常量 0 高度）
	DiagMissingTerrain = "missing_terrain"
	// DiagReselect 一次重选完成，count 为选中数量
	DiagReselect = "reselect"
	// DiagPublish 一次发布完成，count 为发布的光源数量
	DiagPublish = "publish"
)

// Scheduler 环境光预算调度器
//
// 把实体表和四个系统按各自的节奏编排在一个单线程帧循环里：
//
//	KinematicsSystem、FadeSystem  —— 每帧（廉价的 O(N) 线性扫描）
//	BudgetSystem、Publisher       —— 每 K 帧（摊薄距离计算与包络求值）
//	反射镜像                       —— 每 K*M 帧
//
// 活跃子集最多滞后 K 帧是刻意的成本取舍，不是正确性问题。
// 错误处理哲学：永不让一帧失败。可选协作者缺失时退化为文档化的
// 安全默认值；只有构造期的配置错误才作为 error 返回。
type Scheduler struct {
	profile quality.QualityProfile
	tuning  *config.FireflyTuning

	store      *Store
	kinematics *KinematicsSystem
	budget     *BudgetSystem
	fade       *FadeSystem
	publisher  *Publisher

	frame        uint64
	cycleTime    float64 // 周期时钟，在 CycleDuration 处回绕
	publishCount uint64
	diagnostics  DiagnosticFunc
	disposed     bool
}

// options 构造选项的汇集
type options struct {
	heightAt       HeightFunc
	viewpoint      ViewpointFunc
	sink           SinkFunc
	reflectionSink SinkFunc
	diagnostics    DiagnosticFunc
	entityCount    int
	seed           int64
}

// Option 调度器构造选项
//
// 所有外部协作者都通过显式注入传入，调度器不依赖任何进程级单例，
// 因此可以在同一进程里并存多个互不干扰的实例。
type Option func(*options)

// WithHeightFunc 注入地形高度回调
// 缺省时高度恒为 0，并发出一次 DiagMissingTerrain 诊断
func WithHeightFunc(f HeightFunc) Option {
	return func(o *options) { o.heightAt = f }
}

// WithViewpoint 注入观察者位置回调
// 缺省时距离衰减退化为 1（不衰减）
func WithViewpoint(f ViewpointFunc) Option {
	return func(o *options) { o.viewpoint = f }
}

// WithLightSink 注入规范光源接收者（渲染器）
func WithLightSink(f SinkFunc) Option {
	return func(o *options) { o.sink = f }
}

// WithReflectionSink 注入反射接收者（如水面渲染）
func WithReflectionSink(f SinkFunc) Option {
	return func(o *options) { o.reflectionSink = f }
}

// WithDiagnostics 注入诊断事件回调
func WithDiagnostics(f DiagnosticFunc) Option {
	return func(o *options) { o.diagnostics = f }
}

// WithEntityCount 指定实体数量
// 超出质量档案 MaxEntities 的请求会被裁剪到上限
func WithEntityCount(n int) Option {
	return func(o *options) { o.entityCount = n }
}

// WithSeed 指定放置随机种子（可复现布局）
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// New 构造调度器
//
// 显式错误只有两类（报告一次，不重试）：
//   - 实体数量为零但光源预算非零（配置错误）
//   - 调参配置含负数或 NaN（立即拒绝）
//
// 其余异常一律钳位或退化：实体数量超档案上限被裁剪，预算超实体
// 数量在重选时钳位，缺失的可选协作者换成安全默认值并记诊断。
func New(profile quality.QualityProfile, tuning *config.FireflyTuning, opts ...Option) (*Scheduler, error) {
	if tuning == nil {
		tuning = config.DefaultFireflyTuning()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("调参配置非法: %w", err)
	}

	o := options{
		entityCount: int(profile.MaxEntities),
		seed:        1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// 实体数量钳位到档案上限
	if o.entityCount > int(profile.MaxEntities) {
		log.Printf("[Scheduler] 实体数量 %d 超出档案上限，裁剪到 %d",
			o.entityCount, profile.MaxEntities)
		o.entityCount = int(profile.MaxEntities)
	}
	if o.entityCount < 0 {
		return nil, fmt.Errorf("实体数量不能为负: %d", o.entityCount)
	}
	if o.entityCount == 0 && profile.MaxActiveLights > 0 {
		return nil, fmt.Errorf("配置错误: 零实体配非零光源预算 (%d)", profile.MaxActiveLights)
	}

	if o.heightAt == nil {
		log.Printf("[Scheduler] 未提供地形高度回调，高度退化为常量 0")
		if o.diagnostics != nil {
			o.diagnostics(DiagMissingTerrain, 1)
		}
	}

	store := NewStore(o.entityCount, tuning, o.heightAt, o.seed)

	s := &Scheduler{
		profile:     profile,
		tuning:      tuning,
		store:       store,
		kinematics:  NewKinematicsSystem(store, tuning, o.heightAt),
		budget:      NewBudgetSystem(store, tuning, profile.MaxActiveLights, o.viewpoint),
		fade:        NewFadeSystem(store, tuning),
		publisher:   NewPublisher(store, tuning, profile.MaxActiveLights, o.sink, o.reflectionSink),
		diagnostics: o.diagnostics,
	}

	log.Printf("[Scheduler] 初始化完成: 等级 %s, 实体 %d, 光源预算 %d",
		profile.Tier, o.entityCount, profile.MaxActiveLights)
	return s, nil
}

// Update 推进一个模拟 tick
//
// 帧内顺序固定：运动 → (节流)重选 → 淡入淡出 → (节流)发布。
// 所有系统在此同步运行，没有后台线程；单写者规则见包文档。
//
// 参数：
//   - dt: 帧间隔（秒），非正或非有限值被忽略
func (s *Scheduler) Update(dt float64) {
	if s.disposed || dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}

	s.frame++
	s.cycleTime += dt
	if s.cycleTime >= s.tuning.CycleDuration {
		s.cycleTime -= s.tuning.CycleDuration
	}

	s.kinematics.Update(dt)

	throttled := s.frame%uint64(s.tuning.PublishEveryFrames) == 0
	if throttled {
		selected := s.budget.Reselect(s.cycleTime)
		if s.diagnostics != nil {
			s.diagnostics(DiagReselect, selected)
		}
	}

	s.fade.Update(dt)

	if throttled {
		lights := s.publisher.Publish()
		s.publishCount++
		if s.publishCount%uint64(s.tuning.ReflectEveryPublishes) == 0 {
			s.publisher.Mirror(lights)
		}
		if s.diagnostics != nil {
			s.diagnostics(DiagPublish, len(lights))
		}
	}
}

// Store 返回实体表（测试与调试用）
func (s *Scheduler) Store() *Store {
	return s.store
}

// Profile 返回构造时的质量档案
func (s *Scheduler) Profile() quality.QualityProfile {
	return s.profile
}

// Selection 返回当前活跃子集的副本
func (s *Scheduler) Selection() []int {
	return s.budget.Selection()
}

// Dispose 同步销毁调度器
// 清空实体表与光槽；没有在途异步任务，销毁总是立即且彻底的
func (s *Scheduler) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.store.Dispose()
	log.Printf("[Scheduler] 已销毁")
}
