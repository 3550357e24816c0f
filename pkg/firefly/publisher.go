package firefly

import (
	"sort"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
)

// LightDescriptor 发布给渲染接收者的光源描述
// 外部消费者只会收到这样的不可变快照，永远拿不到内部数组的引用
type LightDescriptor struct {
	X, Y, Z   float64 // 世界坐标
	R, G, B   float64 // 颜色（0~1）
	Intensity float64 // 当前亮度（> VisibilityEpsilon）
	Range     float64 // 光照半径
}

// SinkFunc 光源快照接收回调
// 单向数据通道：接收者不可能通过它反向影响调度器状态
type SinkFunc func(lights []LightDescriptor)

// Publisher 光源发布器
//
// 收集当前亮度高于可见性阈值的槽位，打包成描述列表推给渲染接收者；
// 反射接收者（如水面着色器）以更低的节奏收到同一份镜像。发布数量
// 上限为光源预算：活跃子集切换期间，新选中者淡入、落选者尚未淡完，
// 同时可见的槽位可能短暂超出预算，此时按亮度取前 B 个。
//
// 发布器从不修改实体表或光槽状态。
type Publisher struct {
	store           *Store
	tuning          *config.FireflyTuning
	maxActiveLights int

	sink           SinkFunc // 规范接收者（渲染器），每个发布节拍调用一次
	reflectionSink SinkFunc // 反射接收者，可为 nil

	scratch []LightDescriptor // 组装缓冲，复用以减少分配
}

// NewPublisher 创建光源发布器
//
// 参数：
//   - store: 实体表
//   - tuning: 调参配置
//   - maxActiveLights: 发布数量上限（来自质量档案）
//   - sink: 规范接收者，可为 nil（纯无头模式）
//   - reflectionSink: 反射接收者，可为 nil
func NewPublisher(store *Store, tuning *config.FireflyTuning, maxActiveLights uint32, sink, reflectionSink SinkFunc) *Publisher {
	return &Publisher{
		store:           store,
		tuning:          tuning,
		maxActiveLights: int(maxActiveLights),
		sink:            sink,
		reflectionSink:  reflectionSink,
		scratch:         make([]LightDescriptor, 0, maxActiveLights),
	}
}

// Publish 组装当前可见光源并推给规范接收者
//
// 返回：
//   - 本次发布的快照（长度恒 <= maxActiveLights），供调用方转发镜像
func (p *Publisher) Publish() []LightDescriptor {
	p.scratch = p.scratch[:0]

	for i := 0; i < p.store.count; i++ {
		intensity := p.store.current[i]
		if intensity <= p.tuning.VisibilityEpsilon {
			continue
		}
		p.scratch = append(p.scratch, LightDescriptor{
			X: p.store.posX[i], Y: p.store.posY[i], Z: p.store.posZ[i],
			R: p.store.colR[i], G: p.store.colG[i], B: p.store.colB[i],
			Intensity: intensity,
			Range:     p.store.lightRange[i],
		})
	}

	// 淡入淡出交叠可能使可见槽位短暂多于预算：保留最亮的 B 个
	if len(p.scratch) > p.maxActiveLights {
		sort.Slice(p.scratch, func(a, b int) bool {
			return p.scratch[a].Intensity > p.scratch[b].Intensity
		})
		p.scratch = p.scratch[:p.maxActiveLights]
	}

	// 快照拷贝：接收者持有的切片与内部缓冲彻底隔离
	out := make([]LightDescriptor, len(p.scratch))
	copy(out, p.scratch)

	if p.sink != nil {
		p.sink(out)
	}
	return out
}

// Mirror 把一份已发布的快照转发给反射接收者
// 由调度器按更低的节奏调用；没有反射接收者时是空操作
func (p *Publisher) Mirror(lights []LightDescriptor) {
	if p.reflectionSink == nil {
		return
	}
	p.reflectionSink(lights)
}
