// Package quality 提供设备能力分级
//
// 该包根据运行时环境信号（平台类别、CPU 核心数或显式覆盖）推导出一个
// 离散的质量等级（QualityTier），并查表得到完整的质量档案
// （QualityProfile）。档案中的实体数量、光照预算和网格密度驱动整个
// 观星台场景的性能决策。
//
// 分级表是只读的：每个等级在所有字段上严格支配更低的等级（数值更大、
// 开关更多），这是一个可测试的不变量。
package quality

// QualityTier 质量等级（从低到高有序）
type QualityTier int

// TierAuto 表示不覆盖，由分类器自动推导
const TierAuto QualityTier = -1

const (
	// TierMinimal 最保守等级：未知设备的兜底配置
	TierMinimal QualityTier = iota
	// TierLow 低端移动设备
	TierLow
	// TierMedium 平板或低端桌面设备
	TierMedium
	// TierHigh 普通桌面设备
	TierHigh
	// TierUltra 高端工作站
	TierUltra

	tierCount
)

// String 返回等级的可读名称
func (t QualityTier) String() string {
	switch t {
	case TierMinimal:
		return "minimal"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierUltra:
		return "ultra"
	case TierAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// TierFromName 根据名称解析等级
// 未知名称返回 TierAuto 和 false
func TierFromName(name string) (QualityTier, bool) {
	switch name {
	case "minimal":
		return TierMinimal, true
	case "low":
		return TierLow, true
	case "medium":
		return TierMedium, true
	case "high":
		return TierHigh, true
	case "ultra":
		return TierUltra, true
	}
	return TierAuto, false
}

// Valid 判断等级是否为五个具体等级之一（不含 TierAuto）
func (t QualityTier) Valid() bool {
	return t >= TierMinimal && t < tierCount
}

// MeshSegments 网格分段密度（宽 × 高）
type MeshSegments struct {
	W uint32
	H uint32
}

// QualityProfile 质量档案
//
// 从等级查表得到，一经推导不可变；等级变化时整体重新推导。
// 不变量：MaxActiveLights <= MaxEntities。
type QualityProfile struct {
	Tier                  QualityTier
	MaxEntities           uint32       // 萤火虫实体上限
	MaxActiveLights       uint32       // 真实动态光源预算
	MeshSegments          MeshSegments // 地形/水面网格分段
	EnableNormalMaps      bool         // 法线贴图
	EnableReflections     bool         // 水面反射
	EnableVertexAnimation bool         // 顶点动画（水波、植被摆动）
}

// tierTable 等级 → 档案 查找表
//
// 每一行在所有字段上不低于上一行（单调性），由 TestTierMonotonic 守护。
var tierTable = [tierCount]QualityProfile{
	TierMinimal: {
		Tier:            TierMinimal,
		MaxEntities:     48,
		MaxActiveLights: 0,
		MeshSegments:    MeshSegments{W: 16, H: 12},
	},
	TierLow: {
		Tier:                  TierLow,
		MaxEntities:           96,
		MaxActiveLights:       8,
		MeshSegments:          MeshSegments{W: 32, H: 24},
		EnableVertexAnimation: true,
	},
	TierMedium: {
		Tier:                  TierMedium,
		MaxEntities:           160,
		MaxActiveLights:       20,
		MeshSegments:          MeshSegments{W: 48, H: 32},
		EnableNormalMaps:      true,
		EnableVertexAnimation: true,
	},
	TierHigh: {
		Tier:                  TierHigh,
		MaxEntities:           240,
		MaxActiveLights:       40,
		MeshSegments:          MeshSegments{W: 64, H: 48},
		EnableNormalMaps:      true,
		EnableReflections:     true,
		EnableVertexAnimation: true,
	},
	TierUltra: {
		Tier:                  TierUltra,
		MaxEntities:           320,
		MaxActiveLights:       64,
		MeshSegments:          MeshSegments{W: 96, H: 64},
		EnableNormalMaps:      true,
		EnableReflections:     true,
		EnableVertexAnimation: true,
	},
}

// ProfileFor 返回指定等级的质量档案
// 无效等级（包括 TierAuto）回退到最保守的 TierMinimal
func ProfileFor(tier QualityTier) QualityProfile {
	if !tier.Valid() {
		return tierTable[TierMinimal]
	}
	return tierTable[tier]
}

// AllTiers 返回五个具体等级（从低到高），供遍历测试和校验工具使用
func AllTiers() []QualityTier {
	return []QualityTier{TierMinimal, TierLow, TierMedium, TierHigh, TierUltra}
}
