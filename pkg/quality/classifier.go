package quality

import (
	"log"
	"os"
)

// Signals 设备分级的输入信号
//
// 所有字段都是可选的：零值（空字符串、0、TierAuto）表示"未知"，
// 分级永远不会因为缺失信号而失败，只会向保守方向回退。
type Signals struct {
	// Platform 粗粒度平台类别："mobile"、"tablet"、"desktop"、"workstation"
	// 未知或空字符串回退到 TierMinimal
	Platform string

	// CPUCores 逻辑 CPU 核心数，0 表示未知
	// 核心数偏低时在平台基准上降一级
	CPUCores int

	// Override 显式等级覆盖（来自设置或调试参数）
	// TierAuto 表示不覆盖
	Override QualityTier
}

// TierEmulateEnv 环境变量名：本地调试时强制指定等级
// 取值为等级名称（如 "low"、"ultra"），非法值被忽略
const TierEmulateEnv = "MEGAMEAL_TIER"

// Classify 根据输入信号推导质量档案
//
// 纯函数：相同的 Signals 总是得到相同的档案，无副作用。
// 分级规则：
//  1. 显式覆盖优先（Override 为具体等级时直接查表）
//  2. 否则按平台类别取基准等级
//  3. 核心数已知且 <= 2 时，在基准上降一级（不低于 TierMinimal）
//
// 未知平台回退到 TierMinimal（宁可保守，不可失败）。
func Classify(signals Signals) QualityProfile {
	if signals.Override.Valid() {
		return ProfileFor(signals.Override)
	}

	var base QualityTier
	switch signals.Platform {
	case "mobile":
		base = TierLow
	case "tablet":
		base = TierMedium
	case "desktop":
		base = TierHigh
	case "workstation":
		base = TierUltra
	default:
		// 未知平台：最保守等级
		base = TierMinimal
	}

	// 核心数偏低的设备降一级
	if signals.CPUCores > 0 && signals.CPUCores <= 2 && base > TierMinimal {
		base--
	}

	return ProfileFor(base)
}

// TierFromEnv 读取环境变量中的等级覆盖
// 未设置或非法时返回 TierAuto 和 false
func TierFromEnv() (QualityTier, bool) {
	name := os.Getenv(TierEmulateEnv)
	if name == "" {
		return TierAuto, false
	}
	tier, ok := TierFromName(name)
	if !ok {
		log.Printf("[Quality] 忽略非法的 %s 值: %q", TierEmulateEnv, name)
		return TierAuto, false
	}
	return tier, true
}

// Classifier 带缓存的分级器
//
// 缓存仅用于在等级变化时发出一次诊断事件，分级本身仍由纯函数
// Classify 完成。诊断回调可为 nil。
type Classifier struct {
	last       QualityProfile
	classified bool
	onChange   func(from, to QualityTier)
}

// NewClassifier 创建分级器
//
// 参数：
//   - onChange: 等级变化时的诊断回调，可为 nil
func NewClassifier(onChange func(from, to QualityTier)) *Classifier {
	return &Classifier{onChange: onChange}
}

// Classify 推导档案并在等级变化时触发诊断
func (c *Classifier) Classify(signals Signals) QualityProfile {
	profile := Classify(signals)
	if c.classified && profile.Tier != c.last.Tier {
		log.Printf("[Quality] 等级变化: %s -> %s (实体 %d, 光源预算 %d)",
			c.last.Tier, profile.Tier, profile.MaxEntities, profile.MaxActiveLights)
		if c.onChange != nil {
			c.onChange(c.last.Tier, profile.Tier)
		}
	}
	c.last = profile
	c.classified = true
	return profile
}

// Last 返回最近一次推导的档案
// 尚未分级时返回 TierMinimal 档案
func (c *Classifier) Last() QualityProfile {
	if !c.classified {
		return ProfileFor(TierMinimal)
	}
	return c.last
}
