package quality

import "testing"

// TestTierMonotonic 测试分级表的单调性
//
// 对于任意相邻等级 T1 < T2，profile(T2) 的每个数值字段都必须
// >= profile(T1)，每个布尔开关也必须 >=（false < true）。
func TestTierMonotonic(t *testing.T) {
	boolGE := func(hi, lo bool) bool {
		// false < true：只要低等级开了，高等级就必须开
		return hi || !lo
	}

	tiers := AllTiers()
	for i := 1; i < len(tiers); i++ {
		lo := ProfileFor(tiers[i-1])
		hi := ProfileFor(tiers[i])

		t.Run(lo.Tier.String()+"_vs_"+hi.Tier.String(), func(t *testing.T) {
			if hi.MaxEntities < lo.MaxEntities {
				t.Errorf("MaxEntities 不单调: %d < %d", hi.MaxEntities, lo.MaxEntities)
			}
			if hi.MaxActiveLights < lo.MaxActiveLights {
				t.Errorf("MaxActiveLights 不单调: %d < %d", hi.MaxActiveLights, lo.MaxActiveLights)
			}
			if hi.MeshSegments.W < lo.MeshSegments.W || hi.MeshSegments.H < lo.MeshSegments.H {
				t.Errorf("MeshSegments 不单调: %+v < %+v", hi.MeshSegments, lo.MeshSegments)
			}
			if !boolGE(hi.EnableNormalMaps, lo.EnableNormalMaps) {
				t.Error("EnableNormalMaps 不单调")
			}
			if !boolGE(hi.EnableReflections, lo.EnableReflections) {
				t.Error("EnableReflections 不单调")
			}
			if !boolGE(hi.EnableVertexAnimation, lo.EnableVertexAnimation) {
				t.Error("EnableVertexAnimation 不单调")
			}
		})
	}
}

// TestProfileInvariant 测试每个档案自身的不变量
func TestProfileInvariant(t *testing.T) {
	for _, tier := range AllTiers() {
		profile := ProfileFor(tier)
		if profile.Tier != tier {
			t.Errorf("ProfileFor(%s).Tier = %s", tier, profile.Tier)
		}
		// 光源预算不能超过实体数量
		if profile.MaxActiveLights > profile.MaxEntities {
			t.Errorf("%s: MaxActiveLights(%d) > MaxEntities(%d)",
				tier, profile.MaxActiveLights, profile.MaxEntities)
		}
	}
}

// TestProfileForInvalidTier 测试非法等级回退到 TierMinimal
func TestProfileForInvalidTier(t *testing.T) {
	tests := []struct {
		name string
		tier QualityTier
	}{
		{"TierAuto", TierAuto},
		{"负数越界", QualityTier(-7)},
		{"正数越界", QualityTier(99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := ProfileFor(tt.tier)
			if profile.Tier != TierMinimal {
				t.Errorf("ProfileFor(%d).Tier = %s, 期望 minimal", tt.tier, profile.Tier)
			}
		})
	}
}

// TestTierFromName 测试等级名称解析
func TestTierFromName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected QualityTier
		ok       bool
	}{
		{"minimal", "minimal", TierMinimal, true},
		{"low", "low", TierLow, true},
		{"medium", "medium", TierMedium, true},
		{"high", "high", TierHigh, true},
		{"ultra", "ultra", TierUltra, true},
		{"未知名称", "potato", TierAuto, false},
		{"空字符串", "", TierAuto, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := TierFromName(tt.input)
			if tier != tt.expected || ok != tt.ok {
				t.Errorf("TierFromName(%q) = (%s, %v), 期望 (%s, %v)",
					tt.input, tier, ok, tt.expected, tt.ok)
			}
		})
	}
}

// TestTierString 测试名称与解析互为逆运算
func TestTierString(t *testing.T) {
	for _, tier := range AllTiers() {
		parsed, ok := TierFromName(tier.String())
		if !ok || parsed != tier {
			t.Errorf("TierFromName(%q) = (%s, %v)", tier.String(), parsed, ok)
		}
	}
}
