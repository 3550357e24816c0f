package firefly

import (
	"math"
	"math/rand"
	"testing"
)

// TestFadeNoTeleport 测试单帧亮度变化量以 dt*fadeSpeed 为界
// 这是活跃子集切换时不出现可见"跳变"的核心性质
func TestFadeNoTeleport(t *testing.T) {
	tuning := testTuning()
	store := NewStore(80, tuning, nil, 51)
	system := NewFadeSystem(store, tuning)

	rng := rand.New(rand.NewSource(1))
	const dt = 1.0 / 60.0
	bound := dt*tuning.FadeSpeed + 1e-9

	for frame := 0; frame < 600; frame++ {
		// 模拟重选：每 30 帧随机翻转一批目标
		if frame%30 == 0 {
			for i := 0; i < store.Count(); i++ {
				if rng.Float64() < 0.5 {
					store.target[i] = rng.Float64()
				} else {
					store.target[i] = 0
				}
			}
		}

		before := make([]float64, store.Count())
		copy(before, store.current)

		system.Update(dt)

		for i := 0; i < store.Count(); i++ {
			if delta := math.Abs(store.current[i] - before[i]); delta > bound {
				t.Fatalf("帧 %d 槽位 %d 亮度跳变 %v 超过上界 %v", frame, i, delta, bound)
			}
		}
	}
}

// TestFadeNeverOvershoots 测试逼近永不过冲
func TestFadeNeverOvershoots(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"常规帧间隔", 1.0 / 60.0},
		{"巨大帧间隔", 10.0}, // dt*fadeSpeed >> 1，系数钳位到 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := testTuning()
			store := NewStore(10, tuning, nil, 5)
			system := NewFadeSystem(store, tuning)

			store.target[0] = 0.8
			for frame := 0; frame < 200; frame++ {
				system.Update(tt.dt)
				if store.current[0] > 0.8+1e-12 {
					t.Fatalf("帧 %d 当前亮度 %v 冲过目标 0.8", frame, store.current[0])
				}
			}
			// 充分时间后应已收敛
			if store.current[0] < 0.79 {
				t.Errorf("未收敛到目标: %v", store.current[0])
			}
		})
	}
}

// TestFadeRangeInvariant 测试当前亮度始终有限且落在 [0, 1]
func TestFadeRangeInvariant(t *testing.T) {
	tuning := testTuning()
	store := NewStore(40, tuning, nil, 23)
	system := NewFadeSystem(store, tuning)

	rng := rand.New(rand.NewSource(2))
	for frame := 0; frame < 400; frame++ {
		if frame%17 == 0 {
			for i := range store.target {
				store.target[i] = rng.Float64()
			}
		}
		system.Update(1.0 / 60.0)
		for i := 0; i < store.Count(); i++ {
			cur := store.current[i]
			if math.IsNaN(cur) || cur < 0 || cur > 1 {
				t.Fatalf("槽位 %d 当前亮度越界: %v", i, cur)
			}
		}
	}
}

// TestFadeVisible 测试可见性阈值
func TestFadeVisible(t *testing.T) {
	tuning := testTuning()
	store := NewStore(4, tuning, nil, 3)
	system := NewFadeSystem(store, tuning)

	store.current[0] = 0.0
	store.current[1] = tuning.VisibilityEpsilon // 恰好等于阈值：不可见
	store.current[2] = tuning.VisibilityEpsilon * 1.5
	store.current[3] = 1.0

	expected := []bool{false, false, true, true}
	for i, want := range expected {
		if got := system.Visible(i); got != want {
			t.Errorf("Visible(%d) = %v, 期望 %v", i, got, want)
		}
	}
}

// TestFadeRetainsStateBelowEpsilon 测试低于阈值的槽位保留状态
// 槽位只是退出渲染集合，将来再次被选中时从残值继续淡入
func TestFadeRetainsStateBelowEpsilon(t *testing.T) {
	tuning := testTuning()
	store := NewStore(2, tuning, nil, 14)
	system := NewFadeSystem(store, tuning)

	store.current[0] = tuning.VisibilityEpsilon / 2
	system.Update(1.0 / 60.0)

	if store.current[0] == 0 {
		t.Error("低于阈值的槽位状态不应被清零")
	}
}
