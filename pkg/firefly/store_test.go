package firefly

import (
	"math"
	"testing"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
)

// testTuning 返回测试用的调参配置
func testTuning() *config.FireflyTuning {
	return config.DefaultFireflyTuning()
}

// TestStoreClearanceBandAtCreation 测试创建时高度严格位于安全带内
func TestStoreClearanceBandAtCreation(t *testing.T) {
	tuning := testTuning()
	heightAt := func(x, z float64) float64 {
		return 2.0*math.Sin(x*0.1) + 1.5*math.Cos(z*0.13)
	}

	store := NewStore(200, tuning, heightAt, 42)

	for i := 0; i < store.Count(); i++ {
		f := store.Get(i)
		ground := heightAt(f.X, f.Z)
		lo := ground + tuning.MinClearance
		hi := ground + tuning.MaxClearance
		if !(f.Y > lo && f.Y < hi) {
			t.Fatalf("实体 %d 高度 %v 不在安全带 (%v, %v) 内", i, f.Y, lo, hi)
		}
	}
}

// TestStoreNilHeightFunc 测试缺失地形回调时高度相对 0 放置
func TestStoreNilHeightFunc(t *testing.T) {
	tuning := testTuning()
	store := NewStore(100, tuning, nil, 7)

	for i := 0; i < store.Count(); i++ {
		f := store.Get(i)
		if !(f.Y > tuning.MinClearance && f.Y < tuning.MaxClearance) {
			t.Fatalf("实体 %d 高度 %v 不在 (%v, %v) 内", i, f.Y, tuning.MinClearance, tuning.MaxClearance)
		}
	}
}

// TestStorePlacementRadius 测试锚点落在放置环带内
func TestStorePlacementRadius(t *testing.T) {
	tuning := testTuning()
	store := NewStore(150, tuning, nil, 3)

	// 位置 = 锚点 + 游走偏移，偏移以 WanderRadius 加浮动振幅为界
	slack := tuning.WanderRadius + tuning.FloatAmpX + tuning.FloatAmpZ
	for i := 0; i < store.Count(); i++ {
		f := store.Get(i)
		dist := math.Hypot(f.X, f.Z)
		if dist < tuning.PlacementRadiusMin-slack || dist > tuning.PlacementRadiusMax+slack {
			t.Fatalf("实体 %d 水平距离 %v 超出环带 [%v, %v]±%v",
				i, dist, tuning.PlacementRadiusMin, tuning.PlacementRadiusMax, slack)
		}
	}
}

// TestStoreDeterministicSeed 测试相同种子产生相同布局
func TestStoreDeterministicSeed(t *testing.T) {
	tuning := testTuning()
	a := NewStore(64, tuning, nil, 99)
	b := NewStore(64, tuning, nil, 99)

	for i := 0; i < a.Count(); i++ {
		if a.Get(i) != b.Get(i) {
			t.Fatalf("实体 %d 布局不可复现: %+v != %+v", i, a.Get(i), b.Get(i))
		}
	}
}

// TestStoreGetSetRoundTrip 测试按索引整体读写
func TestStoreGetSetRoundTrip(t *testing.T) {
	store := NewStore(8, testTuning(), nil, 1)

	want := Firefly{
		X: 1.5, Y: 2.5, Z: -3.0,
		R: 0.9, G: 0.8, B: 0.4,
		BaseIntensity: 0.75,
		Range:         5.5,
		CyclePhase:    1.1,
		WanderPhase:   2.2,
	}
	store.Set(3, want)

	if got := store.Get(3); got != want {
		t.Errorf("Get(3) = %+v, 期望 %+v", got, want)
	}
}

// TestStoreSlotInitialState 测试光槽初始全零
func TestStoreSlotInitialState(t *testing.T) {
	store := NewStore(32, testTuning(), nil, 5)
	for i := 0; i < store.Count(); i++ {
		if store.TargetIntensity(i) != 0 || store.CurrentIntensity(i) != 0 {
			t.Fatalf("槽位 %d 初始亮度非零: target=%v current=%v",
				i, store.TargetIntensity(i), store.CurrentIntensity(i))
		}
	}
}

// TestStoreNegativeCount 测试负数数量被钳位为 0
func TestStoreNegativeCount(t *testing.T) {
	store := NewStore(-5, testTuning(), nil, 1)
	if store.Count() != 0 {
		t.Errorf("Count() = %d, 期望 0", store.Count())
	}
}

// TestStoreDispose 测试销毁后实体表清空
func TestStoreDispose(t *testing.T) {
	store := NewStore(16, testTuning(), nil, 1)
	store.Dispose()
	if store.Count() != 0 {
		t.Errorf("销毁后 Count() = %d, 期望 0", store.Count())
	}
	if store.posX != nil || store.target != nil || store.current != nil {
		t.Error("销毁后内部数组应已释放")
	}
}
