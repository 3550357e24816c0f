package firefly

import (
	"testing"
)

// TestBudgetSelectionBound 测试选中数量不超过预算
func TestBudgetSelectionBound(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		budget  uint32
		wantLen int
	}{
		{"常规比例", 100, 20, 20},
		{"预算为零", 100, 0, 0},
		{"零实体", 0, 20, 0},
		{"预算超实体数钳位", 10, 64, 10},
		{"预算等于实体数", 16, 16, 16},
		{"单实体", 1, 1, 1},
	}

	tuning := testTuning()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(tt.n, tuning, nil, 21)
			system := NewBudgetSystem(store, tuning, tt.budget, nil)

			got := system.Reselect(0)
			if got != tt.wantLen {
				t.Errorf("Reselect 选中 %d 个, 期望 %d", got, tt.wantLen)
			}
			if len(system.Selection()) != tt.wantLen {
				t.Errorf("Selection() 长度 %d, 期望 %d", len(system.Selection()), tt.wantLen)
			}
		})
	}
}

// TestBudgetSelectionDistinct 测试选中索引互不重复
func TestBudgetSelectionDistinct(t *testing.T) {
	tuning := testTuning()
	// 刻意取 N 不被 B 整除的别扭比例
	for _, shape := range []struct{ n, b int }{{103, 20}, {7, 3}, {97, 13}, {100, 20}} {
		store := NewStore(shape.n, tuning, nil, 8)
		system := NewBudgetSystem(store, tuning, uint32(shape.b), nil)

		for step := 0; step < 30; step++ {
			system.Reselect(float64(step) * tuning.ReselectInterval)
			seen := make(map[int]bool)
			for _, idx := range system.Selection() {
				if seen[idx] {
					t.Fatalf("N=%d B=%d step=%d: 索引 %d 重复选中", shape.n, shape.b, step, idx)
				}
				if idx < 0 || idx >= shape.n {
					t.Fatalf("N=%d B=%d step=%d: 索引 %d 越界", shape.n, shape.b, step, idx)
				}
				seen[idx] = true
			}
		}
	}
}

// TestBudgetCoverage 测试覆盖性：连续 ceil(N/B) 次重选覆盖所有索引
//
// 这是对整除截断欠覆盖问题的精确修正：分数步长把余数摊进走步，
// 偏移轮转整个余数环，因此覆盖是确定性的。
func TestBudgetCoverage(t *testing.T) {
	tuning := testTuning()
	shapes := []struct{ n, b int }{
		{100, 20}, // 整除
		{103, 20}, // 有余数（遗留算法会漏掉尾部索引）
		{97, 13},
		{48, 8},
		{320, 64},
		{7, 3},
	}

	for _, shape := range shapes {
		store := NewStore(shape.n, tuning, nil, 15)
		system := NewBudgetSystem(store, tuning, uint32(shape.b), nil)

		period := (shape.n + shape.b - 1) / shape.b
		covered := make([]bool, shape.n)
		for step := 0; step < period; step++ {
			system.Reselect(float64(step) * tuning.ReselectInterval)
			for _, idx := range system.Selection() {
				covered[idx] = true
			}
		}

		for idx, ok := range covered {
			if !ok {
				t.Errorf("N=%d B=%d: 索引 %d 在 %d 次重选内未被覆盖", shape.n, shape.b, idx, period)
			}
		}
	}
}

// TestBudgetTargetsInRange 测试目标亮度始终落在 [0, 1]
func TestBudgetTargetsInRange(t *testing.T) {
	tuning := testTuning()
	store := NewStore(150, tuning, nil, 33)
	viewpoint := func() (float64, float64, float64) { return 0, 10, 0 }
	system := NewBudgetSystem(store, tuning, 40, viewpoint)

	for step := 0; step < 50; step++ {
		system.Reselect(float64(step) * 0.7)
		for i := 0; i < store.Count(); i++ {
			target := store.TargetIntensity(i)
			if target < 0 || target > 1 {
				t.Fatalf("step=%d 实体 %d 目标亮度越界: %v", step, i, target)
			}
		}
	}
}

// TestBudgetUnselectedTargetsZero 测试落选实体的目标亮度归零
func TestBudgetUnselectedTargetsZero(t *testing.T) {
	tuning := testTuning()
	store := NewStore(60, tuning, nil, 9)
	system := NewBudgetSystem(store, tuning, 10, nil)

	system.Reselect(1.0)
	selected := make(map[int]bool)
	for _, idx := range system.Selection() {
		selected[idx] = true
	}

	for i := 0; i < store.Count(); i++ {
		if !selected[i] && store.TargetIntensity(i) != 0 {
			t.Errorf("落选实体 %d 目标亮度 %v, 期望 0", i, store.TargetIntensity(i))
		}
	}
}

// TestBudgetNilViewpointNoAttenuation 测试观察者缺失时不做距离衰减
func TestBudgetNilViewpointNoAttenuation(t *testing.T) {
	tuning := testTuning()
	store := NewStore(20, tuning, nil, 12)
	system := NewBudgetSystem(store, tuning, 20, nil)

	if got := system.attenuation(0); got != 1.0 {
		t.Errorf("attenuation = %v, 期望 1.0", got)
	}
}

// TestBudgetAttenuationFloor 测试距离衰减的下限与单调性
func TestBudgetAttenuationFloor(t *testing.T) {
	tuning := testTuning()
	store := NewStore(3, tuning, nil, 6)

	// 把三个实体摆到与观察者距离递增的位置上
	near := store.Get(0)
	near.X, near.Y, near.Z = 1, 0, 0
	store.Set(0, near)
	mid := store.Get(1)
	mid.X, mid.Y, mid.Z = 25, 0, 0
	store.Set(1, mid)
	far := store.Get(2)
	far.X, far.Y, far.Z = 500, 0, 0
	store.Set(2, far)

	viewpoint := func() (float64, float64, float64) { return 0, 0, 0 }
	system := NewBudgetSystem(store, tuning, 3, viewpoint)

	aNear := system.attenuation(0)
	aMid := system.attenuation(1)
	aFar := system.attenuation(2)

	if aNear != 1.0 {
		t.Errorf("近距离衰减 = %v, 期望 1.0", aNear)
	}
	if !(aNear >= aMid && aMid >= aFar) {
		t.Errorf("衰减不单调: %v, %v, %v", aNear, aMid, aFar)
	}
	// 再远也不会低于配置下限
	if aFar < tuning.FalloffFloor {
		t.Errorf("远距离衰减 %v 低于下限 %v", aFar, tuning.FalloffFloor)
	}
}

// TestBudgetSelectionSnapshot 测试 Selection 返回副本
func TestBudgetSelectionSnapshot(t *testing.T) {
	tuning := testTuning()
	store := NewStore(30, tuning, nil, 18)
	system := NewBudgetSystem(store, tuning, 10, nil)

	system.Reselect(0)
	a := system.Selection()
	b := system.Selection()
	if len(a) == 0 {
		t.Fatal("期望非空选择")
	}

	a[0] = -999
	if b[0] == -999 || system.Selection()[0] == -999 {
		t.Error("修改返回的切片不应影响内部选择")
	}
}
