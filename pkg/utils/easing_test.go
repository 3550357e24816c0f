package utils

import (
	"math"
	"testing"
)

// TestLerp 测试线性插值函数
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a        float64
		b        float64
		t        float64
		expected float64
	}{
		{"起点", 0.0, 100.0, 0.0, 0.0},
		{"中点", 0.0, 100.0, 0.5, 50.0},
		{"终点", 0.0, 100.0, 1.0, 100.0},
		{"负数范围", -50.0, 50.0, 0.5, 0.0},
		{"逆向范围", 100.0, 0.0, 0.5, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lerp(tt.a, tt.b, tt.t)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, result, tt.expected)
			}
		})
	}
}

// TestClamp 测试范围限制函数
func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		lo       float64
		hi       float64
		expected float64
	}{
		{"范围内", 0.5, 0.0, 1.0, 0.5},
		{"低于下界", -0.2, 0.0, 1.0, 0.0},
		{"高于上界", 1.7, 0.0, 1.0, 1.0},
		{"等于下界", 0.0, 0.0, 1.0, 0.0},
		{"等于上界", 1.0, 0.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clamp(tt.v, tt.lo, tt.hi)
			if result != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, 期望 %v", tt.v, tt.lo, tt.hi, result, tt.expected)
			}
		})
	}
}

// TestSmoothStep 测试平滑阶梯函数
func TestSmoothStep(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{"下边界之前", 5.0, 0.0},
		{"下边界", 10.0, 0.0},
		{"中点", 25.0, 0.5},
		{"上边界", 40.0, 1.0},
		{"上边界之后", 100.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SmoothStep(10.0, 40.0, tt.v)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("SmoothStep(10, 40, %v) = %v, 期望 %v", tt.v, result, tt.expected)
			}
		})
	}

	// 单调性：输入增大时输出不应减小
	t.Run("单调递增", func(t *testing.T) {
		prev := -1.0
		for v := 0.0; v <= 50.0; v += 0.5 {
			cur := SmoothStep(10.0, 40.0, v)
			if cur < prev {
				t.Fatalf("SmoothStep 在 v=%v 处不单调：%v < %v", v, cur, prev)
			}
			prev = cur
		}
	})

	// 退化区间：edge1 <= edge0 时退化为硬阈值
	t.Run("退化区间", func(t *testing.T) {
		if got := SmoothStep(5.0, 5.0, 4.0); got != 0.0 {
			t.Errorf("退化区间下界：got %v, 期望 0", got)
		}
		if got := SmoothStep(5.0, 5.0, 6.0); got != 1.0 {
			t.Errorf("退化区间上界：got %v, 期望 1", got)
		}
	})
}

// TestEaseInOutCubic 测试三次方缓入缓出函数
func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.5},
		{"终点", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseInOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseInOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}
