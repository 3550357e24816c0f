package utils

import "math"

// 插值与缓动函数
//
// 这些函数是淡入淡出、距离衰减和镜头动画的数学基础。
// 所有归一化函数接受并返回 [0, 1] 范围内的值。

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi] 范围内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1] 范围内
func Clamp01(v float64) float64 {
	return Clamp(v, 0.0, 1.0)
}

// SmoothStep 平滑阶梯函数
// 在 edge0 和 edge1 之间做三次平滑过渡：
//
//	v <= edge0 返回 0
//	v >= edge1 返回 1
//	中间区域返回 3t² - 2t³（一阶导数在两端为 0）
//
// 用于距离衰减等需要单调且平滑的过渡场景。
func SmoothStep(edge0, edge1, v float64) float64 {
	if edge1 <= edge0 {
		// 退化区间：视为硬阈值
		if v < edge0 {
			return 0.0
		}
		return 1.0
	}
	t := Clamp01((v - edge0) / (edge1 - edge0))
	return t * t * (3.0 - 2.0*t)
}

// EaseInOutCubic 三次方缓入缓出
// 特点：开始慢，中间快，结束慢（用于镜头高度的呼吸动画）
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
