package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// 窗口常量
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 960
	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 540
)

// FireflyTuning 萤火虫调度器调参配置
//
// 包含实体放置、漂移运动、光照预算选择、淡入淡出和发布节流的
// 全部数值参数。默认值内置在代码中（DefaultFireflyTuning），
// 可通过 YAML 文件整体覆盖。
//
// 配置文件位置（可选）: data/firefly_tuning.yaml
type FireflyTuning struct {
	// ---- 放置参数 ----

	// PlacementRadiusMin 放置环带内半径（米）
	PlacementRadiusMin float64 `yaml:"placementRadiusMin"`
	// PlacementRadiusMax 放置环带外半径（米）
	PlacementRadiusMax float64 `yaml:"placementRadiusMax"`
	// MinClearance 距地面的最小安全高度（米）
	MinClearance float64 `yaml:"minClearance"`
	// MaxClearance 距地面的最大悬浮高度（米）
	MaxClearance float64 `yaml:"maxClearance"`
	// IntensityMin 基础亮度下限
	IntensityMin float64 `yaml:"intensityMin"`
	// IntensityMax 基础亮度上限
	IntensityMax float64 `yaml:"intensityMax"`
	// LightRangeMin 光照半径下限（米）
	LightRangeMin float64 `yaml:"lightRangeMin"`
	// LightRangeMax 光照半径上限（米）
	LightRangeMax float64 `yaml:"lightRangeMax"`

	// ---- 漂移运动参数 ----

	// WanderSpeed 漂移相位推进速度（弧度/秒）
	WanderSpeed float64 `yaml:"wanderSpeed"`
	// WanderRadius 围绕锚点的水平游走半径（米）
	WanderRadius float64 `yaml:"wanderRadius"`
	// FloatAmpX 水平X方向浮动振幅（米）
	FloatAmpX float64 `yaml:"floatAmpX"`
	// FloatAmpY 垂直浮动振幅（米）
	FloatAmpY float64 `yaml:"floatAmpY"`
	// FloatAmpZ 水平Z方向浮动振幅（米）
	FloatAmpZ float64 `yaml:"floatAmpZ"`

	// ---- 光照预算选择参数 ----

	// ReselectInterval 重选节奏（秒）：每隔这么久重新挑选活跃子集
	ReselectInterval float64 `yaml:"reselectInterval"`
	// CycleDuration 完整周期时长（秒）：周期时钟在此处回绕
	CycleDuration float64 `yaml:"cycleDuration"`
	// WaveGroupSize 波浪包络的分组大小（每组共享一个相位偏移）
	WaveGroupSize int `yaml:"waveGroupSize"`
	// WaveSpeed 波浪包络的时间推进速度（弧度/秒）
	WaveSpeed float64 `yaml:"waveSpeed"`
	// WaveGroupPhaseGap 相邻分组之间的相位差（弧度）
	WaveGroupPhaseGap float64 `yaml:"waveGroupPhaseGap"`
	// FalloffStart 距离衰减起始距离（米）：比这更近不衰减
	FalloffStart float64 `yaml:"falloffStart"`
	// FalloffEnd 距离衰减结束距离（米）：比这更远衰减到下限
	FalloffEnd float64 `yaml:"falloffEnd"`
	// FalloffFloor 距离衰减下限：被选中的光永远不会纯因距离而完全熄灭
	FalloffFloor float64 `yaml:"falloffFloor"`

	// ---- 淡入淡出参数 ----

	// FadeSpeed 亮度逼近速度（1/秒）
	FadeSpeed float64 `yaml:"fadeSpeed"`
	// VisibilityEpsilon 可见性阈值：当前亮度低于此值的槽位不参与渲染
	VisibilityEpsilon float64 `yaml:"visibilityEpsilon"`

	// ---- 节流参数 ----

	// PublishEveryFrames 每隔多少帧执行一次重选与发布（K）
	PublishEveryFrames int `yaml:"publishEveryFrames"`
	// ReflectEveryPublishes 每隔多少次发布镜像一次到反射消费者（M）
	ReflectEveryPublishes int `yaml:"reflectEveryPublishes"`
}

// DefaultFireflyTuning 返回默认调参配置
//
// 这些数值针对 60fps 下 96~320 个实体的场景手工调校。
func DefaultFireflyTuning() *FireflyTuning {
	return &FireflyTuning{
		PlacementRadiusMin: 8.0,
		PlacementRadiusMax: 60.0,
		MinClearance:       0.8,
		MaxClearance:       3.5,
		IntensityMin:       0.6,
		IntensityMax:       1.0,
		LightRangeMin:      4.0,
		LightRangeMax:      7.0,

		WanderSpeed:  0.35,
		WanderRadius: 2.2,
		FloatAmpX:    0.3,
		FloatAmpY:    0.4,
		FloatAmpZ:    0.3,

		ReselectInterval:  4.0,
		CycleDuration:     60.0,
		WaveGroupSize:     4,
		WaveSpeed:         0.8,
		WaveGroupPhaseGap: math.Pi / 3.0,
		FalloffStart:      10.0,
		FalloffEnd:        45.0,
		FalloffFloor:      0.25,

		FadeSpeed:         2.0,
		VisibilityEpsilon: 0.01,

		PublishEveryFrames:    6,
		ReflectEveryPublishes: 4,
	}
}

// LoadFireflyTuning 加载调参配置文件
//
// 从指定路径加载 YAML 覆盖文件；文件不存在时返回默认配置（这是
// 正常情况，不是错误）。加载成功后执行 Validate 校验。
//
// 参数：
//   - path: YAML 文件路径
//
// 返回：
//   - *FireflyTuning: 配置实例
//   - error: 文件存在但解析或校验失败时返回错误
func LoadFireflyTuning(path string) (*FireflyTuning, error) {
	tuning := DefaultFireflyTuning()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// 覆盖文件可选，缺失时使用默认值
			return tuning, nil
		}
		return nil, fmt.Errorf("读取调参配置失败: %w", err)
	}

	if err := yaml.Unmarshal(data, tuning); err != nil {
		return nil, fmt.Errorf("解析调参配置失败: %w", err)
	}

	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("调参配置校验失败: %w", err)
	}

	return tuning, nil
}

// Validate 校验配置的数值合法性
//
// 拒绝 NaN、Inf 和负数参数（调度器构造时的显式错误条件之一），
// 并检查参数之间的结构约束。
func (t *FireflyTuning) Validate() error {
	numeric := map[string]float64{
		"placementRadiusMin": t.PlacementRadiusMin,
		"placementRadiusMax": t.PlacementRadiusMax,
		"minClearance":       t.MinClearance,
		"maxClearance":       t.MaxClearance,
		"intensityMin":       t.IntensityMin,
		"intensityMax":       t.IntensityMax,
		"lightRangeMin":      t.LightRangeMin,
		"lightRangeMax":      t.LightRangeMax,
		"wanderSpeed":        t.WanderSpeed,
		"wanderRadius":       t.WanderRadius,
		"floatAmpX":          t.FloatAmpX,
		"floatAmpY":          t.FloatAmpY,
		"floatAmpZ":          t.FloatAmpZ,
		"reselectInterval":   t.ReselectInterval,
		"cycleDuration":      t.CycleDuration,
		"waveSpeed":          t.WaveSpeed,
		"waveGroupPhaseGap":  t.WaveGroupPhaseGap,
		"falloffStart":       t.FalloffStart,
		"falloffEnd":         t.FalloffEnd,
		"falloffFloor":       t.FalloffFloor,
		"fadeSpeed":          t.FadeSpeed,
		"visibilityEpsilon":  t.VisibilityEpsilon,
	}
	for name, v := range numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("参数 %s 非法: %v", name, v)
		}
		if v < 0 {
			return fmt.Errorf("参数 %s 不能为负: %v", name, v)
		}
	}

	if t.ReselectInterval == 0 {
		return fmt.Errorf("reselectInterval 不能为 0")
	}
	if t.CycleDuration < t.ReselectInterval {
		return fmt.Errorf("cycleDuration(%v) 不能小于 reselectInterval(%v)",
			t.CycleDuration, t.ReselectInterval)
	}
	if t.MaxClearance <= t.MinClearance {
		return fmt.Errorf("maxClearance(%v) 必须大于 minClearance(%v)",
			t.MaxClearance, t.MinClearance)
	}
	// 悬浮带必须容得下垂直浮动振幅，否则运动会把实体推出安全带
	if t.MaxClearance-t.MinClearance <= 2*t.FloatAmpY {
		return fmt.Errorf("悬浮带宽度(%v)必须大于垂直振幅的两倍(%v)",
			t.MaxClearance-t.MinClearance, 2*t.FloatAmpY)
	}
	if t.FalloffFloor > 1.0 {
		return fmt.Errorf("falloffFloor(%v) 不能大于 1", t.FalloffFloor)
	}
	if t.WaveGroupSize < 1 {
		return fmt.Errorf("waveGroupSize(%d) 必须 >= 1", t.WaveGroupSize)
	}
	if t.PublishEveryFrames < 1 {
		return fmt.Errorf("publishEveryFrames(%d) 必须 >= 1", t.PublishEveryFrames)
	}
	if t.ReflectEveryPublishes < 1 {
		return fmt.Errorf("reflectEveryPublishes(%d) 必须 >= 1", t.ReflectEveryPublishes)
	}

	return nil
}
