// verify_budget 无头校验工具
//
// 对每个质量等级运行若干模拟分钟的萤火虫调度器（60fps 固定步长），
// 在线检查调度器的核心不变量：
//
//	1. 预算约束   —— 发布的光源数量永不超过 MaxActiveLights
//	2. 范围约束   —— 目标/当前亮度始终落在 [0, 1] 且有限
//	3. 淡变连续   —— 当前亮度的单帧变化量不超过 dt*FadeSpeed
//	4. 周期覆盖   —— 预算非零时每只萤火虫在整个周期内至少被选中一次
//	5. 地形钳位   —— 实体高度永不低于地面加最小离地间隙
//
// 任一违例立即报告并以非零码退出。
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/firefly"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/quality"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/terrain"
)

var (
	duration = flag.Float64("duration", 120.0, "每个等级的模拟时长（秒）")
	seed     = flag.Int64("seed", 1, "萤火虫布局种子")
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
)

const deltaTime = 1.0 / 60.0

// tierReport 单个等级的校验统计
type tierReport struct {
	tier       quality.QualityTier
	frames     int
	publishes  int
	maxLights  int
	violations []string
}

func (r *tierReport) violate(format string, args ...interface{}) {
	if len(r.violations) < 10 {
		r.violations = append(r.violations, fmt.Sprintf(format, args...))
	} else if len(r.violations) == 10 {
		r.violations = append(r.violations, "...")
	}
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetFlags(0)
	}

	tuning := config.DefaultFireflyTuning()
	island := terrain.NewIsland(terrain.DefaultIslandConfig())

	failed := false
	for _, tier := range quality.AllTiers() {
		report := runTier(tier, tuning, island)

		status := "OK"
		if len(report.violations) > 0 {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("[%s] %-8s  帧 %d  发布 %d  峰值光源 %d/%d\n",
			status, tier, report.frames, report.publishes,
			report.maxLights, quality.ProfileFor(tier).MaxActiveLights)
		for _, v := range report.violations {
			fmt.Printf("       违例: %s\n", v)
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("所有等级校验通过")
}

// runTier 对单个等级跑完整的模拟并收集违例
func runTier(tier quality.QualityTier, tuning *config.FireflyTuning, island *terrain.Island) *tierReport {
	profile := quality.ProfileFor(tier)
	report := &tierReport{tier: tier}

	scheduler, err := firefly.New(profile, tuning,
		firefly.WithHeightFunc(island.HeightAt),
		firefly.WithViewpoint(func() (float64, float64, float64) {
			return 40.0, 25.0, 40.0
		}),
		firefly.WithLightSink(func(lights []firefly.LightDescriptor) {
			report.publishes++
			if len(lights) > report.maxLights {
				report.maxLights = len(lights)
			}
			if len(lights) > int(profile.MaxActiveLights) {
				report.violate("发布 %d 个光源，超出预算 %d", len(lights), profile.MaxActiveLights)
			}
		}),
		firefly.WithSeed(*seed),
	)
	if err != nil {
		report.violate("构造失败: %v", err)
		return report
	}
	defer scheduler.Dispose()

	store := scheduler.Store()
	n := store.Count()

	// 上一帧的当前亮度，用于淡变连续性检查
	prev := make([]float64, n)
	// 覆盖检查：整个周期内每个索引至少被选中一次
	covered := make([]bool, n)

	frames := int(*duration / deltaTime)
	fadeBound := deltaTime*tuning.FadeSpeed + 1e-9

	for f := 0; f < frames; f++ {
		scheduler.Update(deltaTime)
		report.frames++

		for _, idx := range scheduler.Selection() {
			covered[idx] = true
		}

		for i := 0; i < n; i++ {
			target := store.TargetIntensity(i)
			current := store.CurrentIntensity(i)

			if !inUnitRange(target) {
				report.violate("帧 %d 实体 %d 目标亮度越界: %v", f, i, target)
			}
			if !inUnitRange(current) {
				report.violate("帧 %d 实体 %d 当前亮度越界: %v", f, i, current)
			}
			if math.Abs(current-prev[i]) > fadeBound {
				report.violate("帧 %d 实体 %d 亮度跳变 %v 超出 %v",
					f, i, math.Abs(current-prev[i]), fadeBound)
			}
			prev[i] = current

			fly := store.Get(i)
			floor := island.HeightAt(fly.X, fly.Z) + tuning.MinClearance
			if fly.Y < floor-1e-9 {
				report.violate("帧 %d 实体 %d 高度 %v 低于地面钳位 %v", f, i, fly.Y, floor)
			}
		}
	}

	// 模拟时长覆盖至少一个完整周期时才检查覆盖性
	if profile.MaxActiveLights > 0 && *duration >= tuning.CycleDuration {
		missed := 0
		for i := 0; i < n; i++ {
			if !covered[i] {
				missed++
			}
		}
		if missed > 0 {
			report.violate("%d/%d 只萤火虫整个周期内从未被选中", missed, n)
		}
	}

	return report
}

// inUnitRange 判断亮度是否落在 [0, 1] 且有限
func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0.0 && v <= 1.0
}
