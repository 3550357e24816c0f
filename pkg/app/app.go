// Package app 提供观星台演示的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：读取设置、推导质量档案、
// 生成小岛地形，然后把萤火虫调度器和渲染系统装配成一个实现
// ebiten.Game 接口的应用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/quasilyte/gdata/v2"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/firefly"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/game"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/quality"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/systems"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/terrain"
)

// nightSky 夜空底色
var nightSky = color.RGBA{R: 6, G: 9, B: 22, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Tier 质量等级覆盖（如 "low"、"ultra"），为空则按设置与设备信号推导
	Tier string
	// Seed 萤火虫布局种子，0 表示使用默认种子
	Seed int64
	// TuningPath 可选的调参 YAML 文件路径，为空则使用内置默认值
	TuningPath string
}

// App 是观星台演示的核心包装器，实现 ebiten.Game 接口
type App struct {
	scheduler  *firefly.Scheduler
	camera     *systems.OrbitCamera
	glow       *systems.GlowRenderSystem
	reflection *systems.ReflectionRenderSystem
	settings   *game.SettingsManager
	verbose    bool
}

// NewApp 创建并初始化观星台演示
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 打开 gdata 存储；失败时设置进入降级模式（仅内存）
	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "megameal_observatory",
	})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}

	// 持久化设置里的详细日志开关等同于 -verbose
	verbose := cfg.Verbose || settingsManager.GetSettings().Verbose
	if verbose && !cfg.Verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	}

	// 加载调参配置（缺失文件回退默认值）
	tuning, err := config.LoadFireflyTuning(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("调参配置加载失败: %w", err)
	}

	// 推导质量档案：命令行 > 环境变量 > 持久化设置 > 自动分级
	profile := resolveProfile(cfg.Tier, settingsManager)
	log.Printf("[App] 质量档案: %s (实体 %d, 光源预算 %d)",
		profile.Tier, profile.MaxEntities, profile.MaxActiveLights)

	// 小岛地形：调度器与渲染共享同一个高度场
	island := terrain.NewIsland(terrain.DefaultIslandConfig())

	// 镜头既是投影来源也是调度器的观察者位置
	camera := systems.NewOrbitCamera(
		float64(config.GameWindowWidth), float64(config.GameWindowHeight))

	glow := systems.NewGlowRenderSystem(camera)

	reflectionsOn := profile.EnableReflections && settingsManager.GetSettings().Reflections
	reflection := systems.NewReflectionRenderSystem(camera, reflectionsOn, 0.0)

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	scheduler, err := firefly.New(profile, tuning,
		firefly.WithHeightFunc(island.HeightAt),
		firefly.WithViewpoint(camera.Position),
		firefly.WithLightSink(glow.OnLights),
		firefly.WithReflectionSink(reflection.OnLights),
		firefly.WithSeed(seed),
		firefly.WithDiagnostics(func(event string, count int) {
			log.Printf("[App] diag %s: %d", event, count)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("调度器初始化失败: %w", err)
	}

	return &App{
		scheduler:  scheduler,
		camera:     camera,
		glow:       glow,
		reflection: reflection,
		settings:   settingsManager,
		verbose:    verbose,
	}, nil
}

// resolveProfile 按优先级解析质量档案
func resolveProfile(tierFlag string, sm *game.SettingsManager) quality.QualityProfile {
	override := quality.TierAuto

	if tierFlag != "" {
		if tier, ok := quality.TierFromName(tierFlag); ok {
			override = tier
		} else {
			log.Printf("[App] 忽略非法的 -tier 值: %q", tierFlag)
		}
	}
	if override == quality.TierAuto {
		if tier, ok := quality.TierFromEnv(); ok {
			override = tier
		}
	}
	if override == quality.TierAuto {
		override = sm.QualityOverrideTier()
	}

	return quality.Classify(quality.Signals{
		Platform: platformCategory(),
		CPUCores: runtime.NumCPU(),
		Override: override,
	})
}

// platformCategory 把 GOOS 映射为分级器的平台类别
func platformCategory() string {
	switch runtime.GOOS {
	case "android", "ios":
		return "mobile"
	case "js":
		return "tablet"
	default:
		return "desktop"
	}
}

// Update 推进模拟
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	deltaTime := 1.0 / 60.0
	a.camera.Update(deltaTime)
	a.scheduler.Update(deltaTime)
	return nil
}

// Draw 绘制当前帧
// 倒影先画，辉光叠在其上
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(nightSky)
	a.reflection.Draw(screen)
	a.glow.Draw(screen)

	if a.verbose {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("tier: %s  lights: %d",
				a.scheduler.Profile().Tier, a.glow.LightCount()),
			8, 8)
	}
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// SettingsManager 返回设置管理器
// 用于在退出时保存设置
func (a *App) SettingsManager() *game.SettingsManager {
	return a.settings
}

// Dispose 销毁应用持有的调度器
func (a *App) Dispose() {
	a.scheduler.Dispose()
}
