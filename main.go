package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/app"
	"github.com/Greg-Aster/MegaMeal-sub002/pkg/config"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	tier    = flag.String("tier", "", "质量等级覆盖（minimal/low/medium/high/ultra）")
	seed    = flag.Int64("seed", 0, "萤火虫布局种子（0 使用默认）")
	tuning  = flag.String("tuning", "", "调参 YAML 文件路径（可选）")
)

func main() {
	flag.Parse()

	observatory, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Tier:       *tier,
		Seed:       *seed,
		TuningPath: *tuning,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer observatory.Dispose()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("观星台 - 萤火虫之夜")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(observatory); err != nil {
		log.Fatal(err)
	}

	// 退出时保存设置
	if err := observatory.SettingsManager().Save(); err != nil {
		log.Printf("[Main] 保存设置失败: %v", err)
	}
}
