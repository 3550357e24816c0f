package systems

import (
	"math"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/utils"
)

// OrbitCamera 环绕镜头
//
// 绕场景原点缓慢环绕的观察镜头，兼作萤火虫调度器的观察者位置来源
// （距离衰减）和渲染层的投影来源。不含玩家输入：观星台演示里镜头
// 是自动巡航的。
type OrbitCamera struct {
	Distance     float64 // 环绕半径（米）
	BaseHeight   float64 // 基准高度（米）
	HeightSwing  float64 // 高度呼吸振幅（米）
	AngularSpeed float64 // 环绕角速度（弧度/秒）
	FocalLength  float64 // 投影焦距（像素）
	Near         float64 // 近裁剪面（米）

	ScreenW, ScreenH float64 // 逻辑屏幕尺寸（像素）

	angle   float64
	breathe float64
}

// NewOrbitCamera 创建环绕镜头
func NewOrbitCamera(screenW, screenH float64) *OrbitCamera {
	return &OrbitCamera{
		Distance:     70.0,
		BaseHeight:   24.0,
		HeightSwing:  6.0,
		AngularSpeed: 0.05,
		FocalLength:  500.0,
		Near:         0.5,
		ScreenW:      screenW,
		ScreenH:      screenH,
	}
}

// Update 推进镜头巡航
func (c *OrbitCamera) Update(dt float64) {
	c.angle += c.AngularSpeed * dt
	if c.angle >= 2*math.Pi {
		c.angle -= 2 * math.Pi
	}
	c.breathe += dt * 0.1
	if c.breathe >= 1.0 {
		c.breathe -= 1.0
	}
}

// Position 返回镜头的世界坐标
func (c *OrbitCamera) Position() (x, y, z float64) {
	// 高度做缓入缓出的往返呼吸
	t := c.breathe * 2.0
	if t > 1.0 {
		t = 2.0 - t
	}
	y = c.BaseHeight + c.HeightSwing*utils.EaseInOutCubic(t)
	return math.Cos(c.angle) * c.Distance, y, math.Sin(c.angle) * c.Distance
}

// Project 把世界坐标投影到屏幕
//
// 镜头始终看向原点。返回屏幕坐标、镜头空间深度和是否位于近裁剪面
// 之前（false 表示在镜头背后，不应绘制）。
func (c *OrbitCamera) Project(wx, wy, wz float64) (sx, sy, depth float64, ok bool) {
	ex, ey, ez := c.Position()

	// 视线基向量：forward 指向原点，up 取世界 Y
	fx, fy, fz := -ex, -ey, -ez
	fl := math.Sqrt(fx*fx + fy*fy + fz*fz)
	fx, fy, fz = fx/fl, fy/fl, fz/fl

	// right = forward × worldUp
	rx, ry, rz := fz, 0.0, -fx
	rl := math.Sqrt(rx*rx + ry*ry + rz*rz)
	if rl < 1e-12 {
		// 镜头正对天顶的退化姿态
		return 0, 0, 0, false
	}
	rx, ry, rz = rx/rl, ry/rl, rz/rl

	// up = right × forward
	ux := ry*fz - rz*fy
	uy := rz*fx - rx*fz
	uz := rx*fy - ry*fx

	// 世界坐标 → 镜头空间
	dx, dy, dz := wx-ex, wy-ey, wz-ez
	camX := dx*rx + dy*ry + dz*rz
	camY := dx*ux + dy*uy + dz*uz
	camZ := dx*fx + dy*fy + dz*fz

	if camZ < c.Near {
		return 0, 0, camZ, false
	}

	sx = c.ScreenW/2 + camX/camZ*c.FocalLength
	sy = c.ScreenH/2 - camY/camZ*c.FocalLength
	return sx, sy, camZ, true
}
