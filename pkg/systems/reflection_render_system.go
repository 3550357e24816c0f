package systems

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/firefly"
)

// reflectionDim 反射辉光的亮度衰减系数
const reflectionDim = 0.35

// ReflectionRenderSystem 水面反射渲染系统
//
// 调度器的反射接收者：按更低的节奏收到光源镜像，把每个光源以
// 水平面为轴翻转后画成暗一档、略扁的辉光，模拟水面倒影。
// 只有质量档案开启 EnableReflections 时才绘制。
type ReflectionRenderSystem struct {
	camera     *OrbitCamera
	enabled    bool
	waterLevel float64
	lights     []firefly.LightDescriptor

	glowImage *ebiten.Image
	vertices  []ebiten.Vertex
	indices   []uint16
}

// NewReflectionRenderSystem 创建水面反射渲染系统
//
// 参数：
//   - camera: 与主渲染共享的镜头
//   - enabled: 是否启用（来自质量档案与用户设置的合取）
//   - waterLevel: 水平面高度（米）
func NewReflectionRenderSystem(camera *OrbitCamera, enabled bool, waterLevel float64) *ReflectionRenderSystem {
	return &ReflectionRenderSystem{
		camera:     camera,
		enabled:    enabled,
		waterLevel: waterLevel,
		glowImage:  newGlowTexture(glowTextureSize),
		vertices:   make([]ebiten.Vertex, 0, 128),
		indices:    make([]uint16, 0, 192),
	}
}

// OnLights 反射镜像接收回调
// 作为 firefly.SinkFunc 注入调度器的反射通道
func (s *ReflectionRenderSystem) OnLights(lights []firefly.LightDescriptor) {
	s.lights = lights
}

// Draw 绘制水面倒影
func (s *ReflectionRenderSystem) Draw(screen *ebiten.Image) {
	if !s.enabled || len(s.lights) == 0 {
		return
	}

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, l := range s.lights {
		// 水面以下的光不产生倒影
		if l.Y <= s.waterLevel {
			continue
		}
		// 以水平面为轴镜像
		my := 2*s.waterLevel - l.Y
		sx, sy, depth, ok := s.camera.Project(l.X, my, l.Z)
		if !ok {
			continue
		}

		size := l.Range / depth * s.camera.FocalLength
		halfW := float32(size / 2)
		halfH := float32(size / 2 * 0.6) // 倒影在纵向压扁
		cx, cy := float32(sx), float32(sy)

		intensity := l.Intensity * reflectionDim
		colR := float32(l.R * intensity)
		colG := float32(l.G * intensity)
		colB := float32(l.B * intensity)

		base := uint16(len(s.vertices))
		s.vertices = append(s.vertices,
			ebiten.Vertex{DstX: cx - halfW, DstY: cy - halfH, SrcX: 0, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx + halfW, DstY: cy - halfH, SrcX: glowTextureSize, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx - halfW, DstY: cy + halfH, SrcX: 0, SrcY: glowTextureSize, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx + halfW, DstY: cy + halfH, SrcX: glowTextureSize, SrcY: glowTextureSize, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
		)
		s.indices = append(s.indices,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	if len(s.vertices) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	op.Blend = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	screen.DrawTriangles(s.vertices, s.indices, s.glowImage, op)
}
