package systems

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/firefly"
)

// glowTextureSize 辉光贴图边长（像素）
const glowTextureSize = 64

// GlowRenderSystem 萤火虫辉光渲染系统
//
// 调度器发布光源快照的规范接收者。把收到的三维光源投影到屏幕，
// 按深度从远到近排序后用加法混合批量绘制辉光面片。
//
// 纯消费者：只读取快照，不回写调度器的任何状态。
type GlowRenderSystem struct {
	camera *OrbitCamera
	lights []firefly.LightDescriptor

	glowImage *ebiten.Image

	// 预分配的顶点与索引缓冲，逐帧复用避免分配
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewGlowRenderSystem 创建辉光渲染系统
func NewGlowRenderSystem(camera *OrbitCamera) *GlowRenderSystem {
	return &GlowRenderSystem{
		camera:    camera,
		glowImage: newGlowTexture(glowTextureSize),
		vertices:  make([]ebiten.Vertex, 0, 256),
		indices:   make([]uint16, 0, 384),
	}
}

// OnLights 光源快照接收回调
// 作为 firefly.SinkFunc 注入调度器；快照本身已与内部状态隔离
func (s *GlowRenderSystem) OnLights(lights []firefly.LightDescriptor) {
	s.lights = lights
}

// Draw 绘制当前帧的所有辉光
func (s *GlowRenderSystem) Draw(screen *ebiten.Image) {
	if len(s.lights) == 0 {
		return
	}

	type projected struct {
		sx, sy, depth float64
		size          float64
		light         firefly.LightDescriptor
	}
	visible := make([]projected, 0, len(s.lights))

	for _, l := range s.lights {
		sx, sy, depth, ok := s.camera.Project(l.X, l.Y, l.Z)
		if !ok {
			continue
		}
		// 光照半径透视缩放决定面片大小
		size := l.Range / depth * s.camera.FocalLength
		visible = append(visible, projected{sx: sx, sy: sy, depth: depth, size: size, light: l})
	}

	// 画家算法：从远到近
	sort.Slice(visible, func(a, b int) bool {
		return visible[a].depth > visible[b].depth
	})

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for _, p := range visible {
		half := float32(p.size / 2)
		cx, cy := float32(p.sx), float32(p.sy)
		colR := float32(p.light.R * p.light.Intensity)
		colG := float32(p.light.G * p.light.Intensity)
		colB := float32(p.light.B * p.light.Intensity)

		base := uint16(len(s.vertices))
		s.vertices = append(s.vertices,
			ebiten.Vertex{DstX: cx - half, DstY: cy - half, SrcX: 0, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx + half, DstY: cy - half, SrcX: glowTextureSize, SrcY: 0, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx - half, DstY: cy + half, SrcX: 0, SrcY: glowTextureSize, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
			ebiten.Vertex{DstX: cx + half, DstY: cy + half, SrcX: glowTextureSize, SrcY: glowTextureSize, ColorR: colR, ColorG: colG, ColorB: colB, ColorA: 1},
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
	// 加法混合：辉光互相叠亮
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

// LightCount 返回最近一次收到的光源数量（调试叠层用）
func (s *GlowRenderSystem) LightCount() int {
	return len(s.lights)
}

// newGlowTexture 生成径向渐变辉光贴图
// 中心白、边缘透明的平方衰减圆斑，顶点色负责着色
func newGlowTexture(size int) *ebiten.Image {
	pixels := make([]byte, size*size*4)
	center := float64(size-1) / 2
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			dx := (float64(px) - center) / center
			dy := (float64(py) - center) / center
			d2 := dx*dx + dy*dy
			v := 1.0 - d2
			if v < 0 {
				v = 0
			}
			v = v * v
			b := byte(v * 255)
			o := (py*size + px) * 4
			pixels[o+0] = b
			pixels[o+1] = b
			pixels[o+2] = b
			pixels[o+3] = b
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pixels)
	return img
}
