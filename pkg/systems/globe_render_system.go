package systems

import (
	"image/color"

	"github.com/decker502/globe/pkg/components"
	"github.com/decker502/globe/pkg/config"
	"github.com/decker502/globe/pkg/ecs"
	"github.com/decker502/globe/pkg/types"
	"github.com/decker502/globe/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ImageSource 按资源 key 提供已加载的图片，未加载时返回 nil
type ImageSource interface {
	GetImage(key string) *ebiten.Image
}

// OverlayKind 目标浮层的绘制方式
type OverlayKind int

const (
	// OverlayNone 不绘制浮层
	OverlayNone OverlayKind = iota
	// OverlayPhoto 绘制目标照片
	OverlayPhoto
	// OverlayMarker 没有照片时绘制普通标记
	OverlayMarker
)

// lineSegment 屏幕空间线段
type lineSegment struct {
	x0, y0, x1, y1 float32
}

var (
	oceanColor       = color.RGBA{R: 18, G: 52, B: 96, A: 255}
	rimColor         = color.RGBA{R: 120, G: 180, B: 255, A: 255}
	graticuleColor   = color.RGBA{R: 80, G: 130, B: 190, A: 160}
	markerColor      = color.RGBA{R: 255, G: 210, B: 80, A: 255}
	targetColor      = color.RGBA{R: 255, G: 90, B: 70, A: 255}
	overlayRingColor = color.RGBA{R: 255, G: 255, B: 255, A: 230}
	labelColor       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

// GlobeRenderSystem 地球渲染系统
//
// 每帧只读地球实体的 ViewpointComponent / GlobeTransitionComponent 和
// 所有 DestinationMarkerComponent，用正交投影画出：
//   - 海洋圆盘和经纬网（背面部分隐藏）
//   - 目的地标记
//   - ZoomIn 开始后的目标浮层（照片，或无照片时的普通标记）
type GlobeRenderSystem struct {
	entityManager *ecs.EntityManager
	globeEntity   ecs.EntityID
	images        ImageSource
	face          text.Face

	centerX, centerY, radius float64
	graticule                [][]types.Location
}

// NewGlobeRenderSystem 创建地球渲染系统
//
// 参数：
//   - em: 实体管理器
//   - globeEntity: 地球实体
//   - images: 照片来源，可为 nil（所有目标都画普通标记）
//   - face: 标签字体，可为 nil（不画标签）
func NewGlobeRenderSystem(em *ecs.EntityManager, globeEntity ecs.EntityID, images ImageSource, face text.Face) *GlobeRenderSystem {
	return &GlobeRenderSystem{
		entityManager: em,
		globeEntity:   globeEntity,
		images:        images,
		face:          face,
		centerX:       config.GlobeCenterX,
		centerY:       config.GlobeCenterY,
		radius:        config.GlobeRadius,
		graticule:     BuildGraticule(config.GraticuleStepDegrees, config.GraticuleSegments),
	}
}

// BuildGraticule 生成经纬网折线（不含两极的纬线）
func BuildGraticule(stepDeg float64, segments int) [][]types.Location {
	var lines [][]types.Location

	// 纬线
	for lat := -90 + stepDeg; lat < 90; lat += stepDeg {
		line := make([]types.Location, 0, segments+1)
		for i := 0; i <= segments; i++ {
			lon := -180 + 360*float64(i)/float64(segments)
			line = append(line, types.Location{Latitude: lat, Longitude: lon})
		}
		lines = append(lines, line)
	}

	// 经线
	for lon := -180.0; lon < 180; lon += stepDeg {
		line := make([]types.Location, 0, segments+1)
		for i := 0; i <= segments; i++ {
			lat := -90 + 180*float64(i)/float64(segments)
			line = append(line, types.Location{Latitude: lat, Longitude: lon})
		}
		lines = append(lines, line)
	}

	return lines
}

// Draw 绘制地球
func (s *GlobeRenderSystem) Draw(screen *ebiten.Image) {
	vp, ok := ecs.GetComponent[*components.ViewpointComponent](s.entityManager, s.globeEntity)
	if !ok {
		return
	}
	tc, _ := ecs.GetComponent[*components.GlobeTransitionComponent](s.entityManager, s.globeEntity)

	r := float32(s.radius * vp.Scale)
	cx, cy := float32(s.centerX), float32(s.centerY)
	vector.DrawFilledCircle(screen, cx, cy, r, oceanColor, true)

	for _, line := range s.graticule {
		for _, seg := range s.visibleSegments(line, vp) {
			vector.StrokeLine(screen, seg.x0, seg.y0, seg.x1, seg.y1, 1, graticuleColor, true)
		}
	}
	vector.StrokeCircle(screen, cx, cy, r, 2, rimColor, true)

	s.drawMarkers(screen, vp, tc)

	if tc != nil {
		s.drawTargetOverlay(screen, vp, tc)
	}
}

// visibleSegments 把折线投影到屏幕，只保留两端都在正面的线段
func (s *GlobeRenderSystem) visibleSegments(line []types.Location, vp *components.ViewpointComponent) []lineSegment {
	var segments []lineSegment
	var px, py float64
	prevVisible := false
	for i, loc := range line {
		x, y, visible := utils.ProjectLocation(loc, vp.Rotation, vp.Scale, s.centerX, s.centerY, s.radius)
		if i > 0 && visible && prevVisible {
			segments = append(segments, lineSegment{float32(px), float32(py), float32(x), float32(y)})
		}
		px, py, prevVisible = x, y, visible
	}
	return segments
}

func (s *GlobeRenderSystem) drawMarkers(screen *ebiten.Image, vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent) {
	for _, id := range ecs.GetEntitiesWith1[*components.DestinationMarkerComponent](s.entityManager) {
		marker, _ := ecs.GetComponent[*components.DestinationMarkerComponent](s.entityManager, id)
		x, y, visible := utils.ProjectLocation(marker.Location, vp.Rotation, vp.Scale, s.centerX, s.centerY, s.radius)
		if !visible {
			continue
		}

		clr := markerColor
		if tc != nil && tc.IsActive() && marker.Location == tc.Request.Target {
			clr = targetColor
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), config.MarkerRadius, clr, true)
	}
}

// MarkerAt 返回屏幕坐标 (x, y) 处最近的可见标记
// 只考虑正面、且在 MarkerHitRadius 以内的标记。
func (s *GlobeRenderSystem) MarkerAt(x, y float64) (components.DestinationMarkerComponent, bool) {
	vp, ok := ecs.GetComponent[*components.ViewpointComponent](s.entityManager, s.globeEntity)
	if !ok {
		return components.DestinationMarkerComponent{}, false
	}

	var best *components.DestinationMarkerComponent
	bestDist := config.MarkerHitRadius * config.MarkerHitRadius
	for _, id := range ecs.GetEntitiesWith1[*components.DestinationMarkerComponent](s.entityManager) {
		marker, _ := ecs.GetComponent[*components.DestinationMarkerComponent](s.entityManager, id)
		mx, my, visible := utils.ProjectLocation(marker.Location, vp.Rotation, vp.Scale, s.centerX, s.centerY, s.radius)
		if !visible {
			continue
		}
		if d := (mx-x)*(mx-x) + (my-y)*(my-y); d <= bestDist {
			best, bestDist = marker, d
		}
	}
	if best == nil {
		return components.DestinationMarkerComponent{}, false
	}
	return *best, true
}

// OverlayFor 决定目标浮层的绘制方式
// 照片未设置或未加载时回退为普通标记，不视为错误。
func OverlayFor(tc *components.GlobeTransitionComponent, images ImageSource) (OverlayKind, *ebiten.Image) {
	if tc == nil || !tc.ShowTargetOverlay {
		return OverlayNone, nil
	}
	if tc.Request.HasImage() && images != nil {
		if img := images.GetImage(tc.Request.TargetImage); img != nil {
			return OverlayPhoto, img
		}
	}
	return OverlayMarker, nil
}

// FitScale 把 w×h 的图片等比缩放到 maxSize 以内（不放大）
func FitScale(w, h int, maxSize float64) float64 {
	longest := float64(w)
	if h > w {
		longest = float64(h)
	}
	if longest <= 0 || longest <= maxSize {
		return 1
	}
	return maxSize / longest
}

func (s *GlobeRenderSystem) drawTargetOverlay(screen *ebiten.Image, vp *components.ViewpointComponent, tc *components.GlobeTransitionComponent) {
	kind, img := OverlayFor(tc, s.images)
	if kind == OverlayNone {
		return
	}

	x, y, visible := utils.ProjectLocation(tc.Request.Target, vp.Rotation, vp.Scale, s.centerX, s.centerY, s.radius)
	if !visible {
		return
	}

	labelY := y + config.TargetMarkerRadius + 6
	switch kind {
	case OverlayPhoto:
		b := img.Bounds()
		scale := FitScale(b.Dx(), b.Dy(), config.TargetOverlayMaxSize)
		w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x-w/2, y-h/2)
		screen.DrawImage(img, op)
		vector.StrokeRect(screen, float32(x-w/2), float32(y-h/2), float32(w), float32(h), 2, overlayRingColor, true)
		labelY = y + h/2 + 6

	case OverlayMarker:
		vector.DrawFilledCircle(screen, float32(x), float32(y), config.TargetMarkerRadius, targetColor, true)
		vector.StrokeCircle(screen, float32(x), float32(y), config.TargetMarkerRadius+3, 2, overlayRingColor, true)
	}

	if s.face == nil {
		return
	}
	label := tc.Request.Label
	if label == "" {
		label = tc.Request.Target.String()
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, labelY)
	op.PrimaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(labelColor)
	text.Draw(screen, label, s.face, op)
}
