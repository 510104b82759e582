package modules

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/globe/pkg/config"
	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// 面板配色
var (
	panelBackgroundColor = color.NRGBA{R: 0x10, G: 0x18, B: 0x28, A: 220}
	buttonIdleColor      = color.NRGBA{R: 0x2a, G: 0x3a, B: 0x55, A: 255}
	buttonHoverColor     = color.NRGBA{R: 0x3a, G: 0x55, B: 0x7a, A: 255}
	buttonPressedColor   = color.NRGBA{R: 0x55, G: 0x77, B: 0xa0, A: 255}
	panelTextColor       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	panelHintColor       = color.NRGBA{R: 0xa0, G: 0xb0, B: 0xc8, A: 0xff}
)

// panelHint 快捷键说明
const panelHint = "1-9 fly  Esc cancel  T tour\nS sign in  P policy  C copy\nF3 stats  F11 fullscreen"

// DestinationSelectFunc 目的地被选中时的回调
type DestinationSelectFunc func(index int, d config.Destination)

// DestinationPanelModule 目的地面板模块
//
// 职责：
//   - 右侧面板，每个目的地一个按钮
//   - 点击按钮（或快捷键）通过回调请求过渡
//   - 显示状态行（阶段、策略、登录状态）
//
// 面板不直接持有编排器，由场景在回调里决定如何开始过渡。
type DestinationPanelModule struct {
	ui       *ebitenui.UI
	face     text.Face
	catalog  *config.DestinationCatalog
	onSelect DestinationSelectFunc

	buttons []*widget.Button
	status  *widget.Text
}

// NewDestinationPanelModule 创建目的地面板
//
// 参数：
//   - catalog: 目的地目录
//   - face: 字体，nil 时使用 basicfont
//   - onSelect: 选中回调（可选）
func NewDestinationPanelModule(catalog *config.DestinationCatalog, face text.Face, onSelect DestinationSelectFunc) *DestinationPanelModule {
	if face == nil {
		face = text.NewGoXFace(basicfont.Face7x13)
	}
	m := &DestinationPanelModule{
		face:     face,
		onSelect: onSelect,
	}
	m.SetCatalog(catalog)
	return m
}

// SetCatalog 替换目录并重建按钮（目录热重载后调用）
func (m *DestinationPanelModule) SetCatalog(catalog *config.DestinationCatalog) {
	m.catalog = catalog
	m.buttons = m.buttons[:0]

	btnImg := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(buttonIdleColor),
		Hover:   imageui.NewNineSliceColor(buttonHoverColor),
		Pressed: imageui.NewNineSliceColor(buttonPressedColor),
	}
	btnTextColor := &widget.ButtonTextColor{Idle: panelTextColor}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelBackgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 16, Right: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(config.PanelWidth, config.GameWindowHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)

	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Destinations", &m.face, panelTextColor),
	))

	if catalog != nil {
		for i, d := range catalog.Destinations {
			index, dest := i, d
			label := dest.Name
			if label == "" {
				label = dest.ID
			}
			if index < 9 {
				label = fmt.Sprintf("%d  %s", index+1, label)
			}

			btn := widget.NewButton(
				widget.ButtonOpts.Image(btnImg),
				widget.ButtonOpts.Text(label, &m.face, btnTextColor),
				widget.ButtonOpts.TextPadding(&widget.Insets{Top: 4, Bottom: 4, Left: 8, Right: 8}),
				widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true})),
				widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
					m.Select(index)
				}),
			)
			m.buttons = append(m.buttons, btn)
			panel.AddChild(btn)
		}
	}

	m.status = widget.NewText(
		widget.TextOpts.Text("", &m.face, panelHintColor),
	)
	panel.AddChild(m.status)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(panelHint, &m.face, panelHintColor),
	))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	m.ui = &ebitenui.UI{Container: root}
}

// Select 选中第 index 个目的地（按钮点击和数字键共用）
//
// 返回：
//   - 下标有效且已通知回调时返回 true
func (m *DestinationPanelModule) Select(index int) bool {
	if m.catalog == nil || index < 0 || index >= m.catalog.Len() {
		return false
	}
	d := m.catalog.Destinations[index]
	log.Printf("[DestinationPanelModule] Selected %s (%d)", d.ID, index)
	if m.onSelect != nil {
		m.onSelect(index, d)
	}
	return true
}

// ButtonCount 返回按钮数量
func (m *DestinationPanelModule) ButtonCount() int {
	return len(m.buttons)
}

// SetStatus 更新状态行
func (m *DestinationPanelModule) SetStatus(status string) {
	if m.status != nil {
		m.status.Label = status
	}
}

// Status 返回状态行文本
func (m *DestinationPanelModule) Status() string {
	if m.status == nil {
		return ""
	}
	return m.status.Label
}

// Update 处理面板输入
func (m *DestinationPanelModule) Update() {
	m.ui.Update()
}

// Draw 绘制面板
func (m *DestinationPanelModule) Draw(screen *ebiten.Image) {
	m.ui.Draw(screen)
}
