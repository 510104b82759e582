package config

// 布局配置常量
// 本文件定义了地球场景的窗口尺寸和各元素位置

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1024

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 640

	// GlobeCenterX 地球中心X坐标（屏幕坐标）
	// 右侧留给目的地面板
	GlobeCenterX = 400.0

	// GlobeCenterY 地球中心Y坐标（屏幕坐标）
	GlobeCenterY = GameWindowHeight / 2.0

	// GlobeRadius 缩放为 1.0 时的地球半径（像素）
	// 缩放到 1.5 时半径 300，仍能放进 640 高的画面
	GlobeRadius = 200.0

	// GraticuleStepDegrees 经纬网间隔（度）
	GraticuleStepDegrees = 15.0

	// GraticuleSegments 每条经纬线的折线段数
	GraticuleSegments = 48

	// MarkerRadius 目的地标记半径（像素）
	MarkerRadius = 4.0

	// MarkerHitRadius 点击/触摸选中标记的判定半径（像素）
	MarkerHitRadius = 12.0

	// TargetMarkerRadius 当前目标的普通标记半径（像素，无照片时使用）
	TargetMarkerRadius = 9.0

	// TargetOverlayMaxSize 目标照片浮层的最大边长（像素）
	TargetOverlayMaxSize = 160.0

	// PanelWidth 右侧目的地面板宽度（像素）
	PanelWidth = 240
)
