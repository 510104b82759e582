package components

import "github.com/decker502/globe/pkg/types"

// GlobeTransitionComponent 地球过渡动画的状态机数据
//
// 一次运行：Idle → ZoomOut → Spin → ZoomIn → Idle。
// ShowTargetOverlay 与 Phase 分开存放：它在 ZoomIn 开始时置位，
// 在下一次 Start 时清除，重置时机与阶段边界无关。
type GlobeTransitionComponent struct {
	// Phase 当前阶段
	Phase types.AnimationPhase

	// PhaseStartMillis 当前阶段开始的时间戳（毫秒，来自时钟源）
	PhaseStartMillis float64

	// Request 当前运行的请求（运行期间不可变）
	Request types.TransitionRequest

	// ShowTargetOverlay 是否显示目标浮层（照片或标记）
	ShowTargetOverlay bool

	// RunID 运行序号，每次 Start 递增（用于日志和渲染缓存）
	RunID int
}

// IsActive 是否有过渡在进行
func (c *GlobeTransitionComponent) IsActive() bool {
	return c.Phase != types.PhaseIdle
}
