package components

// ViewpointComponent 地球视角状态（旋转 + 缩放）
//
// 仅由 GlobeSequencerSystem 写入，渲染系统每帧只读。
// 不持久化。
type ViewpointComponent struct {
	// Rotation 欧拉角 (x, y, z)，单位弧度
	// x 对应纬度方向，y 对应经度方向（空闲自转也作用在 y 上）
	Rotation [3]float64

	// Scale 缩放因子，始终 > 0；过渡期间位于 [0.3, 1.5]
	Scale float64
}

// NewBaselineViewpoint 返回基准视角：scale=1，rotation=[0,0,0]
func NewBaselineViewpoint() *ViewpointComponent {
	return &ViewpointComponent{Scale: 1.0}
}

// Reset 恢复到基准视角
func (v *ViewpointComponent) Reset() {
	v.Rotation = [3]float64{}
	v.Scale = 1.0
}
