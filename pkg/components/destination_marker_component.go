package components

import "github.com/decker502/globe/pkg/types"

// DestinationMarkerComponent 地球表面的目的地标记
// 每个目录条目对应一个标记实体
type DestinationMarkerComponent struct {
	// ID 目的地唯一标识（与 destinations.yaml 中的 id 一致）
	ID string

	// Name 显示名称
	Name string

	// Location 标记位置
	Location types.Location

	// ImageKey 目标照片资源键，可为空
	ImageKey string
}

// Request 根据标记构造过渡请求
func (m *DestinationMarkerComponent) Request() types.TransitionRequest {
	return types.TransitionRequest{
		Target:      m.Location,
		TargetImage: m.ImageKey,
		Label:       m.Name,
	}
}
