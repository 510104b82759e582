package types

import (
	"fmt"
	"strings"
)

// AnimationPhase 过渡动画阶段
// Idle 既是每次运行的初始状态也是终止状态
type AnimationPhase int

const (
	// PhaseIdle 空闲（无过渡）
	PhaseIdle AnimationPhase = iota
	// PhaseZoomOut 缩小
	PhaseZoomOut
	// PhaseSpin 旋转到目标
	PhaseSpin
	// PhaseZoomIn 放大
	PhaseZoomIn
)

// String 返回阶段的字符串表示
func (p AnimationPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseZoomOut:
		return "ZoomOut"
	case PhaseSpin:
		return "Spin"
	case PhaseZoomIn:
		return "ZoomIn"
	default:
		return "Unknown"
	}
}

// ReentryPolicy 过渡进行中再次调用 Start 时的处理策略
type ReentryPolicy int

const (
	// ReentryIgnore 忽略新请求（默认）
	ReentryIgnore ReentryPolicy = iota
	// ReentryQueue 排队，当前过渡完成后依次执行
	ReentryQueue
	// ReentryRestart 中断当前过渡，立即从 ZoomOut 重新开始
	ReentryRestart
)

// String 返回策略名（与配置文件中的写法一致）
func (p ReentryPolicy) String() string {
	switch p {
	case ReentryIgnore:
		return "ignore"
	case ReentryQueue:
		return "queue"
	case ReentryRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Next 按 ignore → queue → restart 循环切换（用于快捷键）
func (p ReentryPolicy) Next() ReentryPolicy {
	return (p + 1) % 3
}

// ParseReentryPolicy 解析策略名，大小写不敏感，空字符串视为 ignore
func ParseReentryPolicy(s string) (ReentryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return ReentryIgnore, nil
	case "queue":
		return ReentryQueue, nil
	case "restart":
		return ReentryRestart, nil
	default:
		return ReentryIgnore, fmt.Errorf("unknown reentry policy %q (want ignore, queue or restart)", s)
	}
}
