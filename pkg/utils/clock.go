package utils

import "time"

// Clock 时钟源（毫秒）
//
// 过渡序列器通过它给阶段打时间戳；测试和验证程序使用 ManualClock
// 精确控制每次 Tick 的时间。
type Clock interface {
	NowMillis() float64
}

// SystemClock 基于单调时钟的墙钟时间
type SystemClock struct {
	start time.Time
}

// NewSystemClock 创建从当前时刻开始计时的系统时钟
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMillis 返回自创建以来经过的毫秒数
func (c *SystemClock) NowMillis() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ManualClock 手动推进的时钟
type ManualClock struct {
	now float64
}

// NewManualClock 创建从 startMillis 开始的手动时钟
func NewManualClock(startMillis float64) *ManualClock {
	return &ManualClock{now: startMillis}
}

// NowMillis 返回当前时间
func (c *ManualClock) NowMillis() float64 {
	return c.now
}

// Set 设置当前时间
func (c *ManualClock) Set(ms float64) {
	c.now = ms
}

// Advance 推进时间并返回推进后的时间
func (c *ManualClock) Advance(ms float64) float64 {
	c.now += ms
	return c.now
}
