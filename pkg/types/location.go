// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"math"
)

// Location 地理位置（角度制）
//
// 纬度范围 [-90, 90]，经度范围 [-180, 180]。
// 过渡动画期间目标位置不可变。
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Validate 检查经纬度是否在合法范围内
//
// 校验由调用方负责：序列器本身假定输入合法。
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return fmt.Errorf("location has NaN coordinate: (%v, %v)", l.Latitude, l.Longitude)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", l.Longitude)
	}
	return nil
}

// Radians 返回旋转目标 [lat, lon, 0]（弧度）
// 旋转动画结束时地球的 rotation 严格等于该值
func (l Location) Radians() [3]float64 {
	return [3]float64{
		l.Latitude * math.Pi / 180,
		l.Longitude * math.Pi / 180,
		0,
	}
}

// String 返回 "48.8500, 2.3500" 形式的坐标文本（用于剪贴板和 HUD）
func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}

// TransitionRequest 一次过渡动画的触发请求
type TransitionRequest struct {
	// Target 目标位置
	Target Location

	// TargetImage 目标照片的资源键，可为空
	// 为空时渲染普通标记点而不是照片浮层
	TargetImage string

	// Label 目标名称（仅用于日志和 HUD）
	Label string
}

// HasImage 是否携带目标照片
func (r TransitionRequest) HasImage() bool {
	return r.TargetImage != ""
}
