package utils

import (
	"math"

	"github.com/decker502/globe/pkg/types"
)

// 地球正交投影
//
// 坐标约定：观察者位于 +Z，Y 轴向上。
// 经纬度 (φ, λ) 在未旋转时对应单位向量 (cosφ·sinλ, sinφ, cosφ·cosλ)，
// 即 (0°, 0°) 正对屏幕中心。
//
// 旋转 (rx, ry, rz) 依次作用：绕 Y 轴 -ry，绕 X 轴 +rx，绕 Z 轴 rz。
// 当 rotation = [rad(lat), rad(lon), 0] 时目标点恰好位于屏幕中心。

// SphereToVector 经纬度（度）转单位向量
func SphereToVector(loc types.Location) [3]float64 {
	lat := loc.Latitude * math.Pi / 180
	lon := loc.Longitude * math.Pi / 180
	return [3]float64{
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
		math.Cos(lat) * math.Cos(lon),
	}
}

// RotateVector 按地球旋转把单位向量变换到观察坐标系
func RotateVector(v [3]float64, rotation [3]float64) [3]float64 {
	x, y, z := v[0], v[1], v[2]

	// 绕 Y 轴旋转 -ry
	sy, cy := math.Sincos(-rotation[1])
	x, z = x*cy+z*sy, -x*sy+z*cy

	// 绕 X 轴旋转 rx
	sx, cx := math.Sincos(rotation[0])
	y, z = y*cx-z*sx, y*sx+z*cx

	// 绕 Z 轴旋转 rz
	sz, cz := math.Sincos(rotation[2])
	x, y = x*cz-y*sz, x*sz+y*cz

	return [3]float64{x, y, z}
}

// ProjectVector 把观察坐标系中的单位向量投影到屏幕
//
// 返回：
//   - sx, sy: 屏幕坐标
//   - visible: 点是否位于朝向观察者的半球（z >= 0）
func ProjectVector(v [3]float64, scale, centerX, centerY, radius float64) (sx, sy float64, visible bool) {
	r := radius * scale
	return centerX + v[0]*r, centerY - v[1]*r, v[2] >= 0
}

// ProjectLocation 经纬度 → 屏幕坐标
func ProjectLocation(loc types.Location, rotation [3]float64, scale, centerX, centerY, radius float64) (sx, sy float64, visible bool) {
	v := RotateVector(SphereToVector(loc), rotation)
	return ProjectVector(v, scale, centerX, centerY, radius)
}
