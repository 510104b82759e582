//go:build mobile

package utils

// MobileEmulateEnv 移动端构建中不使用，保留常量使两种构建导出相同的名字
const MobileEmulateEnv = "GLOBE_MOBILE_EMULATE"

// IsMobile 移动端编译时恒为 true
func IsMobile() bool {
	return true
}
