//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设置为 1 时桌面端按移动端行为运行（本地调试用）
const MobileEmulateEnv = "GLOBE_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时只看 GLOBE_MOBILE_EMULATE
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
