//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// settingsSubdir gdata 在应用数据目录下使用的子目录
const settingsSubdir = "globe"

// EnsureStorageDir 在打开 gdata 之前创建设置目录并检查可写
// gdata 在 Android 上使用 /data/data/{package}/，但不会创建子目录。
func EnsureStorageDir() error {
	root := StoragePath()
	if root == "" {
		return fmt.Errorf("cannot determine Android package name")
	}

	dir := filepath.Join(root, settingsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// StoragePath 应用数据目录 /data/data/{package}
// 包名取自 /proc/self/cmdline 的第一个参数
func StoragePath() string {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	pkg, _, _ := bytes.Cut(cmdline, []byte{0})
	pkg = bytes.TrimSpace(pkg)
	if len(pkg) == 0 {
		return ""
	}
	return filepath.Join("/data/data", string(pkg))
}
