// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 以 "data/" 开头的路径从嵌入资源读取；其他路径（用户通过命令行指定的
// 目的地目录、巡游脚本、照片）直接从磁盘读取。
// 未初始化时（命令行工具、测试）所有路径都从磁盘读取。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化嵌入文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// IsEmbedded 路径是否从嵌入资源读取
// 嵌入资源无法被文件监听，调用方据此决定是否热重载
func IsEmbedded(path string) bool {
	return initialized && strings.HasPrefix(normalize(path), dataPrefix)
}

// ReadFile 读取文件内容
func ReadFile(path string) ([]byte, error) {
	if !IsEmbedded(path) {
		return os.ReadFile(path)
	}
	return fs.ReadFile(dataFS, normalize(path))
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	if !IsEmbedded(path) {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}
	info, err := fs.Stat(dataFS, normalize(path))
	return err == nil && !info.IsDir()
}

// Glob 在嵌入资源中匹配文件
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	pattern = normalize(pattern)
	if !strings.HasPrefix(pattern, dataPrefix) {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", pattern)
	}
	return fs.Glob(dataFS, pattern)
}
