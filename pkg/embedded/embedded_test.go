package embedded

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/globe.yaml":        {Data: []byte("sequencer: {}\n")},
		"data/destinations.yaml": {Data: []byte("destinations: []\n")},
		"data/tours/loop.tengo":  {Data: []byte("next := func(c, n, v) { return 0 }\n")},
	}
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	Init(nil)
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false for nil FS")
	}

	Init(testFS())
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 未初始化时 data/ 路径回退到磁盘
func TestReadFileNotInitialized(t *testing.T) {
	Init(nil)
	defer Init(testFS())

	if IsEmbedded("data/globe.yaml") {
		t.Error("未初始化时 IsEmbedded() 应返回 false")
	}

	// 包目录下没有 data/，磁盘读取失败
	if _, err := ReadFile("data/globe.yaml"); err == nil {
		t.Error("Expected error when data/globe.yaml is not on disk")
	}

	// 仓库根目录的 data/ 可以直接读取
	if _, err := ReadFile("../../data/globe.yaml"); err != nil {
		t.Errorf("磁盘回退读取失败: %v", err)
	}
}

func TestReadFileEmbedded(t *testing.T) {
	Init(testFS())

	data, err := ReadFile("./data/globe.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "sequencer: {}\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	if !IsEmbedded("data/destinations.yaml") {
		t.Error("IsEmbedded() 应返回 true")
	}
	if !Exists("data/destinations.yaml") {
		t.Error("Exists() 应返回 true")
	}
	if Exists("data/missing.yaml") {
		t.Error("Exists() 对不存在的文件应返回 false")
	}
}

// TestReadFileDisk 非 data/ 路径从磁盘读取（即使未初始化）
func TestReadFileDisk(t *testing.T) {
	Init(nil)
	defer Init(testFS())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("home: paris\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if IsEmbedded(path) {
		t.Fatalf("IsEmbedded(%q) 应为 false", path)
	}
	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "home: paris\n" {
		t.Errorf("ReadFile() = %q", data)
	}
	if !Exists(path) {
		t.Error("Exists() 应返回 true")
	}
}

func TestGlob(t *testing.T) {
	Init(testFS())

	matches, err := Glob("data/tours/*.tengo")
	if err != nil {
		t.Fatalf("Glob() error: %v", err)
	}
	if len(matches) != 1 || matches[0] != "data/tours/loop.tengo" {
		t.Errorf("Glob() = %v", matches)
	}

	if _, err := Glob("assets/*.png"); err == nil {
		t.Error("非 data/ 前缀应报错")
	}
}
