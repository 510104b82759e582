package game

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a simple test PNG image for testing purposes.
func createTestImage(path string) error {
	// Create a simple 10x10 blue image
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, blue)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager()
	if rm == nil {
		t.Fatal("NewResourceManager returned nil")
	}
	if rm.Face() == nil {
		t.Error("默认字体不应为 nil")
	}
	if rm.GetImage("") != nil {
		t.Error("空 key 应返回 nil")
	}

	var nilRM *ResourceManager
	if nilRM.GetImage("data/photos/paris.png") != nil {
		t.Error("nil ResourceManager 应返回 nil 图片")
	}
}

func TestDecodeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := createTestImage(path); err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}

	img, err := DecodeImage(path)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("bounds = %v, expected 10x10", b)
	}

	if _, err := DecodeImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("缺失文件应返回错误")
	}

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(corrupt); err == nil {
		t.Error("损坏文件应返回错误")
	}
}

func TestLoadImageCaching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := createTestImage(path); err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}

	rm := NewResourceManager()
	first, err := rm.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	second, err := rm.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage (cached) failed: %v", err)
	}
	if first != second {
		t.Error("第二次加载应返回缓存的图片")
	}
	if rm.GetImage(path) != first {
		t.Error("GetImage 应返回缓存的图片")
	}

	missing := filepath.Join(dir, "missing.png")
	if _, err := rm.LoadImage(missing); err == nil {
		t.Error("缺失文件应返回错误")
	}
	if rm.LoadError(missing) == nil {
		t.Error("失败的路径应记录错误")
	}
}

func TestPreloadImages(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(dir, name)
		if err := createTestImage(p); err != nil {
			t.Fatalf("failed to create test image: %v", err)
		}
		paths = append(paths, p)
	}
	missing := filepath.Join(dir, "missing.png")

	rm := NewResourceManager()
	rm.SetPreloadWorkers(2)

	// 空路径和重复路径被跳过
	input := append([]string{"", paths[0]}, paths...)
	input = append(input, missing)

	loaded, failed, err := rm.PreloadImages(context.Background(), input)
	if err != nil {
		t.Fatalf("PreloadImages returned error: %v", err)
	}
	if loaded != 3 || failed != 1 {
		t.Errorf("loaded=%d failed=%d, expected 3/1", loaded, failed)
	}
	for _, p := range paths {
		if rm.GetImage(p) == nil {
			t.Errorf("%s 未缓存", p)
		}
	}
	if rm.GetImage(missing) != nil || rm.LoadError(missing) == nil {
		t.Error("缺失照片应记录错误且不缓存")
	}

	// 已缓存的图片计入 loaded
	loaded, failed, _ = rm.PreloadImages(context.Background(), paths[:1])
	if loaded != 1 || failed != 0 {
		t.Errorf("second preload loaded=%d failed=%d, expected 1/0", loaded, failed)
	}
}

func TestPreloadImagesCancelled(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.png")
	if err := createTestImage(p); err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rm := NewResourceManager()
	_, _, err := rm.PreloadImages(ctx, []string{p})
	if err == nil {
		t.Error("已取消的 context 应返回错误")
	}
	if rm.GetImage(p) != nil {
		t.Error("取消后不应缓存图片")
	}
}
