package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/globe/pkg/types"
)

func TestDefaultGlobeConfig(t *testing.T) {
	cfg := DefaultGlobeConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置应通过校验: %v", err)
	}

	s := cfg.Sequencer
	if s.ZoomOutMillis != 1000 || s.SpinMillis != 2000 || s.ZoomInMillis != 2000 {
		t.Errorf("阶段时长 = (%v, %v, %v), 期望 (1000, 2000, 2000)", s.ZoomOutMillis, s.SpinMillis, s.ZoomInMillis)
	}
	if s.ScaleBaseline != 1.0 || s.ScaleZoomedOut != 0.3 || s.ScaleZoomedIn != 1.5 {
		t.Errorf("缩放端点 = (%v, %v, %v), 期望 (1.0, 0.3, 1.5)", s.ScaleBaseline, s.ScaleZoomedOut, s.ScaleZoomedIn)
	}
	if s.IdleSpinRate != 0.2 {
		t.Errorf("IdleSpinRate = %v, 期望 0.2", s.IdleSpinRate)
	}
	if s.Policy() != types.ReentryIgnore {
		t.Errorf("Policy() = %v, 期望 ignore", s.Policy())
	}
	if s.TotalMillis() != 5000 {
		t.Errorf("TotalMillis() = %v, 期望 5000", s.TotalMillis())
	}
}

func TestParseGlobeConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *GlobeConfig)
	}{
		{
			name: "完整配置",
			yamlContent: `
sequencer:
  zoomOutMillis: 500
  spinMillis: 1500
  zoomInMillis: 800
  scaleBaseline: 1.0
  scaleZoomedOut: 0.5
  scaleZoomedIn: 1.2
  idleSpinRate: 0.1
  reentryPolicy: restart
  queueLimit: 2
tour:
  dwellSeconds: 1.5
`,
			validate: func(t *testing.T, cfg *GlobeConfig) {
				if cfg.Sequencer.ZoomOutMillis != 500 {
					t.Errorf("expected zoomOutMillis = 500, got %v", cfg.Sequencer.ZoomOutMillis)
				}
				if cfg.Sequencer.Policy() != types.ReentryRestart {
					t.Errorf("expected restart policy, got %v", cfg.Sequencer.Policy())
				}
				if cfg.Tour.DwellSeconds != 1.5 {
					t.Errorf("expected dwellSeconds = 1.5, got %v", cfg.Tour.DwellSeconds)
				}
			},
		},
		{
			name: "部分配置保留默认值",
			yamlContent: `
sequencer:
  spinMillis: 3000
`,
			validate: func(t *testing.T, cfg *GlobeConfig) {
				if cfg.Sequencer.SpinMillis != 3000 {
					t.Errorf("expected spinMillis = 3000, got %v", cfg.Sequencer.SpinMillis)
				}
				if cfg.Sequencer.ZoomOutMillis != 1000 {
					t.Errorf("expected default zoomOutMillis = 1000, got %v", cfg.Sequencer.ZoomOutMillis)
				}
				if cfg.Sequencer.QueueLimit != 4 {
					t.Errorf("expected default queueLimit = 4, got %d", cfg.Sequencer.QueueLimit)
				}
			},
		},
		{
			name:        "时长为0",
			yamlContent: "sequencer:\n  zoomInMillis: 0\n",
			wantErr:     true,
			errContains: "zoomInMillis",
		},
		{
			name:        "缩放为负",
			yamlContent: "sequencer:\n  scaleZoomedOut: -0.3\n",
			wantErr:     true,
			errContains: "scaleZoomedOut",
		},
		{
			name:        "时长为 NaN",
			yamlContent: "sequencer:\n  spinMillis: .nan\n",
			wantErr:     true,
			errContains: "spinMillis",
		},
		{
			name:        "时长为无穷大",
			yamlContent: "sequencer:\n  zoomOutMillis: .inf\n",
			wantErr:     true,
			errContains: "zoomOutMillis",
		},
		{
			name:        "缩放为 NaN",
			yamlContent: "sequencer:\n  scaleZoomedIn: .nan\n",
			wantErr:     true,
			errContains: "scaleZoomedIn",
		},
		{
			name:        "自转速度为 NaN",
			yamlContent: "sequencer:\n  idleSpinRate: .nan\n",
			wantErr:     true,
			errContains: "idleSpinRate",
		},
		{
			name:        "停留时间为 NaN",
			yamlContent: "tour:\n  dwellSeconds: .nan\n",
			wantErr:     true,
			errContains: "dwellSeconds",
		},
		{
			name:        "解码并发为0",
			yamlContent: "photos:\n  preloadWorkers: 0\n",
			wantErr:     true,
			errContains: "preloadWorkers",
		},
		{
			name:        "未知策略",
			yamlContent: "sequencer:\n  reentryPolicy: drop\n",
			wantErr:     true,
			errContains: "reentry policy",
		},
		{
			name:        "排队上限为0",
			yamlContent: "sequencer:\n  queueLimit: 0\n",
			wantErr:     true,
			errContains: "queueLimit",
		},
		{
			name:        "YAML 语法错误",
			yamlContent: "sequencer: [",
			wantErr:     true,
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseGlobeConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestValidateReportsFirstInvalidField 多项非法时总是报告字段顺序中的第一项
func TestValidateReportsFirstInvalidField(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := DefaultGlobeConfig()
		cfg.Sequencer.ZoomOutMillis = -1
		cfg.Sequencer.SpinMillis = 0
		cfg.Sequencer.ZoomInMillis = -5
		cfg.Sequencer.ScaleZoomedOut = 0

		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.HasPrefix(err.Error(), "zoomOutMillis") {
			t.Fatalf("第 %d 次: error = %q, 期望报告 zoomOutMillis", i, err.Error())
		}
	}
}

func TestLoadGlobeConfigFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.yaml")
	if err := os.WriteFile(path, []byte("sequencer:\n  idleSpinRate: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobeConfig(path)
	if err != nil {
		t.Fatalf("LoadGlobeConfig() error: %v", err)
	}
	if cfg.Sequencer.IdleSpinRate != 0.5 {
		t.Errorf("IdleSpinRate = %v, 期望 0.5", cfg.Sequencer.IdleSpinRate)
	}

	if _, err := LoadGlobeConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("文件不存在时应返回错误")
	}
}

// TestShippedGlobeConfig 校验仓库自带的 data/globe.yaml
func TestShippedGlobeConfig(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", GlobeConfigPath))
	if err != nil {
		t.Skipf("data/globe.yaml not available: %v", err)
	}

	cfg, err := ParseGlobeConfig(data)
	if err != nil {
		t.Fatalf("data/globe.yaml 无效: %v", err)
	}
	if *cfg != *DefaultGlobeConfig() {
		t.Errorf("data/globe.yaml 与 DefaultGlobeConfig() 不一致:\n got  %+v\n want %+v", *cfg, *DefaultGlobeConfig())
	}
}
