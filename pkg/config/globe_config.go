package config

import (
	"fmt"
	"math"

	"github.com/decker502/globe/pkg/embedded"
	"github.com/decker502/globe/pkg/types"
	"gopkg.in/yaml.v3"
)

// GlobeConfigPath 默认配置文件位置（嵌入资源）
const GlobeConfigPath = "data/globe.yaml"

// GlobeConfig 地球场景配置
//
// 配置文件位置: data/globe.yaml
type GlobeConfig struct {
	// Sequencer 过渡动画序列器参数
	Sequencer SequencerConfig `yaml:"sequencer"`

	// Tour 自动巡游参数
	Tour TourConfig `yaml:"tour"`

	// Photos 目的地照片加载参数
	Photos PhotosConfig `yaml:"photos"`
}

// SequencerConfig 三阶段过渡动画参数
//
// 阶段表：
//   - ZoomOut: scale 线性 ScaleBaseline → ScaleZoomedOut
//   - Spin:    rotation 三次方缓出 [0,0,0] → 目标经纬度（弧度）
//   - ZoomIn:  scale 线性 ScaleZoomedOut → ScaleZoomedIn
type SequencerConfig struct {
	// ZoomOutMillis 缩小阶段时长（毫秒）
	ZoomOutMillis float64 `yaml:"zoomOutMillis"`

	// SpinMillis 旋转阶段时长（毫秒）
	SpinMillis float64 `yaml:"spinMillis"`

	// ZoomInMillis 放大阶段时长（毫秒）
	ZoomInMillis float64 `yaml:"zoomInMillis"`

	// ScaleBaseline 基准缩放（空闲状态）
	ScaleBaseline float64 `yaml:"scaleBaseline"`

	// ScaleZoomedOut 缩小阶段终点缩放
	ScaleZoomedOut float64 `yaml:"scaleZoomedOut"`

	// ScaleZoomedIn 放大阶段终点缩放
	ScaleZoomedIn float64 `yaml:"scaleZoomedIn"`

	// IdleSpinRate 空闲自转角速度（弧度/秒）
	IdleSpinRate float64 `yaml:"idleSpinRate"`

	// ReentryPolicy 过渡进行中再次 Start 的策略：ignore / queue / restart
	ReentryPolicy string `yaml:"reentryPolicy"`

	// QueueLimit queue 策略下的最大排队请求数
	QueueLimit int `yaml:"queueLimit"`
}

// TourConfig 自动巡游参数
type TourConfig struct {
	// DwellSeconds 每次到达目的地后停留的时间（秒）
	DwellSeconds float64 `yaml:"dwellSeconds"`
}

// PhotosConfig 照片预加载参数
type PhotosConfig struct {
	// PreloadWorkers 并发解码照片的 goroutine 数
	PreloadWorkers int `yaml:"preloadWorkers"`
}

// DefaultGlobeConfig 返回默认配置（与 data/globe.yaml 一致）
func DefaultGlobeConfig() *GlobeConfig {
	return &GlobeConfig{
		Sequencer: SequencerConfig{
			ZoomOutMillis:  1000,
			SpinMillis:     2000,
			ZoomInMillis:   2000,
			ScaleBaseline:  1.0,
			ScaleZoomedOut: 0.3,
			ScaleZoomedIn:  1.5,
			IdleSpinRate:   0.2,
			ReentryPolicy:  "ignore",
			QueueLimit:     4,
		},
		Tour: TourConfig{
			DwellSeconds: 3.0,
		},
		Photos: PhotosConfig{
			PreloadWorkers: 4,
		},
	}
}

// LoadGlobeConfig 加载地球场景配置
//
// 参数:
//   - path: 配置文件路径（"data/" 前缀读取嵌入资源，否则读取磁盘）
//
// 返回:
//   - *GlobeConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadGlobeConfig(path string) (*GlobeConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read globe config: %w", err)
	}
	return ParseGlobeConfig(data)
}

// ParseGlobeConfig 从 YAML 数据解析配置
// 未出现的字段保留默认值
func ParseGlobeConfig(data []byte) (*GlobeConfig, error) {
	cfg := DefaultGlobeConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse globe config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid globe config: %w", err)
	}

	return cfg, nil
}

// namedValue 按固定顺序校验的配置项
type namedValue struct {
	name  string
	value float64
}

// positiveFinite 值必须是大于 0 的有限数（NaN 不通过）
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate 验证配置有效性
//
// 检查：
//   - 三个阶段时长必须是有限正数（p = elapsed/duration 需要有限值）
//   - 三个缩放端点必须是有限正数
//   - 自转速度不能为负
//   - 重入策略名合法
//   - 排队上限 >= 1
//
// 多项同时非法时按字段顺序报告第一项。
func (c *GlobeConfig) Validate() error {
	s := c.Sequencer

	durations := []namedValue{
		{"zoomOutMillis", s.ZoomOutMillis},
		{"spinMillis", s.SpinMillis},
		{"zoomInMillis", s.ZoomInMillis},
	}
	for _, d := range durations {
		if !positiveFinite(d.value) {
			return fmt.Errorf("%s must be a finite value > 0, got %v", d.name, d.value)
		}
	}

	scales := []namedValue{
		{"scaleBaseline", s.ScaleBaseline},
		{"scaleZoomedOut", s.ScaleZoomedOut},
		{"scaleZoomedIn", s.ScaleZoomedIn},
	}
	for _, v := range scales {
		if !positiveFinite(v.value) {
			return fmt.Errorf("%s must be a finite value > 0, got %v", v.name, v.value)
		}
	}

	if !(s.IdleSpinRate >= 0) || math.IsInf(s.IdleSpinRate, 0) {
		return fmt.Errorf("idleSpinRate must be a finite value >= 0, got %v", s.IdleSpinRate)
	}

	if _, err := types.ParseReentryPolicy(s.ReentryPolicy); err != nil {
		return err
	}

	if s.QueueLimit < 1 {
		return fmt.Errorf("queueLimit must be >= 1, got %d", s.QueueLimit)
	}

	if !(c.Tour.DwellSeconds >= 0) || math.IsInf(c.Tour.DwellSeconds, 0) {
		return fmt.Errorf("tour.dwellSeconds must be a finite value >= 0, got %v", c.Tour.DwellSeconds)
	}

	if c.Photos.PreloadWorkers < 1 {
		return fmt.Errorf("photos.preloadWorkers must be >= 1, got %d", c.Photos.PreloadWorkers)
	}

	return nil
}

// Policy 返回解析后的重入策略（Validate 通过后不会出错）
func (s SequencerConfig) Policy() types.ReentryPolicy {
	p, _ := types.ParseReentryPolicy(s.ReentryPolicy)
	return p
}

// TotalMillis 一次完整过渡的总时长
func (s SequencerConfig) TotalMillis() float64 {
	return s.ZoomOutMillis + s.SpinMillis + s.ZoomInMillis
}
