package config

import (
	"fmt"
	"strings"

	"github.com/decker502/globe/pkg/embedded"
	"github.com/decker502/globe/pkg/types"
	"gopkg.in/yaml.v3"
)

// DestinationsPath 默认目的地目录（嵌入资源）
const DestinationsPath = "data/destinations.yaml"

// Destination 一个可以飞往的目的地
type Destination struct {
	// ID 唯一标识（小写，如 "paris"）
	ID string `yaml:"id"`

	// Name 显示名称
	Name string `yaml:"name"`

	// Latitude 纬度（度）
	Latitude float64 `yaml:"latitude"`

	// Longitude 经度（度）
	Longitude float64 `yaml:"longitude"`

	// Image 目标照片路径，可为空（为空时渲染普通标记）
	Image string `yaml:"image,omitempty"`
}

// Location 返回目的地位置
func (d Destination) Location() types.Location {
	return types.Location{Latitude: d.Latitude, Longitude: d.Longitude}
}

// Request 构造过渡请求
func (d Destination) Request() types.TransitionRequest {
	return types.TransitionRequest{
		Target:      d.Location(),
		TargetImage: d.Image,
		Label:       d.Name,
	}
}

// DestinationCatalog 目的地目录
//
// 配置文件位置: data/destinations.yaml
type DestinationCatalog struct {
	// Home 启动时选中的目的地ID，可为空
	Home string `yaml:"home"`

	// Destinations 目的地列表（顺序即面板和数字快捷键的顺序）
	Destinations []Destination `yaml:"destinations"`
}

// LoadDestinationCatalog 加载目的地目录
//
// 参数:
//   - path: 文件路径（"data/" 前缀读取嵌入资源，否则读取磁盘）
func LoadDestinationCatalog(path string) (*DestinationCatalog, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination catalog: %w", err)
	}
	return ParseDestinationCatalog(data)
}

// ParseDestinationCatalog 从 YAML 数据解析目录
func ParseDestinationCatalog(data []byte) (*DestinationCatalog, error) {
	var catalog DestinationCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse destination catalog: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination catalog: %w", err)
	}

	return &catalog, nil
}

// Validate 验证目录
//
// 检查：
//   - ID 非空且唯一
//   - 经纬度合法
//   - Home（如果设置）必须指向已存在的目的地
func (c *DestinationCatalog) Validate() error {
	seen := make(map[string]bool, len(c.Destinations))
	for i, d := range c.Destinations {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return fmt.Errorf("destination #%d has empty id", i+1)
		}
		if seen[id] {
			return fmt.Errorf("duplicate destination id %q", id)
		}
		seen[id] = true

		if err := d.Location().Validate(); err != nil {
			return fmt.Errorf("destination %q: %w", id, err)
		}
	}

	if c.Home != "" && !seen[c.Home] {
		return fmt.Errorf("home %q is not a known destination", c.Home)
	}

	return nil
}

// Find 按ID查找目的地
func (c *DestinationCatalog) Find(id string) (Destination, bool) {
	i := c.Index(id)
	if i < 0 {
		return Destination{}, false
	}
	return c.Destinations[i], true
}

// Index 返回目的地在列表中的下标，未找到返回 -1
func (c *DestinationCatalog) Index(id string) int {
	for i, d := range c.Destinations {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Len 目的地数量
func (c *DestinationCatalog) Len() int {
	return len(c.Destinations)
}
