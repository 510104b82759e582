package game

import (
	"fmt"
	"log"

	"github.com/decker502/globe/pkg/types"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GlobeSettings 用户设置
type GlobeSettings struct {
	// SignedIn 登录状态（登录后地球不再空闲自转）
	SignedIn bool `yaml:"signedIn"`

	// ReentryPolicy 过渡进行中再次触发的策略：ignore / queue / restart
	// 为空时使用 globe.yaml 中的配置
	ReentryPolicy string `yaml:"reentryPolicy"`

	// LastDestination 上次到达的目的地 ID
	LastDestination string `yaml:"lastDestination"`

	// ShowStats 是否显示调试统计
	ShowStats bool `yaml:"showStats"`

	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GlobeSettings {
	return &GlobeSettings{}
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GlobeSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留，加载失败只记录日志
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// gdataManager 为 nil 或文件不存在时使用默认设置。
// 存储的策略名无效时清空该字段，其余设置照常生效。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loadedSettings GlobeSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if _, err := types.ParseReentryPolicy(loadedSettings.ReentryPolicy); err != nil {
		log.Printf("[SettingsManager] Warning: %v (ignoring stored policy)", err)
		loadedSettings.ReentryPolicy = ""
	}

	sm.settings = &loadedSettings
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GlobeSettings {
	return sm.settings
}

// SetSignedIn 设置登录状态
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSignedIn(signedIn bool) {
	sm.settings.SignedIn = signedIn
}

// SetReentryPolicy 设置重入策略
func (sm *SettingsManager) SetReentryPolicy(policy types.ReentryPolicy) {
	sm.settings.ReentryPolicy = policy.String()
}

// ReentryPolicy 返回存储的重入策略
//
// 返回：
//   - 策略值
//   - 是否设置过（false 时调用方应使用配置文件中的默认策略）
func (sm *SettingsManager) ReentryPolicy() (types.ReentryPolicy, bool) {
	if sm.settings.ReentryPolicy == "" {
		return types.ReentryIgnore, false
	}
	policy, err := types.ParseReentryPolicy(sm.settings.ReentryPolicy)
	if err != nil {
		return types.ReentryIgnore, false
	}
	return policy, true
}

// SetLastDestination 记录上次到达的目的地
func (sm *SettingsManager) SetLastDestination(id string) {
	sm.settings.LastDestination = id
}

// SetShowStats 设置调试统计开关
func (sm *SettingsManager) SetShowStats(show bool) {
	sm.settings.ShowStats = show
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}
