// Package settings 持久化用户本地的覆盖层偏好设置
//
// 设置通过 gdata 以 YAML 形式保存在平台的用户数据目录中，重启后仍然有效。
// 不保存任何动画状态。
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName gdata 应用名，决定存储目录
const AppName = "weather_overlay"

// Settings 通过键盘修改的本地偏好设置
type Settings struct {
	// Enabled 本地总开关，叠加在远程开关实体之上
	Enabled bool `yaml:"enabled"`
	// ShowHUD 是否绘制状态说明文字
	ShowHUD bool `yaml:"showHud"`

	ThunderEnabled bool    `yaml:"thunderEnabled"`
	ThunderVolume  float64 `yaml:"thunderVolume"` // 0.0 ~ 1.0

	// PreviewEffect 非空时覆盖轮询到的天气
	PreviewEffect string `yaml:"previewEffect,omitempty"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() Settings {
	return Settings{
		Enabled:        true,
		ShowHUD:        false,
		ThunderEnabled: true,
		ThunderVolume:  0.6,
	}
}

// Manager 设置管理器
// 负责设置的加载、保存和内存管理
type Manager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	defaults     Settings
	settings     Settings
}

const (
	settingsObject   = "settings"
	settingsProperty = "overlay"
)

// Open 打开用户级 gdata 存储
// 失败时记录日志并返回 nil，Manager 随之进入仅内存模式
func Open() *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[Settings] Warning: storage unavailable: %v (settings will not persist)", err)
		return nil
	}
	return m
}

// NewManager 创建设置管理器并加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 没有存档时使用的默认值
//
// 加载失败只记录日志，保留默认值
func NewManager(gdataManager *gdata.Manager, defaults Settings) *Manager {
	m := &Manager{
		gdataManager: gdataManager,
		defaults:     defaults,
		settings:     defaults,
	}
	if err := m.Load(); err != nil {
		log.Printf("[Settings] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return m
}

// Load 读取已保存的设置
// 没有存储或没有存档时使用默认值
func (m *Manager) Load() error {
	m.settings = m.defaults

	if m.gdataManager == nil {
		return nil
	}
	if !m.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := m.defaults
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.ThunderVolume = clampVolume(loaded.ThunderVolume)

	m.settings = loaded
	log.Printf("[Settings] Settings loaded successfully")
	return nil
}

// Save 保存当前设置，仅内存模式下不视为错误
func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[Settings] Settings saved successfully")
	return nil
}

// Persistent 返回设置是否有持久化存储
func (m *Manager) Persistent() bool { return m.gdataManager != nil }

// Get 返回当前设置的副本
func (m *Manager) Get() Settings { return m.settings }

// 以下 setter 只修改内存，需调用 Save 持久化

func (m *Manager) SetEnabled(enabled bool)        { m.settings.Enabled = enabled }
func (m *Manager) SetShowHUD(show bool)           { m.settings.ShowHUD = show }
func (m *Manager) SetThunderEnabled(enabled bool) { m.settings.ThunderEnabled = enabled }
func (m *Manager) SetPreviewEffect(key string)    { m.settings.PreviewEffect = key }

// SetThunderVolume 设置雷声音量（限制在 0.0 ~ 1.0）
func (m *Manager) SetThunderVolume(volume float64) {
	m.settings.ThunderVolume = clampVolume(volume)
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
