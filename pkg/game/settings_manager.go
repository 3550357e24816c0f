// Package game 管理观星台演示的用户设置
//
// 设置通过 gdata 跨平台持久化，序列化格式为 YAML。存储管理器可为
// nil：此时进入降级模式，设置只存在于内存中，保存调用静默成功。
package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/Greg-Aster/MegaMeal-sub002/pkg/quality"
)

// QualityAuto 表示不覆盖设备分级结果，由分级器自动决定
const QualityAuto = "auto"

// ObservatorySettings 全局用户设置
// 注意：这些设置是全局的，不绑定到特定用户
type ObservatorySettings struct {
	// 质量设置
	QualityOverride string `yaml:"qualityOverride"` // 质量档位覆盖："auto" 或档位名
	Reflections     bool   `yaml:"reflections"`     // 是否绘制水面倒影

	// 诊断设置
	Verbose bool `yaml:"verbose"` // 是否输出逐次重选/发布日志
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ObservatorySettings {
	return &ObservatorySettings{
		QualityOverride: QualityAuto,
		Reflections:     true,
		Verbose:         false,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager       // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ObservatorySettings // 当前设置
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
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化 YAML 数据
	var loaded ObservatorySettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	// 旧存档可能没有覆盖字段
	if loaded.QualityOverride == "" {
		loaded.QualityOverride = QualityAuto
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ObservatorySettings {
	return sm.settings
}

// QualityOverrideTier 解析质量档位覆盖
//
// 返回：
//   - quality.QualityTier: 覆盖的档位；设置为 "auto" 或档位名非法时
//     返回 quality.TierAuto（交给分级器决定）
func (sm *SettingsManager) QualityOverrideTier() quality.QualityTier {
	name := sm.settings.QualityOverride
	if name == "" || name == QualityAuto {
		return quality.TierAuto
	}
	tier, ok := quality.TierFromName(name)
	if !ok {
		log.Printf("[SettingsManager] Unknown quality override %q, falling back to auto", name)
		return quality.TierAuto
	}
	return tier
}

// SetQualityOverride 设置质量档位覆盖
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - tier: 要固定的档位；传 quality.TierAuto 恢复自动分级
func (sm *SettingsManager) SetQualityOverride(tier quality.QualityTier) {
	if tier == quality.TierAuto || !tier.Valid() {
		sm.settings.QualityOverride = QualityAuto
		return
	}
	sm.settings.QualityOverride = tier.String()
}

// SetReflections 设置水面倒影开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetReflections(enabled bool) {
	sm.settings.Reflections = enabled
}

// SetVerbose 设置详细日志开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetVerbose(enabled bool) {
	sm.settings.Verbose = enabled
}
