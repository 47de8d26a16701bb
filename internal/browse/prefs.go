package browse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prefs 需要跨次运行保留的那部分状态
type Prefs struct {
	Favorites []string `yaml:"favorites"`
	Theme     string   `yaml:"theme"`
	SortBy    SortKey  `yaml:"sort_by"`
}

// DefaultPrefsPath $XDG_CONFIG_HOME/zenith/prefs.yaml（各平台对应的用户配置目录）
func DefaultPrefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "zenith", "prefs.yaml"), nil
}

// LoadPrefs 文件不存在时返回默认值
func LoadPrefs(path string) (Prefs, error) {
	p := Prefs{Theme: ThemeDark, SortBy: SortCreatedAt}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if p.Theme != ThemeLight {
		p.Theme = ThemeDark
	}
	if _, err := ParseSortKey(string(p.SortBy)); err != nil {
		p.SortBy = SortCreatedAt
	}
	return p, nil
}

// SavePrefs 先写临时文件再 rename，避免写一半
func SavePrefs(path string, p Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Apply 启动时把持久化的偏好写回状态
func (p Prefs) Apply(s *State) {
	s.Favorites = append([]string(nil), p.Favorites...)
	s.Theme = p.Theme
	s.SortBy = p.SortBy
}

// PrefsOf 从当前状态取出需要保存的部分
func PrefsOf(s *State) Prefs {
	return Prefs{
		Favorites: append([]string(nil), s.Favorites...),
		Theme:     s.Theme,
		SortBy:    s.SortBy,
	}
}
