package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samsaffron/editrender/internal/cache"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "editrender"

type Config struct {
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	UI     UIConfig     `mapstructure:"ui" yaml:"ui"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// RenderConfig controls HTML rendering.
type RenderConfig struct {
	CharDiff    bool     `mapstructure:"char_diff" yaml:"char_diff"`       // Character-level highlights on changed line pairs
	Highlight   bool     `mapstructure:"highlight" yaml:"highlight"`       // Syntax highlighting in diffs
	CopyButtons bool     `mapstructure:"copy_buttons" yaml:"copy_buttons"` // Copy buttons on finalized code blocks
	FileRefs    bool     `mapstructure:"file_refs" yaml:"file_refs"`       // Mark inline code naming known files
	KnownPaths  []string `mapstructure:"known_paths" yaml:"known_paths"`   // Extra paths treated as known files
}

// UIConfig controls the terminal preview.
type UIConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"` // chroma style name
	Width int    `mapstructure:"width" yaml:"width"` // 0 detects the terminal width
}

// CacheConfig controls the finalized render cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.char_diff", true)
	v.SetDefault("render.highlight", true)
	v.SetDefault("render.copy_buttons", true)
	v.SetDefault("render.file_refs", true)
	v.SetDefault("render.known_paths", []string{})
	v.SetDefault("ui.theme", "monokai")
	v.SetDefault("ui.width", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "")
	v.SetDefault("log.level", "warn")
}

// Load reads the config file at path, or config.yaml from the config
// directory and the working directory when path is empty. A missing file is
// not an error. EDITRENDER_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		configPath, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configPath)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.UI.Theme = expandEnv(cfg.UI.Theme)
	cfg.Cache.Path = expandPath(expandEnv(cfg.Cache.Path))
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = cache.DefaultPath()
	}
	for i, p := range cfg.Render.KnownPaths {
		cfg.Render.KnownPaths[i] = expandEnv(p)
	}

	return &cfg, nil
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// expandPath replaces a leading ~/ with the home directory.
func expandPath(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// GetConfigDir returns the XDG config directory for editrender.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

// Save writes cfg to path, creating its directory.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := Marshal(cfg)
	if err != nil {
		return err
	}
	content := "# editrender configuration\n" +
		"# ui.theme accepts any chroma style name (monokai, dracula, github, ...)\n" +
		string(body)
	return os.WriteFile(path, []byte(content), 0600)
}
