/*
Package config manages TOML config for kanakey services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mizutok/kanakey/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Dict    DictConfig    `toml:"dict"`
	Context ContextConfig `toml:"context"`
	Learn   LearnConfig   `toml:"learn"`
	Rules   RulesConfig   `toml:"rules"`
	Kanji   KanjiConfig   `toml:"kanji"`
}

// ServerConfig has request handling options.
type ServerConfig struct {
	MaxSuggestions  int     `toml:"max_suggestions"`
	DefaultLanguage string  `toml:"default_language"`
	Temperature     float64 `toml:"temperature"`
}

// DictConfig holds custom dictionary options.
type DictConfig struct {
	Path          string `toml:"path"`
	EnableWatcher bool   `toml:"enable_watcher"`
}

// ContextConfig bounds the disambiguation window.
type ContextConfig struct {
	WindowRunes int `toml:"window_runes"`
}

// LearnConfig holds selection tracking options.
type LearnConfig struct {
	Path       string `toml:"path"`
	FlushEvery int    `toml:"flush_every"`
}

// RulesConfig points at the YAML language rules. An empty path uses the
// builtin rule set.
type RulesConfig struct {
	Path string `toml:"path"`
}

// KanjiConfig points at the homonym resource directory. An empty dir uses
// the embedded resources.
type KanjiConfig struct {
	Dir string `toml:"dir"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "kanakey")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "kanakey")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/kanakey/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxSuggestions:  5,
			DefaultLanguage: "en",
			Temperature:     1.0,
		},
		Dict: DictConfig{
			Path:          "",
			EnableWatcher: false,
		},
		Context: ContextConfig{
			WindowRunes: 20,
		},
		Learn: LearnConfig{
			Path:       "",
			FlushEvery: 10,
		},
		Rules: RulesConfig{
			Path: "",
		},
		Kanji: KanjiConfig{
			Dir: "",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep
// their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxSuggestions *int, defaultLanguage *string, temperature *float64) error {
	server := &c.Server
	if maxSuggestions != nil {
		server.MaxSuggestions = *maxSuggestions
	}
	if defaultLanguage != nil {
		server.DefaultLanguage = *defaultLanguage
	}
	if temperature != nil {
		server.Temperature = *temperature
	}
	return SaveConfig(c, configPath)
}
