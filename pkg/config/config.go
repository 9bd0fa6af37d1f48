/*
Package config manages TOML config for the morphindex tools.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Corpus   CorpusConfig   `toml:"corpus"`
	Registry RegistryConfig `toml:"registry"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// CorpusConfig holds compilation options.
type CorpusConfig struct {
	Segmenter         string `toml:"segmenter"` // "char" or "lexicon"
	LexiconFile       string `toml:"lexicon_file"`
	DecompsSampleSize int    `toml:"decomps_sample_size"`
	Normalize         bool   `toml:"normalize"`
	MinWordLength     int    `toml:"min_word_length"`
	Language          string `toml:"language"`
	Encoding          string `toml:"encoding"`
}

// RegistryConfig holds where compiled corpora live.
type RegistryConfig struct {
	DataDir       string `toml:"data_dir"`
	CatalogPath   string `toml:"catalog_path"`
	DefaultCorpus string `toml:"default_corpus"`
	Format        string `toml:"format"` // "msgpack" or "json"
}

// ServerConfig has server related options.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MaxResults    int    `toml:"max_results"`
	MaxPatternLen int    `toml:"max_pattern_len"`
	CacheSize     int    `toml:"cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/morphindex
// 2. ~/Library/Application Support/morphindex (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "morphindex")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "morphindex")
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
// 2. Default path: [UserConfigDir]/morphindex/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
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

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := corpus.DefaultOptions()
	return &Config{
		Corpus: CorpusConfig{
			Segmenter:         "char",
			DecompsSampleSize: opts.DecompsSampleSize,
			Normalize:         opts.Normalize,
			MinWordLength:     opts.MinWordLength,
			Encoding:          opts.Encoding,
		},
		Registry: RegistryConfig{
			DataDir:       "data",
			CatalogPath:   "",
			DefaultCorpus: "empty",
			Format:        "msgpack",
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8087",
			MaxResults:    100,
			MaxPatternLen: 64,
			CacheSize:     256,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// CorpusOptions converts the [corpus] section to compile options.
func (c *Config) CorpusOptions() corpus.Options {
	return corpus.Options{
		DecompsSampleSize: c.Corpus.DecompsSampleSize,
		MinWordLength:     c.Corpus.MinWordLength,
		Normalize:         c.Corpus.Normalize,
		Language:          c.Corpus.Language,
		Encoding:          c.Corpus.Encoding,
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that decodes and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "registry"); ok {
		extractRegistryConfig(section, &config.Registry)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractCorpusConfig(data map[string]any, c *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "segmenter"); ok {
		c.Segmenter = val
	}
	if val, ok := utils.ExtractString(data, "lexicon_file"); ok {
		c.LexiconFile = val
	}
	if val, ok := utils.ExtractInt64(data, "decomps_sample_size"); ok {
		c.DecompsSampleSize = val
	}
	if val, ok := utils.ExtractBool(data, "normalize"); ok {
		c.Normalize = val
	}
	if val, ok := utils.ExtractInt64(data, "min_word_length"); ok {
		c.MinWordLength = val
	}
	if val, ok := utils.ExtractString(data, "language"); ok {
		c.Language = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		c.Encoding = val
	}
}

func extractRegistryConfig(data map[string]any, r *RegistryConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		r.DataDir = val
	}
	if val, ok := utils.ExtractString(data, "catalog_path"); ok {
		r.CatalogPath = val
	}
	if val, ok := utils.ExtractString(data, "default_corpus"); ok {
		r.DefaultCorpus = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		r.Format = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		server.Addr = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		server.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_pattern_len"); ok {
		server.MaxPatternLen = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
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
