package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OCRConfig configures the Tesseract engine used for images.
type OCRConfig struct {
	Engine    string            `yaml:"engine"`
	Languages []string          `yaml:"languages"`
	DPI       int               `yaml:"dpi"`
	Variables map[string]string `yaml:"variables,omitempty"`
}

// ExtractorConfig configures text extraction from uploads.
type ExtractorConfig struct {
	MaxFileMB        int       `yaml:"max_file_mb"`
	NormalizeUnicode bool      `yaml:"normalize_unicode"`
	OCR              OCRConfig `yaml:"ocr"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type   string `yaml:"type"`
	Length string `yaml:"length"`
}

// StoreConfig bounds the in-memory document store.
type StoreConfig struct {
	MaxDocuments int `yaml:"max_documents"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr             string   `yaml:"addr"`
	ReadTimeoutSecs  int      `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int      `yaml:"write_timeout_secs"`
	AllowedOrigins   []string `yaml:"allowed_origins,omitempty"`
}

// LogConfig configures logging. File enables a rotating log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// MaxFileBytes returns the extractor size limit in bytes.
func (c *AppConfig) MaxFileBytes() int64 {
	return int64(c.Extractor.MaxFileMB) << 20
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docsum/config.yaml.
// If neither exists, it writes defaults to ~/.config/docsum/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docsum", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Extractor: ExtractorConfig{
			MaxFileMB:        20,
			NormalizeUnicode: true,
			OCR:              OCRConfig{Engine: "tesseract", Languages: []string{"eng"}},
		},
		Summarizer: SummarizerConfig{Type: "heuristic", Length: "short"},
		Store:      StoreConfig{MaxDocuments: 32},
		Server:     ServerConfig{Addr: ":8080", ReadTimeoutSecs: 60, WriteTimeoutSecs: 60},
		Log:        LogConfig{Level: "info", Format: "text", MaxSizeMB: 15, MaxBackups: 3, MaxAgeDays: 28},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Extractor.MaxFileMB <= 0 {
		cfg.Extractor.MaxFileMB = 20
	}
	if cfg.Extractor.OCR.Engine == "" {
		cfg.Extractor.OCR.Engine = "tesseract"
	}
	if len(cfg.Extractor.OCR.Languages) == 0 {
		cfg.Extractor.OCR.Languages = []string{"eng"}
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "heuristic"
	}
	if cfg.Summarizer.Length == "" {
		cfg.Summarizer.Length = "short"
	}
	if cfg.Store.MaxDocuments <= 0 {
		cfg.Store.MaxDocuments = 32
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// applyEnvOverrides lets DOCSUM_* variables (also read from .env) win over the file.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DOCSUM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DOCSUM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DOCSUM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DOCSUM_OCR_LANGUAGES"); v != "" {
		var langs []string
		for _, l := range strings.Split(v, "+") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		if len(langs) > 0 {
			cfg.Extractor.OCR.Languages = langs
		}
	}
}
