package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort        string `yaml:"server_port"`
	GinMode           string `yaml:"gin_mode"`
	LogLevel          string `yaml:"log_level"`
	TesseractDataPath string `yaml:"tessdata_prefix"`
	TesseractLanguage string `yaml:"tesseract_language"`
	MaxFileSize       int64  `yaml:"max_file_size"`
	MaxBatchFiles     int    `yaml:"max_batch_files"`
	BatchWorkers      int    `yaml:"batch_workers"`
	// MinPDFTextChars is the text-layer length below which a PDF is treated as scanned.
	MinPDFTextChars int `yaml:"min_pdf_text_chars"`
}

func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		GinMode:           "release",
		LogLevel:          "info",
		TesseractDataPath: "/usr/share/tesseract-ocr/5/tessdata/",
		TesseractLanguage: "eng",
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
		MaxBatchFiles:     10,
		BatchWorkers:      4,
		MinPDFTextChars:   20,
	}
}

// LoadConfig reads .env (if present), then the YAML file named by CONFIG_FILE (if set),
// then environment variables, each layer overriding the previous one.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.ServerPort, "SERVER_PORT")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.TesseractDataPath, "TESSDATA_PREFIX")
	setString(&c.TesseractLanguage, "TESSERACT_LANGUAGE")

	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_FILE_SIZE %q: %w", v, err)
		}
		c.MaxFileSize = n
	}

	ints := map[string]*int{
		"MAX_BATCH_FILES":    &c.MaxBatchFiles,
		"BATCH_WORKERS":      &c.BatchWorkers,
		"MIN_PDF_TEXT_CHARS": &c.MinPDFTextChars,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("batch workers must be at least 1, got %d", c.BatchWorkers)
	}
	if c.MaxBatchFiles < 1 {
		return fmt.Errorf("max batch files must be at least 1, got %d", c.MaxBatchFiles)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
