package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	OCR     OCRConfig
	Analyze AnalyzeConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
	MinTextChars  int
}

// AnalyzeConfig holds analysis defaults and report options
type AnalyzeConfig struct {
	OriginCountry      string
	DestinationCountry string
	IncludeDebug       bool
	PreviewChars       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 20<<20)),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("OCR_DPI", 220),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 3),
			MinTextChars:  getEnvAsInt("OCR_MIN_TEXT_CHARS", 350),
		},
		Analyze: AnalyzeConfig{
			OriginCountry:      getEnv("DEFAULT_ORIGIN_COUNTRY", "IN"),
			DestinationCountry: getEnv("DEFAULT_DESTINATION_COUNTRY", "AE"),
			IncludeDebug:       getEnvAsBool("INCLUDE_DEBUG", true),
			PreviewChars:       getEnvAsInt("DEBUG_PREVIEW_CHARS", 1500),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.OCR.MaxPages <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_PAGES must be positive", ErrInvalidInput)
	}
	if len(c.Analyze.OriginCountry) != 2 || len(c.Analyze.DestinationCountry) != 2 {
		return NewAppError("CONFIG_ERROR", "route country codes must be 2 letters", ErrInvalidInput)
	}
	return nil
}
