package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	EnvClassifierBaseURL     = "CROPSIGHT_CLASSIFIER_BASE_URL"
	EnvClassifierPredictPath = "CROPSIGHT_CLASSIFIER_PREDICT_PATH"
	EnvClassifierTimeout     = "CROPSIGHT_CLASSIFIER_TIMEOUT"
	EnvClassifierMaxParallel = "CROPSIGHT_CLASSIFIER_MAX_PARALLEL"
)

// ClassifierConfig holds connection parameters for the external
// leaf classification service.
type ClassifierConfig struct {
	BaseURL     string `toml:"base_url"`
	PredictPath string `toml:"predict_path"`
	Timeout     string `toml:"timeout"`
	MaxParallel int    `toml:"max_parallel"`
}

// PredictURL returns the full prediction endpoint URL.
func (c *ClassifierConfig) PredictURL() string {
	return c.BaseURL + c.PredictPath
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *ClassifierConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(overlay *ClassifierConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.PredictPath != "" {
		c.PredictPath = overlay.PredictPath
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxParallel != 0 {
		c.MaxParallel = overlay.MaxParallel
	}
}

func (c *ClassifierConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8000"
	}
	if c.PredictPath == "" {
		c.PredictPath = "/predict"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 4
	}
}

func (c *ClassifierConfig) loadEnv() {
	if v := os.Getenv(EnvClassifierBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvClassifierPredictPath); v != "" {
		c.PredictPath = v
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvClassifierMaxParallel); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxParallel = n
		}
	}
}

func (c *ClassifierConfig) validate() error {
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxParallel < 1 {
		return fmt.Errorf("max_parallel must be positive")
	}
	return nil
}
