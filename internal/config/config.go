// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"meddoc-anonymizer/internal/redactors"
	"meddoc-anonymizer/internal/redactors/strategies"
)

const (
	// DefaultThreshold is the minimum confidence for a category without an explicit threshold.
	DefaultThreshold = 0.3

	// DefaultMaxInputBytes bounds a single document.
	DefaultMaxInputBytes int64 = 100 << 20

	// DefaultBatchMaxSize bounds the number of documents in one batch request.
	DefaultBatchMaxSize = 100

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MEDDOC_"
)

// Config represents the application configuration
type Config struct {
	// Default settings for the CLI
	Defaults struct {
		Format  string   `yaml:"format"`
		Types   []string `yaml:"types"`
		Debug   bool     `yaml:"debug"`
		NoColor bool     `yaml:"no_color"`
	} `yaml:"defaults"`

	Pipeline PipelineConfig `yaml:"pipeline"`
	Model    ModelConfig    `yaml:"model"`
	Batch    BatchConfig    `yaml:"batch"`

	// Thresholds maps entity types to their minimum confidence.
	Thresholds map[string]float64 `yaml:"thresholds"`

	Operators OperatorsConfig `yaml:"operators"`

	// Detectors overrides detector settings keyed by entity type.
	Detectors map[string]DetectorConfig `yaml:"detectors"`

	// AllowList holds exact span texts that are never reported.
	AllowList []string `yaml:"allow_list"`

	// Profiles for different deployment scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// PipelineConfig holds request validation and language settings.
type PipelineConfig struct {
	MaxInputBytes    int64    `yaml:"max_input_bytes"`
	AllowedLanguages []string `yaml:"allowed_languages"`
	DefaultLanguage  string   `yaml:"default_language"`
	DefaultThreshold float64  `yaml:"default_threshold"`
}

// ModelConfig configures the external entity-extraction model.
type ModelConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxRetries        int           `yaml:"max_retries"`
}

// BatchConfig bounds batch processing.
type BatchConfig struct {
	Workers int `yaml:"workers"`
	MaxSize int `yaml:"max_size"`
}

// OperatorsConfig selects how accepted spans are rewritten.
type OperatorsConfig struct {
	Default  OperatorEntry            `yaml:"default"`
	MaskChar string                   `yaml:"mask_char"`
	PerType  map[string]OperatorEntry `yaml:"per_type"`
}

// OperatorEntry is one operator choice.
type OperatorEntry struct {
	Operator string `yaml:"operator"`
	Template string `yaml:"template,omitempty"`
}

// DetectorConfig overrides one detector. Nil fields keep the built-in values.
type DetectorConfig struct {
	Enabled      *bool    `yaml:"enabled"`
	ContextWords []string `yaml:"context_words"`
	ContextBoost *float64 `yaml:"context_boost"`
}

// IsEnabled reports whether the detector should be registered.
func (d DetectorConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// Profile represents a deployment profile with specific settings
type Profile struct {
	Description      string             `yaml:"description"`
	DefaultThreshold float64            `yaml:"default_threshold"`
	Thresholds       map[string]float64 `yaml:"thresholds"`
	MaxInputBytes    int64              `yaml:"max_input_bytes"`
	BatchMaxSize     int                `yaml:"batch_max_size"`
	Format           string             `yaml:"format"`
	Debug            bool               `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{
		Thresholds: make(map[string]float64),
		Detectors:  make(map[string]DetectorConfig),
		Profiles:   make(map[string]Profile),
	}

	config.Defaults.Format = "text"

	config.Pipeline.MaxInputBytes = DefaultMaxInputBytes
	config.Pipeline.AllowedLanguages = []string{"cs", "en"}
	config.Pipeline.DefaultLanguage = "cs"
	config.Pipeline.DefaultThreshold = DefaultThreshold

	config.Model.Timeout = 5 * time.Second
	config.Model.RequestsPerSecond = 20
	config.Model.Burst = 5
	config.Model.MaxRetries = 2

	config.Batch.Workers = runtime.NumCPU()
	config.Batch.MaxSize = DefaultBatchMaxSize

	config.Operators.Default = OperatorEntry{Operator: "replace"}
	config.Operators.MaskChar = string(redactors.DefaultMaskChar)

	config.Profiles["development"] = Profile{
		Description:      "Local work: permissive threshold and small batches",
		DefaultThreshold: 0.6,
		MaxInputBytes:    50 << 20,
		BatchMaxSize:     50,
		Debug:            true,
	}
	config.Profiles["production"] = Profile{
		Description:      "Production deployment: strict threshold and large batches",
		DefaultThreshold: 0.7,
		MaxInputBytes:    200 << 20,
		BatchMaxSize:     200,
		Format:           "json",
	}
	config.Profiles["testing"] = Profile{
		Description:      "Automated tests: low threshold and tight limits",
		DefaultThreshold: 0.5,
		MaxInputBytes:    10 << 20,
		BatchMaxSize:     10,
	}

	return config
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// An endpoint in the file turns the model on unless it is explicitly disabled
	if config.Model.Endpoint != "" && !containsField(data, "model", "enabled") {
		config.Model.Enabled = true
	}

	normalize(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in the working directory and
// then in the user configuration directory. It returns "" when none exists.
func FindConfigFile() string {
	for _, name := range []string{"meddoc.yaml", "meddoc.yml", ".meddoc-anonymizer.yaml", ".meddoc-anonymizer.yml"} {
		if fileExists(name) {
			return name
		}
	}

	// os.UserConfigDir honours XDG_CONFIG_HOME on Unix and APPDATA on Windows
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.yaml", "config.yml"} {
			candidate := filepath.Join(dir, "meddoc-anonymizer", name)
			if fileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a sorted list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays a named profile on the configuration. Zero-valued
// profile fields leave the current value in place.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.DefaultThreshold > 0 {
		c.Pipeline.DefaultThreshold = profile.DefaultThreshold
	}
	if c.Thresholds == nil {
		c.Thresholds = make(map[string]float64)
	}
	for entityType, threshold := range profile.Thresholds {
		c.Thresholds[strings.ToUpper(entityType)] = threshold
	}
	if profile.MaxInputBytes > 0 {
		c.Pipeline.MaxInputBytes = profile.MaxInputBytes
	}
	if profile.BatchMaxSize > 0 {
		c.Batch.MaxSize = profile.BatchMaxSize
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.Debug {
		c.Defaults.Debug = true
	}
	return ValidateConfig(c)
}

// ApplyEnv loads .env files (missing files are ignored) and applies MEDDOC_*
// variables on top of the configuration. Variables already set in the
// process environment win over .env values.
func (c *Config) ApplyEnv(envFiles ...string) error {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if fileExists(f) {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	}

	var errs []error
	if v, ok := lookupEnv("DEFAULT_LANGUAGE"); ok {
		c.Pipeline.DefaultLanguage = v
	}
	if v, ok := lookupEnv("ALLOWED_LANGUAGES"); ok {
		c.Pipeline.AllowedLanguages = splitList(v)
	}
	if v, ok := lookupEnv("MAX_INPUT_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envError("MAX_INPUT_BYTES", err))
		if err == nil {
			c.Pipeline.MaxInputBytes = n
		}
	}
	if v, ok := lookupEnv("THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, envError("THRESHOLD", err))
		if err == nil {
			c.Pipeline.DefaultThreshold = f
		}
	}
	if v, ok := lookupEnv("OPERATOR"); ok {
		c.Operators.Default.Operator = v
	}
	if v, ok := lookupEnv("MODEL_ENDPOINT"); ok {
		c.Model.Endpoint = v
		c.Model.Enabled = v != ""
	}
	if v, ok := lookupEnv("MODEL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envError("MODEL_TIMEOUT", err))
		if err == nil {
			c.Model.Timeout = d
		}
	}
	if v, ok := lookupEnv("BATCH_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envError("BATCH_WORKERS", err))
		if err == nil {
			c.Batch.Workers = n
		}
	}
	if v, ok := lookupEnv("BATCH_MAX_SIZE"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envError("BATCH_MAX_SIZE", err))
		if err == nil {
			c.Batch.MaxSize = n
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	normalize(c)
	return ValidateConfig(c)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	return strings.TrimSpace(v), ok
}

func envError(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalize upper-cases entity keys and lower-cases language codes.
func normalize(c *Config) {
	c.Pipeline.DefaultLanguage = strings.ToLower(c.Pipeline.DefaultLanguage)
	for i, lang := range c.Pipeline.AllowedLanguages {
		c.Pipeline.AllowedLanguages[i] = strings.ToLower(strings.TrimSpace(lang))
	}

	thresholds := make(map[string]float64, len(c.Thresholds))
	for k, v := range c.Thresholds {
		thresholds[strings.ToUpper(k)] = v
	}
	c.Thresholds = thresholds

	detectors := make(map[string]DetectorConfig, len(c.Detectors))
	for k, v := range c.Detectors {
		detectors[strings.ToUpper(k)] = v
	}
	c.Detectors = detectors

	if c.Operators.PerType != nil {
		perType := make(map[string]OperatorEntry, len(c.Operators.PerType))
		for k, v := range c.Operators.PerType {
			perType[strings.ToUpper(k)] = v
		}
		c.Operators.PerType = perType
	}
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}

	current := raw
	for i, key := range path {
		val, exists := current[key]
		if !exists {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := val.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateConfig validates thresholds, limits, languages and operators.
func ValidateConfig(config *Config) error {
	var errs []error

	if config.Pipeline.MaxInputBytes <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_input_bytes must be positive, got %d", config.Pipeline.MaxInputBytes))
	}
	if err := validateThreshold("pipeline.default_threshold", config.Pipeline.DefaultThreshold); err != nil {
		errs = append(errs, err)
	}
	for entityType, threshold := range config.Thresholds {
		if err := validateThreshold("thresholds."+entityType, threshold); err != nil {
			errs = append(errs, err)
		}
	}

	if len(config.Pipeline.AllowedLanguages) == 0 {
		errs = append(errs, errors.New("pipeline.allowed_languages must not be empty"))
	}
	if config.Pipeline.DefaultLanguage != "" && !config.LanguageAllowed(config.Pipeline.DefaultLanguage) {
		errs = append(errs, fmt.Errorf("pipeline.default_language %q is not in allowed_languages", config.Pipeline.DefaultLanguage))
	}

	if config.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1, got %d", config.Batch.Workers))
	}
	if config.Batch.MaxSize < 1 {
		errs = append(errs, fmt.Errorf("batch.max_size must be at least 1, got %d", config.Batch.MaxSize))
	}

	if config.Model.Enabled && strings.TrimSpace(config.Model.Endpoint) == "" {
		errs = append(errs, errors.New("model.endpoint is required when the model is enabled"))
	}
	if config.Model.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("model.max_retries must not be negative, got %d", config.Model.MaxRetries))
	}

	for entityType, d := range config.Detectors {
		if d.ContextBoost != nil {
			if err := validateThreshold("detectors."+entityType+".context_boost", *d.ContextBoost); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if _, err := config.OperatorConfig(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateThreshold(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0,1], got %v", field, v)
	}
	return nil
}

// LanguageAllowed reports whether lang is one of the allowed languages.
func (c *Config) LanguageAllowed(lang string) bool {
	lang = strings.ToLower(lang)
	for _, allowed := range c.Pipeline.AllowedLanguages {
		if allowed == lang {
			return true
		}
	}
	return false
}

// ThresholdFor returns the minimum confidence for an entity type.
func (c *Config) ThresholdFor(entityType string) float64 {
	if t, ok := c.Thresholds[entityType]; ok {
		return t
	}
	return c.Pipeline.DefaultThreshold
}

// OperatorConfig converts the operator settings to the rewrite engine form.
func (c *Config) OperatorConfig() (redactors.OperatorConfig, error) {
	ops := redactors.DefaultOperatorConfig()

	spec, err := operatorSpec("operators.default", c.Operators.Default)
	if err != nil {
		return ops, err
	}
	ops.Default = spec

	if c.Operators.MaskChar != "" {
		r, size := utf8.DecodeRuneInString(c.Operators.MaskChar)
		if size != len(c.Operators.MaskChar) {
			return ops, fmt.Errorf("operators.mask_char must be a single character, got %q", c.Operators.MaskChar)
		}
		if err := strategies.ValidateMaskChar(r); err != nil {
			return ops, fmt.Errorf("operators.mask_char: %w", err)
		}
		ops.MaskChar = r
	}

	if len(c.Operators.PerType) > 0 {
		ops.PerType = make(map[string]redactors.OperatorSpec, len(c.Operators.PerType))
		for entityType, entry := range c.Operators.PerType {
			spec, err := operatorSpec("operators.per_type."+entityType, entry)
			if err != nil {
				return ops, err
			}
			ops.PerType[strings.ToUpper(entityType)] = spec
		}
	}
	return ops, nil
}

func operatorSpec(field string, entry OperatorEntry) (redactors.OperatorSpec, error) {
	op, err := redactors.ParseOperator(entry.Operator)
	if err != nil {
		return redactors.OperatorSpec{}, fmt.Errorf("%s: %w", field, err)
	}
	if err := strategies.ValidateTemplate(entry.Template); err != nil {
		return redactors.OperatorSpec{}, fmt.Errorf("%s: %w", field, err)
	}
	return redactors.OperatorSpec{Operator: op, Template: entry.Template}, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	if configFile == "" {
		configFile = FindConfigFile()
	}
	if configFile != "" {
		if cfg, err := LoadConfig(configFile); err == nil {
			return cfg
		}
	}
	return Default()
}
