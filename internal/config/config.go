package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/coopsaude/escala/pkg/core/model"
)

// ScheduleRule is a named recurrence used to expand batch creation dates
// (e.g. "every Monday and Thursday" for a recurring home-care contract)
type ScheduleRule struct {
	Name        string `yaml:"name" validate:"required"`
	RRule       string `yaml:"rrule" validate:"required"`
	ServiceType string `yaml:"serviceType,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL   string         `yaml:"databaseURL" validate:"required"`
	DefaultRole   string         `yaml:"defaultRole,omitempty" validate:"omitempty,oneof=manager scheduler"`
	ScheduleRules []ScheduleRule `yaml:"scheduleRules,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from escala_config.yaml
// in the current directory, falling back to the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile("escala_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads the configuration for a named environment,
// e.g. escala_test_config.yaml for env "test"
func LoadWithEnv(env string) (*Config, error) {
	fileName := fmt.Sprintf("escala_%s_config.yaml", env)
	configPath, err := findConfigFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file for env %q: %w", env, err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the schedule rule
// recurrence syntax and the service type codes
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.ScheduleRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in scheduleRules[%d] (%s): %w", i, rule.Name, err)
		}
		if rule.ServiceType != "" {
			if _, err := model.ParseServiceType(rule.ServiceType); err != nil {
				return fmt.Errorf("invalid service type in scheduleRules[%d] (%s): %w", i, rule.Name, err)
			}
		}
	}

	return nil
}

// FindScheduleRule returns the named schedule rule, if configured
func (c *Config) FindScheduleRule(name string) (*ScheduleRule, bool) {
	for i := range c.ScheduleRules {
		if c.ScheduleRules[i].Name == name {
			return &c.ScheduleRules[i], true
		}
	}
	return nil, false
}

// findConfigFile searches for the config file in the current directory
// and then the home directory
func findConfigFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", fileName)
}
