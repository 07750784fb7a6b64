package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredSettings []string
	RequiredSecrets  []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredSettings: []string{"SERVER_PORT", "DB_DRIVER"},
			RequiredSecrets:  []string{"jwt_secret", "pin_hash"},
		},
		Test: {
			RequiredSettings: []string{"SERVER_PORT", "DB_DRIVER"},
			RequiredSecrets:  []string{"jwt_secret"},
		},
		CI: {
			RequiredSettings: []string{"SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_NAME"},
			RequiredSecrets:  []string{"jwt_secret", "db_password"},
		},
		Production: {
			RequiredSettings: []string{"SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_NAME", "REDIS_URL"},
			RequiredSecrets:  []string{"jwt_secret", "pin_hash", "db_password", "assistant_api_key"},
		},
	}
)

func settingValue(cfg *Config, name string) string {
	switch name {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "DB_DRIVER":
		return cfg.DBDriver
	case "DB_HOST":
		return cfg.DBHost
	case "DB_NAME":
		return cfg.DBName
	case "REDIS_URL":
		if cfg.RedisURL != "" {
			return cfg.RedisURL
		}
		return cfg.RedisHost
	}
	return ""
}

func secretValue(cfg *Config, name string) string {
	if name == "assistant_api_key" {
		return cfg.AssistantAPIKey()
	}
	if dst, ok := secretTargets(cfg)[name]; ok {
		return *dst
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []string

	for _, name := range reqs.RequiredSettings {
		if settingValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "required setting is not set"}.Error())
		}
	}

	for _, name := range reqs.RequiredSecrets {
		// sqlite has no password
		if name == "db_password" && cfg.DBDriver == "sqlite" {
			continue
		}
		if secretValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "required secret is not set"}.Error())
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	switch cfg.AssistantProvider {
	case "gemini", "deepseek":
	default:
		errs = append(errs, ValidationError{Field: "ASSISTANT_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.AssistantProvider)}.Error())
	}

	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
