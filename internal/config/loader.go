package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file over the defaults, pulls the translation
// credential from the environment and validates the result. An empty path
// means defaults only.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := decodeFile(filePath, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

func decodeFile(filePath string, cfg *Config) (err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close config file: %w", closeErr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// loadEnvFiles loads ENV_FILE if set, otherwise .env.local then .env.
// Missing files are not an error; variables already set win.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv fills secrets from the process environment.
func (c *Config) ApplyEnv() {
	name := c.Translation.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	c.Translation.APIKey = os.Getenv(name)
}
