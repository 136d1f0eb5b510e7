package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/cubeplan/pkg/cube"
	r "github.com/ethpandaops/cubeplan/pkg/redis"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// ErrCatalogsRequired is returned when no catalog path is configured
	ErrCatalogsRequired = errors.New("at least one catalog path is required")
	// ErrInvalidConcurrency is returned when the validation concurrency is below one
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
)

// CLIConfig represents the configuration shared by the CLI commands
type CLIConfig struct {
	// Logging level, used when --log-level is not given
	Logging string `yaml:"logging" default:"info"`

	// Catalogs are cube catalog files or directories
	Catalogs []string `yaml:"catalogs" default:"[\"cubes\"]"`

	// Reports are the report files validated when none are given on the command line
	Reports []string `yaml:"reports,omitempty"`

	// Concurrency bounds how many report files are validated at once
	Concurrency int `yaml:"concurrency" default:"4"`

	// Redis configuration (optional, enables the plan cache)
	Redis r.Config `yaml:"redis,omitempty"`

	Explain struct {
		// Template is a custom explain template file
		Template string `yaml:"template"`
	} `yaml:"explain,omitempty"`
}

// Validate validates the CLI configuration
func (c *CLIConfig) Validate() error {
	if len(c.Catalogs) == 0 {
		return ErrCatalogsRequired
	}

	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Redis.Enabled() {
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("invalid redis configuration: %w", err)
		}
	}

	return nil
}

// LoadCLIConfig loads CLI configuration from a YAML file
func LoadCLIConfig(path string) (*CLIConfig, error) {
	if path == "" {
		path = "cubeplan.yaml"
	}

	config := &CLIConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	// Try to read the file, but allow it to not exist
	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}

// setup loads and validates the configuration, applies its log level and loads the catalogs
func setup(cmd *cobra.Command) (*CLIConfig, *cube.Repository, error) {
	// Silence usage on error
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, nil, validationErr
	}

	if !cmd.Flags().Changed("log-level") {
		if level, parseErr := logrus.ParseLevel(cfg.Logging); parseErr == nil {
			logger.SetLevel(level)
		}
	}

	repo, err := cube.LoadCatalogs(cfg.Catalogs)
	if err != nil {
		return nil, nil, err
	}

	logger.WithField("cubes", repo.Names()).Debug("Loaded cube catalogs")

	return cfg, repo, nil
}
