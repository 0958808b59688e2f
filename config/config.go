/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the settings of an entity application from a YAML or
// TOML file, overlays environment variables and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/tomoncle/entity/database"
	"github.com/tomoncle/entity/utils"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

type LoggingConfig struct {
	Level         string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	ConsoleFormat string `json:"console_format" yaml:"console_format" toml:"console_format" validate:"omitempty,oneof=text json"`
	File          string `json:"file" yaml:"file" toml:"file"`
	FileFormat    string `json:"file_format" yaml:"file_format" toml:"file_format" validate:"omitempty,oneof=text json"`
	MaxSizeMB     int    `json:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" validate:"gte=0"`
	MaxBackups    int    `json:"max_backups" yaml:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAgeDays    int    `json:"max_age_days" yaml:"max_age_days" toml:"max_age_days" validate:"gte=0"`
	Compress      bool   `json:"compress" yaml:"compress" toml:"compress"`
}

type Config struct {
	Database database.ConnectionConfig `json:"database" yaml:"database" toml:"database"`
	Logging  LoggingConfig             `json:"logging" yaml:"logging" toml:"logging"`
}

// Default returns an in-memory SQLite configuration logging at info level.
func Default() *Config {
	return &Config{
		Database: *database.DefaultConnectionConfig(),
		Logging: LoggingConfig{
			Level:         "info",
			ConsoleFormat: "text",
			FileFormat:    "text",
			MaxSizeMB:     100,
			MaxBackups:    7,
			MaxAgeDays:    30,
		},
	}
}

// Load reads path on top of Default. The format follows the extension:
// .yaml and .yml for YAML, .toml for TOML. Environment overrides are not
// applied; see ApplyEnv.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the DB_* variables and LOG_LEVEL, LOG_FILE,
// CONSOLE_LOG_FORMAT onto c.
func (c *Config) ApplyEnv() {
	database.ApplyEnv(&c.Database)
	c.Logging.Level = utils.EnvDefaultString("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = utils.EnvDefaultString("LOG_FILE", c.Logging.File)
	c.Logging.ConsoleFormat = utils.EnvDefaultString("CONSOLE_LOG_FORMAT", c.Logging.ConsoleFormat)
}

// Validate normalizes the database type and checks every field constraint.
func (c *Config) Validate() error {
	c.Database.Type = c.Database.NormalizedType()
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyLogging configures the utils loggers from c.Logging.
func (c *Config) ApplyLogging() error {
	utils.ConfigureLogLevel(c.Logging.Level)
	utils.ConfigureConsoleLogFormat(c.Logging.ConsoleFormat)
	utils.ConfigureFileLogFormat(c.Logging.FileFormat)
	return utils.ConfigureFileLog(utils.FileLogOptions{
		Path:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	})
}
