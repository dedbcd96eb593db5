package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Viper keys.
const (
	KeyDatabasePath  = "database.path"
	KeyGradebookDir  = "gradebook.dir"
	KeyGradebookName = "gradebook.name"
	KeyMaxTier       = "catalog.max_tier"
	KeyPlain         = "ui.plain"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

// Default values used when neither the config file nor the environment sets a key.
const (
	DefaultDatabasePath  = "$HOME/.local/share/grade/catalog.db"
	DefaultGradebookDir  = "$HOME/.local/share/grade/gradebooks"
	DefaultGradebookName = "default"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

var settingsValidate = validator.New()

// Config is the resolved application configuration.
type Config struct {
	DatabasePath  string `validate:"required"`
	GradebookDir  string `validate:"required"`
	GradebookName string `validate:"required,excludesall=/\\"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogFormat     string `validate:"oneof=console json"`
	MaxTier       int    `validate:"gte=1,lte=99"`
	Plain         bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyGradebookDir, DefaultGradebookDir)
	v.SetDefault(KeyGradebookName, DefaultGradebookName)
	v.SetDefault(KeyMaxTier, model.DefaultMaxTier)
	v.SetDefault(KeyPlain, false)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// Load resolves the configuration from v, expanding paths and validating values.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:  ExpandPath(v.GetString(KeyDatabasePath)),
		GradebookDir:  ExpandPath(v.GetString(KeyGradebookDir)),
		GradebookName: strings.TrimSpace(v.GetString(KeyGradebookName)),
		MaxTier:       v.GetInt(KeyMaxTier),
		Plain:         v.GetBool(KeyPlain),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:     strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if err := settingsValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, fmt.Errorf("%w: %s failed %q (got %v)", common.ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	return cfg, nil
}
