package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Application setting keys.
const (
	KeyDataDir  = "data_dir"
	KeyBackend  = "backend"
	KeyLogLevel = "log_level"
)

// Settings are the tool's own options, as opposed to a launcher description.
type Settings struct {
	DataDir  string `mapstructure:"data_dir"`
	Backend  string `mapstructure:"backend"`
	LogLevel string `mapstructure:"log_level"`
}

// NewViper returns a viper instance with defaults and COILGUN_* environment
// overrides. A non-empty path is read as a settings file.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyDataDir, ".coilgun")
	v.SetDefault(KeyBackend, "files")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix("COILGUN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}
	return v, nil
}

// LoadSettings decodes the current values of v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	s.Backend = strings.ToLower(s.Backend)
	return s, nil
}
