package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read by signcfg.
	EnvPrefix = "SIGNCFG"

	// DefaultPropertiesFile is where Flutter projects keep release signing keys.
	DefaultPropertiesFile = "android/key.properties"

	// DefaultAppModule is the Gradle module whose build script resolves storeFile.
	DefaultAppModule = "app"
)

type Keystore struct {
	// BaseDir is the directory a relative storeFile is resolved against.
	// Empty means the app module next to the properties file.
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"`
}

type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type Output struct {
	Format      string `yaml:"format" mapstructure:"format"`
	ShowSecrets bool   `yaml:"show_secrets" mapstructure:"show_secrets"`
}

type Config struct {
	PropertiesFile string   `yaml:"properties_file" mapstructure:"properties_file"`
	Keystore       Keystore `yaml:"keystore" mapstructure:"keystore"`
	Log            Log      `yaml:"log" mapstructure:"log"`
	Output         Output   `yaml:"output" mapstructure:"output"`
}

func Default() *Config {
	return &Config{
		PropertiesFile: DefaultPropertiesFile,
		Log:            Log{Level: "info", Format: "text"},
		Output:         Output{Format: "table"},
	}
}

// SetDefaults registers Default() values on v so environment variables
// can override keys that no config file mentions.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("properties_file", d.PropertiesFile)
	v.SetDefault("keystore.base_dir", d.Keystore.BaseDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.show_secrets", d.Output.ShowSecrets)
}

// New returns a viper instance with defaults and SIGNCFG_* environment
// bindings. When path is empty, config.yaml is searched for in
// $HOME/.signcfg and ./.signcfg.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".signcfg"))
		}
		v.AddConfigPath(".signcfg")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads the config file into v. A missing file is not an error unless
// it was named explicitly.
func Read(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// FromViper decodes v into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.PropertiesFile = ExpandPath(cfg.PropertiesFile)
	cfg.Keystore.BaseDir = ExpandPath(cfg.Keystore.BaseDir)
	return cfg, cfg.Validate()
}

// Load reads the config file at path (or the default locations) plus
// environment overrides.
func Load(path string) (*Config, error) {
	v := New(path)
	if err := Read(v, path != ""); err != nil {
		return nil, err
	}
	return FromViper(v)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.PropertiesFile) == "" {
		return fmt.Errorf("properties_file must not be empty")
	}
	switch strings.ToLower(c.Output.Format) {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q (expected table, json or yaml)", c.Output.Format)
	}
	return nil
}

// KeystoreBaseDir returns the directory a relative storeFile resolves
// against: the configured base dir, else the app module beside the
// properties file when it exists, else the properties file's directory.
func (c *Config) KeystoreBaseDir() string {
	if c.Keystore.BaseDir != "" {
		return c.Keystore.BaseDir
	}
	dir := filepath.Dir(c.PropertiesFile)
	app := filepath.Join(dir, DefaultAppModule)
	if st, err := os.Stat(app); err == nil && st.IsDir() {
		return app
	}
	return dir
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
