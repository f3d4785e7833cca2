package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/domainschema/dialect"
	"github.com/syssam/domainschema/graph"
)

// config holds the settings shared by the commands. Flags win over
// DOMAINSCHEMA_* environment variables, which win over domainschema.yaml.
type config struct {
	Dialect string   `mapstructure:"dialect"`
	DSN     string   `mapstructure:"dsn"`
	Types   []string `mapstructure:"type"`
	Out     string   `mapstructure:"out"`
	Package string   `mapstructure:"package"`
	Format  string   `mapstructure:"format"`
	UUIDIDs bool     `mapstructure:"uuid-ids"`
	Workers int      `mapstructure:"workers"`
	GQLGen  string   `mapstructure:"gqlgen"`
	Model   string   `mapstructure:"model"`
	Verbose bool     `mapstructure:"verbose"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("dialect", dialect.SQLite)
	v.SetDefault("package", "models")
	v.SetDefault("format", string(graph.FormatYAML))
	v.SetDefault("workers", 4)
	v.SetConfigName("domainschema")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("DOMAINSCHEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the config file, if any, and binds flags.
func loadConfig(v *viper.Viper, file string, flags ...*pflag.FlagSet) (*config, error) {
	for _, fs := range flags {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	d, err := dialect.Parse(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	cfg.Dialect = d
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return &cfg, nil
}
