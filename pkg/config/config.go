package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// Config aggregates every module of the agent.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Monitor MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	Log     ZapLogConfig  `yaml:"log" mapstructure:"log"`
}

// ServerConfig holds the HTTP exposure settings. Timeouts are time.Duration
// so "30s" style values parse from yaml, env and flags alike.
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" env:"HTTP_ADDR" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" env:"HTTP_READ_TIMEOUT" validate:"required,gt=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" env:"HTTP_WRITE_TIMEOUT" validate:"required,gt=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" validate:"required,gt=0"`
}

// MonitorConfig holds the collection settings.
type MonitorConfig struct {
	Interval   time.Duration   `yaml:"interval" mapstructure:"interval" env:"MONITOR_INTERVAL" validate:"required,gt=0"`
	Collectors CollectorConfig `yaml:"collectors" mapstructure:"collectors"`
}

// CollectorConfig groups the per-source collector settings.
type CollectorConfig struct {
	Disk DiskSourceConfig `yaml:"disk" mapstructure:"disk"`
}

// DiskSourceConfig configures the kernel diskstats source.
type DiskSourceConfig struct {
	Enable        bool     `yaml:"enable" mapstructure:"enable" env:"COLLECTOR_DISK_ENABLE"`
	Path          string   `yaml:"path" mapstructure:"path" env:"COLLECTOR_DISK_PATH" validate:"required"`
	Prefix        string   `yaml:"prefix" mapstructure:"prefix" env:"COLLECTOR_DISK_PREFIX" validate:"required"`
	IgnoreDevices []string `yaml:"ignore_devices" mapstructure:"ignore_devices" env:"COLLECTOR_DISK_IGNORE_DEVICES"`
}

// ZapLogConfig holds the logging settings.
type ZapLogConfig struct {
	Level     string `yaml:"level" mapstructure:"level" env:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	Format    string `yaml:"format" mapstructure:"format" env:"LOG_FORMAT" validate:"required,oneof=json console"`
	Path      string `yaml:"path" mapstructure:"path" env:"LOG_PATH" validate:"required"`
	MaxSize   int    `yaml:"max_size" mapstructure:"max_size" env:"LOG_MAX_SIZE" validate:"required,gt=0"`
	MaxBackup int    `yaml:"max_backup" mapstructure:"max_backup" env:"LOG_MAX_BACKUP" validate:"gte=0"`
	MaxAge    int    `yaml:"max_age" mapstructure:"max_age" env:"LOG_MAX_AGE" validate:"required,gte=0"`
	Compress  bool   `yaml:"compress" mapstructure:"compress" env:"LOG_COMPRESS"`
}

// NewDefaultConfig returns a config with every field set to a sane fallback.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "0.0.0.0:8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Monitor: MonitorConfig{
			Interval: 5 * time.Second,
			Collectors: CollectorConfig{
				Disk: DiskSourceConfig{
					Enable:        true,
					Path:          "/proc/diskstats",
					Prefix:        "linuxstats.diskstats",
					IgnoreDevices: []string{},
				},
			},
		},
		Log: ZapLogConfig{
			Level:     "info",
			Format:    "json",
			Path:      "./logs",
			MaxSize:   100,
			MaxBackup: 30,
			MaxAge:    7,
			Compress:  true,
		},
	}
}

// LoadConfigWithCli merges flags, yaml file and environment into a Config,
// in that order of precedence, then validates it.
func LoadConfigWithCli(cmd *cobra.Command) (*Config, error) {
	cfg := NewDefaultConfig()
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// ENV binding: HTTP_ADDR -> http.addr
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("_", "."))

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks the whole configuration, section by section.
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}
