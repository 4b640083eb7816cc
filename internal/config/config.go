package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type SearchConfig struct {
	DefaultDepth  int           `mapstructure:"default_depth"`
	MaxDepth      int           `mapstructure:"max_depth"`
	TimeLimit     time.Duration `mapstructure:"time_limit"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

type Config struct {
	Addr      string       `mapstructure:"addr"`
	LogLevel  string       `mapstructure:"log_level"`
	LogFormat string       `mapstructure:"log_format"` // console / json
	WebDir    string       `mapstructure:"web_dir"`    // 前端静态文件，空则不挂
	Search    SearchConfig `mapstructure:"search"`
}

var ErrBadConfig = errors.New("bad config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":2888")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("web_dir", "")
	v.SetDefault("search.default_depth", 3)
	v.SetDefault("search.max_depth", 6)
	v.SetDefault("search.time_limit", "10s")
	v.SetDefault("search.max_concurrent", 2)
}

// Flags 注册命令行参数；Load 会把它们绑定到同名配置键上。
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file (yaml/toml/json)")
	fs.String("addr", ":2888", "listen address")
	fs.String("log-level", "info", "debug / info / warn / error")
	fs.String("web", "", "directory with index.html / js / svg")
	fs.Int("depth", 3, "default search depth")
}

// Load 依次读取默认值、配置文件、XIANGQI_* 环境变量和命令行参数。
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("XIANGQI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		bind := map[string]string{
			"addr":                 "addr",
			"log_level":            "log-level",
			"web_dir":              "web",
			"search.default_depth": "depth",
		}
		for key, name := range bind {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", f.Value.String(), err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 不读任何外部来源的默认配置。
func Default() *Config {
	cfg, err := Load(nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate 检查并收紧搜索参数。
func (c *Config) Validate() error {
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("%w: search.max_depth must be >= 1", ErrBadConfig)
	}
	if c.Search.MaxConcurrent < 1 {
		return fmt.Errorf("%w: search.max_concurrent must be >= 1", ErrBadConfig)
	}
	c.Search.DefaultDepth = c.ClampDepth(c.Search.DefaultDepth)
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrBadConfig, c.LogFormat)
	}
	return nil
}

// ClampDepth 把请求深度限制在 1..MaxDepth；非正数用默认深度。
func (c *Config) ClampDepth(d int) int {
	if d <= 0 {
		d = c.Search.DefaultDepth
	}
	if d <= 0 {
		d = 1
	}
	if d > c.Search.MaxDepth {
		d = c.Search.MaxDepth
	}
	return d
}
