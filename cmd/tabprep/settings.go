package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings 是一次运行的全部配置，来源优先级：命令行 > 环境变量（TABPREP_*）> 配置文件 > 默认值。
type Settings struct {
	Input    string        `mapstructure:"input"`
	Output   string        `mapstructure:"output"`
	Format   string        `mapstructure:"format"`
	Pipeline string        `mapstructure:"pipeline"`
	Dataset  string        `mapstructure:"dataset"`
	LogLevel string        `mapstructure:"log_level"`
	Redis    RedisSettings `mapstructure:"redis"`
}

// RedisSettings 配置可选的 Redis 导出；Addr 为空时不导出。
type RedisSettings struct {
	Addr   string `mapstructure:"addr"`
	DB     int    `mapstructure:"db"`
	Prefix string `mapstructure:"prefix"`
	TTL    int    `mapstructure:"ttl"` // 秒，0 表示不过期
}

// 输出格式
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Validate 验证配置完整性
func (s *Settings) Validate() error {
	if s.Input == "" {
		return fmt.Errorf("input is required")
	}
	if s.Redis.TTL < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	switch s.Format {
	case FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("unsupported output format %q (supported: csv, json)", s.Format)
	}
	return nil
}

// flagKeys 把命令行参数名映射到配置 key
var flagKeys = map[string]string{
	"input":        "input",
	"output":       "output",
	"format":       "format",
	"pipeline":     "pipeline",
	"dataset":      "dataset",
	"log-level":    "log_level",
	"redis-addr":   "redis.addr",
	"redis-db":     "redis.db",
	"redis-prefix": "redis.prefix",
	"redis-ttl":    "redis.ttl",
}

// LoadSettings 合并配置文件、环境变量与命令行参数。configPath 为空时不读文件。
func LoadSettings(configPath string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	// 每个 key 都要有默认值，AutomaticEnv 才能在 Unmarshal 时生效
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("format", FormatCSV)
	v.SetDefault("pipeline", "")
	v.SetDefault("dataset", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tabprep:row:")
	v.SetDefault("redis.ttl", 0)

	v.SetEnvPrefix("TABPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	s.Format = strings.ToLower(s.Format)
	return &s, nil
}
