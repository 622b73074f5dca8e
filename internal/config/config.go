// Package config minactor 命令行程序配置
//
// 加载顺序: 内置默认值 → YAML 配置文件 → 命令行参数（由调用方覆盖）
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// Config 程序配置
type Config struct {
	Actor   ActorConfig   `koanf:"actor"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Chat    ChatConfig    `koanf:"chat"`
}

// ActorConfig Actor 系统配置
type ActorConfig struct {
	System          string        `koanf:"system"`
	Dispatcher      string        `koanf:"dispatcher"` // shared | dedicated
	Workers         int           `koanf:"workers"`    // <= 0 时使用 GOMAXPROCS
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Addr string `koanf:"addr"` // 为空时不启动 /metrics
}

// ChatConfig 聊天示例配置
type ChatConfig struct {
	TCPAddr string `koanf:"tcp_addr"`
	WSAddr  string `koanf:"ws_addr"` // 为空时不启动 websocket
	WSPath  string `koanf:"ws_path"`
	Server  string `koanf:"server"` // 客户端连接地址
}

// Default 默认配置
func Default() Config {
	return Config{
		Actor: ActorConfig{
			System:          "minactor",
			Dispatcher:      actor.DispatcherShared.String(),
			Workers:         0,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Chat: ChatConfig{
			TCPAddr: "127.0.0.1:4444",
			WSAddr:  "127.0.0.1:8080",
			WSPath:  "/chat",
			Server:  "127.0.0.1:4444",
		},
	}
}

// Load 加载配置，path 为空时只使用默认值
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if _, err := actor.ParseDispatcher(c.Actor.Dispatcher); err != nil {
		return fmt.Errorf("config: actor.dispatcher: %w", err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// SystemConfig 转换为 Actor 系统配置
func (c *Config) SystemConfig(logger *slog.Logger, metrics actor.Metrics) *actor.SystemConfig {
	d, _ := actor.ParseDispatcher(c.Actor.Dispatcher)

	sc := actor.DefaultSystemConfig()
	sc.Dispatcher = d
	if c.Actor.Workers > 0 {
		sc.Workers = c.Actor.Workers
	}
	sc.Logger = logger
	sc.Metrics = metrics
	return sc
}

// NewLogger 按配置创建日志器
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}
