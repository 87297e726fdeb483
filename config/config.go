package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"pente/engine"
)

const (
	cfgFile   = "pente/config.yaml"
	envPrefix = "PENTE"
)

type Config struct {
	Search     SearchConfig   `mapstructure:"search" json:"search"`
	Heuristics engine.Weights `mapstructure:"heuristics" json:"heuristics"`
	Files      FilesConfig    `mapstructure:"files" json:"files"`
	Server     ServerConfig   `mapstructure:"server" json:"server"`
	Redis      RedisConfig    `mapstructure:"redis" json:"redis"`
	Log        LogConfig      `mapstructure:"log" json:"log"`
}

type SearchConfig struct {
	MaxDepth       int     `mapstructure:"max_depth" json:"max_depth"`
	Policy         string  `mapstructure:"policy" json:"policy"`
	ScoredLimit    int     `mapstructure:"scored_limit" json:"scored_limit"`
	LowTimeSeconds float64 `mapstructure:"low_time_seconds" json:"low_time_seconds"`
	LogStats       bool    `mapstructure:"log_stats" json:"log_stats"`
}

type FilesConfig struct {
	Input    string `mapstructure:"input" json:"input"`
	PlayData string `mapstructure:"playdata" json:"playdata"`
	Output   string `mapstructure:"output" json:"output"`
	Board    string `mapstructure:"board" json:"board"`
	SVG      string `mapstructure:"svg" json:"svg"`
}

type ServerConfig struct {
	Addr            string `mapstructure:"addr" json:"addr"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds" json:"shutdown_seconds"`
	PingSeconds     int    `mapstructure:"ping_seconds" json:"ping_seconds"`
}

// RedisConfig enables the Redis turn store when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db"`
}

type LogConfig struct {
	Development bool `mapstructure:"development" json:"development"`
}

var ErrInvalid = errors.New("invalid config")

func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			MaxDepth:       engine.DefaultMaxDepth,
			Policy:         engine.PolicyAdjacent,
			ScoredLimit:    engine.DefaultScoredLimit,
			LowTimeSeconds: 10,
		},
		Heuristics: engine.DefaultWeights(),
		Files: FilesConfig{
			Input:    "input.txt",
			PlayData: "playdata.txt",
			Output:   "output.txt",
			Board:    "board.txt",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownSeconds: 5,
			PingSeconds:     30,
		},
	}
}

// Load layers defaults, the config file and PENTE_* environment variables.
// With an empty path the file is looked up under the XDG config dirs; not
// finding one there is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("search.max_depth", cfg.Search.MaxDepth)
	v.SetDefault("search.policy", cfg.Search.Policy)
	v.SetDefault("search.scored_limit", cfg.Search.ScoredLimit)
	v.SetDefault("search.low_time_seconds", cfg.Search.LowTimeSeconds)
	v.SetDefault("search.log_stats", cfg.Search.LogStats)

	v.SetDefault("heuristics.captures", cfg.Heuristics.Captures)
	v.SetDefault("heuristics.capture_threats", cfg.Heuristics.CaptureThreats)
	v.SetDefault("heuristics.open_4", cfg.Heuristics.Open4)
	v.SetDefault("heuristics.open_3", cfg.Heuristics.Open3)
	v.SetDefault("heuristics.open_2", cfg.Heuristics.Open2)
	v.SetDefault("heuristics.pieces", cfg.Heuristics.Pieces)

	v.SetDefault("files.input", cfg.Files.Input)
	v.SetDefault("files.playdata", cfg.Files.PlayData)
	v.SetDefault("files.output", cfg.Files.Output)
	v.SetDefault("files.board", cfg.Files.Board)
	v.SetDefault("files.svg", cfg.Files.SVG)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_seconds", cfg.Server.ShutdownSeconds)
	v.SetDefault("server.ping_seconds", cfg.Server.PingSeconds)

	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)

	v.SetDefault("log.development", cfg.Log.Development)
}

func (c Config) Validate() error {
	if c.Search.MaxDepth < 0 {
		return fmt.Errorf("%w: search.max_depth must be >= 0, got %d", ErrInvalid, c.Search.MaxDepth)
	}
	if c.Search.ScoredLimit <= 0 {
		return fmt.Errorf("%w: search.scored_limit must be positive, got %d", ErrInvalid, c.Search.ScoredLimit)
	}
	if _, err := engine.PolicyByName(c.Search.Policy, c.Search.ScoredLimit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Server.PingSeconds <= 0 {
		return fmt.Errorf("%w: server.ping_seconds must be positive, got %d", ErrInvalid, c.Server.PingSeconds)
	}
	return nil
}

// MovePolicy builds the configured candidate generator.
func (c Config) MovePolicy() engine.MovePolicy {
	policy, err := engine.PolicyByName(c.Search.Policy, c.Search.ScoredLimit)
	if err != nil {
		return engine.AdjacentPolicy{}
	}
	return policy
}

// DepthFor lowers the depth ceiling by one when the clock is nearly out.
func (c Config) DepthFor(remaining float64) int {
	depth := c.Search.MaxDepth
	if remaining < c.Search.LowTimeSeconds && depth > 0 {
		depth--
	}
	return depth
}
