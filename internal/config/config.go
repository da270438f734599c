package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Notify NotifyConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port string
}

// IncrementTier is one step of the minimum-increment schedule: bids on
// auctions priced up to UpTo must beat the current price by Step.
// UpTo == 0 marks the open-ended top tier.
type IncrementTier struct {
	UpTo float64 `mapstructure:"up_to"`
	Step float64 `mapstructure:"step"`
}

type EngineConfig struct {
	IncrementTiers  []IncrementTier
	SnipeWindow     time.Duration
	MaxExtensions   int // 0 = unbounded re-extension
	LaneIdleTimeout time.Duration
	LaneQueueSize   int
	SubmitTimeout   time.Duration
}

type NotifyConfig struct {
	AMQPUrl  string // empty = log-only publisher
	Exchange string
	PoolSize int
}

type LogConfig struct {
	Level      string
	Format     string
	Output     string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	setDefaults()
	viper.ReadInConfig()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port: viper.GetString("server.port"),
	}

	var tiers []IncrementTier
	if err := viper.UnmarshalKey("engine.increment_tiers", &tiers); err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		tiers = defaultTiers()
	}

	cfg.Engine = EngineConfig{
		IncrementTiers:  tiers,
		SnipeWindow:     viper.GetDuration("engine.snipe_window"),
		MaxExtensions:   viper.GetInt("engine.max_extensions"),
		LaneIdleTimeout: viper.GetDuration("engine.lane_idle_timeout"),
		LaneQueueSize:   viper.GetInt("engine.lane_queue_size"),
		SubmitTimeout:   viper.GetDuration("engine.submit_timeout"),
	}

	cfg.Notify = NotifyConfig{
		AMQPUrl:  envSub("notify.amqp_url"),
		Exchange: viper.GetString("notify.exchange"),
		PoolSize: viper.GetInt("notify.pool_size"),
	}

	cfg.Log = LogConfig{
		Level:      viper.GetString("log.level"),
		Format:     viper.GetString("log.format"),
		Output:     viper.GetString("log.output"),
		MaxSize:    viper.GetInt("log.max_size"),
		MaxBackups: viper.GetInt("log.max_backups"),
		MaxAge:     viper.GetInt("log.max_age"),
		Compress:   viper.GetBool("log.compress"),
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching viper.
// Used by tests and as a fallback when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: ":8080"},
		Engine: EngineConfig{
			IncrementTiers:  defaultTiers(),
			SnipeWindow:     2 * time.Minute,
			MaxExtensions:   0,
			LaneIdleTimeout: 5 * time.Minute,
			LaneQueueSize:   256,
			SubmitTimeout:   10 * time.Second,
		},
		Notify: NotifyConfig{
			Exchange: "auction.exchange",
			PoolSize: 32,
		},
		Log: LogConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

func setDefaults() {
	d := Default()
	viper.SetDefault("server.port", d.Server.Port)
	viper.SetDefault("engine.snipe_window", d.Engine.SnipeWindow)
	viper.SetDefault("engine.max_extensions", d.Engine.MaxExtensions)
	viper.SetDefault("engine.lane_idle_timeout", d.Engine.LaneIdleTimeout)
	viper.SetDefault("engine.lane_queue_size", d.Engine.LaneQueueSize)
	viper.SetDefault("engine.submit_timeout", d.Engine.SubmitTimeout)
	viper.SetDefault("notify.exchange", d.Notify.Exchange)
	viper.SetDefault("notify.pool_size", d.Notify.PoolSize)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
	viper.SetDefault("log.output", d.Log.Output)
}

func defaultTiers() []IncrementTier {
	return []IncrementTier{
		{UpTo: 100, Step: 5},
		{UpTo: 1000, Step: 25},
		{UpTo: 0, Step: 100},
	}
}

func envSub(key string) string {
	val := viper.GetString(key)
	if val == "" {
		return ""
	}

	re := regexp.MustCompile(`\$\{(\w+)\}`)
	return re.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
