package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Data     DataConfig     `mapstructure:"data"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	TFIDF    TFIDFConfig    `mapstructure:"tfidf"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Tracking TrackingConfig `mapstructure:"tracking"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DataConfig struct {
	SnapshotDir string `mapstructure:"snapshot_dir"`
	ArtifactDir string `mapstructure:"artifact_dir"`
	ReportDir   string `mapstructure:"report_dir"`
	UsersFile   string `mapstructure:"users_file"`
	SchemaDir   string `mapstructure:"schema_dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TFIDFConfig struct {
	NgramMin int `mapstructure:"ngram_min"`
	NgramMax int `mapstructure:"ngram_max"`
	MinDF    int `mapstructure:"min_df"`
}

type EngineConfig struct {
	Boost   float64 `mapstructure:"boost"`
	Penalty float64 `mapstructure:"penalty"`
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	ResultTTL time.Duration `mapstructure:"result_ttl"`
}

type TrackingConfig struct {
	Dir     string `mapstructure:"dir"`
	Project string `mapstructure:"project"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Upstream API defaults
	viper.SetDefault("api.base_url", "https://api.sampleapis.com/wines")
	viper.SetDefault("api.timeout", "20s")

	// Data layout defaults
	viper.SetDefault("data.snapshot_dir", "data/snapshots")
	viper.SetDefault("data.artifact_dir", "artifacts")
	viper.SetDefault("data.report_dir", "reports")
	viper.SetDefault("data.users_file", "configs/users.json")
	viper.SetDefault("data.schema_dir", "schemas")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Embedding defaults
	viper.SetDefault("tfidf.ngram_min", 1)
	viper.SetDefault("tfidf.ngram_max", 2)
	viper.SetDefault("tfidf.min_df", 2)

	// Preference engine defaults
	viper.SetDefault("engine.boost", 0.05)
	viper.SetDefault("engine.penalty", 0.20)

	// Redis defaults (query-result cache; disabled means in-process only)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.result_ttl", "30m")

	// Experiment tracking defaults
	viper.SetDefault("tracking.dir", "experiments")
	viper.SetDefault("tracking.project", "wine-reco")
}
