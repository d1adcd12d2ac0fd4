package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
	Prefix     string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres or sqlite
	DSN    string `mapstructure:"dsn"`
}

type Config struct {
	OutputFormat string `mapstructure:"output_format"` // json or parquet
	OutputPath   string `mapstructure:"output_path"`
	OutputFolder string `mapstructure:"output_folder"`
	UserEmail    string `mapstructure:"user_email"`

	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled     bool          `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string        `mapstructure:"kafka_broker_list"`
	KafkaTopic       string        `mapstructure:"kafka_topic"`
	KafkaRetryMax    int           `mapstructure:"kafka_retry_max"`
	KafkaTimeout     time.Duration `mapstructure:"kafka_timeout"`
	SessionTimeoutMs int           `mapstructure:"session_timeout_ms"`

	Database DatabaseConfig `mapstructure:"database"`

	ServerAddr string `mapstructure:"server_addr"`

	Vocabulary Vocabulary `mapstructure:"vocabulary"`
}

// DefaultConfig returns the configuration used when no file, env or flag says otherwise.
func DefaultConfig() *Config {
	return &Config{
		OutputFormat:    "json",
		OutputFolder:    "plans",
		CloudStorage:    CloudStorageConfig{Provider: "s3", Prefix: "plans"},
		KafkaBrokerList: "localhost:9092",
		KafkaTopic:      "diet_plans",
		KafkaRetryMax:   5,
		KafkaTimeout:    30 * time.Second,
		Database:        DatabaseConfig{Driver: "sqlite"},
		ServerAddr:      ":8080",
		Vocabulary:      DefaultVocabulary(),
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("output_folder", cfg.OutputFolder)
	v.SetDefault("kafka_enabled", cfg.KafkaEnabled)
	v.SetDefault("kafka_broker_list", cfg.KafkaBrokerList)
	v.SetDefault("kafka_topic", cfg.KafkaTopic)
	v.SetDefault("kafka_retry_max", cfg.KafkaRetryMax)
	v.SetDefault("kafka_timeout", cfg.KafkaTimeout.String())
	v.SetDefault("database.driver", cfg.Database.Driver)
	v.SetDefault("database.dsn", "")
	v.SetDefault("cloud_storage.provider", cfg.CloudStorage.Provider)
	v.SetDefault("cloud_storage.region", cfg.CloudStorage.Region)
	v.SetDefault("cloud_storage.bucket_name", cfg.CloudStorage.BucketName)
	v.SetDefault("cloud_storage.prefix", cfg.CloudStorage.Prefix)
	v.SetDefault("server_addr", cfg.ServerAddr)
	v.SetDefault("user_email", "")
}

// LoadConfig reads configuration with Viper from, in order of precedence, bound
// flags, NUTRIPARSE_* environment variables (a local .env file is loaded first),
// the config file and the built-in defaults. A missing default config file is not
// an error; an explicitly named one is.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(".nutriparse")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("NUTRIPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.ZeroFields = true
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Vocabulary.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KafkaBrokers splits the comma separated broker list.
func (cfg *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(cfg.KafkaBrokerList, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
