package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Oracle   *OracleConfig   `mapstructure:"oracle"`
	Chain    *ChainConfig    `mapstructure:"chain"`
	Mint     *MintConfig     `mapstructure:"mint"`
	Rewards  *RewardsConfig  `mapstructure:"rewards"`
	Bulk     *BulkConfig     `mapstructure:"bulk"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type OracleConfig struct {
	Endpoint              string `mapstructure:"endpoint"`
	Asset                 string `mapstructure:"asset"`
	VsCurrency            string `mapstructure:"vs_currency"`
	StalenessSeconds      int    `mapstructure:"staleness_seconds"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

type ChainConfig struct {
	RPCEndpoint           string `mapstructure:"rpc_endpoint"`
	SubmitterEndpoint     string `mapstructure:"submitter_endpoint"`
	ReceivingAddress      string `mapstructure:"receiving_address"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
}

type MintConfig struct {
	PriceUSD         string `mapstructure:"price_usd"`
	IntentTTLMinutes int    `mapstructure:"intent_ttl_minutes"`
}

type RewardsConfig struct {
	TierHigh       int64 `mapstructure:"tier_high"`
	TierMedium     int64 `mapstructure:"tier_medium"`
	TierLow        int64 `mapstructure:"tier_low"`
	PointsPerToken int64 `mapstructure:"points_per_token"`
}

type BulkConfig struct {
	ConfirmationThreshold int `mapstructure:"confirmation_threshold"`
}

func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.Unmarshal(&conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return &conf, nil
}
