package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env             string `yaml:"env"`
	HTTPServer      `yaml:"http_server"`
	LedgerDB        `yaml:"ledger_db"`
	LogConfig       `yaml:"log_config"`
	GatewayWebhook  `yaml:"gateway_webhook"`
	TransferService `yaml:"transfer-service"`
	ListingService  `yaml:"listing-service"`
	KafkaService    `yaml:"kafka-service"`
	PayoutWorker    `yaml:"payout_worker"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LedgerDB struct {
	Dsn            string `yaml:"dsn" env:"LEDGER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type GatewayWebhook struct {
	Secret string `yaml:"secret" env:"GATEWAY_WEBHOOK_SECRET"`
}

type TransferService struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type ListingService struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"settlement-events"`
}

type PayoutWorker struct {
	BatchLimit    int           `yaml:"batch_limit" env-default:"100"`
	Workers       int           `yaml:"workers" env-default:"4"`
	Interval      time.Duration `yaml:"interval" env-default:"1h"`
	StaleAfter    time.Duration `yaml:"stale_after" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"10m"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
