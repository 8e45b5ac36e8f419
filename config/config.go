package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type MidtransConfig struct {
	ServerKey   string
	Environment string
}

type DigiflazzConfig struct {
	BaseURL  string
	Username string
	APIKey   string
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	Operator string
}

type TracingConfig struct {
	CollectorHost string
}

type Config struct {
	ServicePort      string
	MetricsPort      string
	SiteURL          string
	PostgreSQLConfig PostgreSQLConfig
	MidtransConfig   MidtransConfig
	DigiflazzConfig  DigiflazzConfig
	KafkaConfig      KafkaConfig
	SMTPConfig       SMTPConfig
	TracingConfig    TracingConfig
	JWTSecret        string
	HighTierMarkup   int64
	PaymentWindowSec int64
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		SiteURL:     os.Getenv("SITE_URL"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		MidtransConfig: MidtransConfig{
			ServerKey:   os.Getenv("MIDTRANS_SERVER_KEY"),
			Environment: os.Getenv("MIDTRANS_ENVIRONMENT"),
		},
		DigiflazzConfig: DigiflazzConfig{
			BaseURL:  getEnvOrDefault("DIGIFLAZZ_BASE_URL", "https://api.digiflazz.com"),
			Username: os.Getenv("DIGIFLAZZ_USERNAME"),
			APIKey:   os.Getenv("DIGIFLAZZ_API_KEY"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   os.Getenv("BROKER_TOPIC"),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			Operator: os.Getenv("OPERATOR_EMAIL"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		JWTSecret:        os.Getenv("JWT_SECRET"),
		HighTierMarkup:   int64(getEnvInt("MARKUP_HIGH_TIER", 0)),
		PaymentWindowSec: int64(getEnvInt("PAYMENT_WINDOW_SECONDS", 3600)),
	}

	return &conf
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
