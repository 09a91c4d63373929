package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         int    `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`

	JWT   JWTConfig
	OTP   OTPConfig
	GeoIP GeoIPConfig
	Risk  RiskConfig

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_NOTIFICATION_TOPIC"`

	// Requests per minute per client IP, 0 disables rate limiting.
	RequestsPerMinute int `env:"REQUESTS_PER_MINUTE" envDefault:"0"`
}

type JWTConfig struct {
	Secret      string        `env:"JWT_SECRET"`
	TokenExpiry time.Duration `env:"JWT_TOKEN_EXPIRY" envDefault:"24h"`
}

type OTPConfig struct {
	CodeTTL time.Duration `env:"OTP_CODE_TTL" envDefault:"10m"`

	// DemoMode echoes the issued code back in the HTTP response instead of
	// relying on out-of-band delivery. Never enable in production.
	DemoMode bool `env:"OTP_DEMO_MODE" envDefault:"false"`
}

type GeoIPConfig struct {
	BaseURL string        `env:"GEOIP_BASE_URL" envDefault:"https://ipapi.co"`
	Timeout time.Duration `env:"GEOIP_TIMEOUT"  envDefault:"3s"`
}

type RiskConfig struct {
	FrequencyWindow time.Duration `env:"RISK_FREQUENCY_WINDOW" envDefault:"1h"`
	FailureWindow   time.Duration `env:"RISK_FAILURE_WINDOW"   envDefault:"24h"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
