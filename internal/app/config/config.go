package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env           string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    HTTPServerConfig `yaml:"http_server"`
	MongoDB       MongoDBConfig    `yaml:"mongo"`
	Redis         RedisConfig      `yaml:"redis"`
	NATS          NATSConfig       `yaml:"nats"`
	Logger        LoggerConfig     `yaml:"logger"`
	JWT           JWTConfig        `yaml:"jwt"`
	Cart          CartConfig       `yaml:"cart"`
	Lockout       LockoutConfig    `yaml:"lockout"`
	PasswordReset PassResetConfig  `yaml:"password_reset"`
	SMTP          SMTPConfig       `yaml:"smtp"`
	Storage       StorageConfig    `yaml:"storage"`
	Tracing       TracingConfig    `yaml:"tracing"`
	AdminEmail    string           `yaml:"admin_email" env:"ADMIN_EMAIL"`
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env-default:"15s"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"marketplace_db"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type JWTConfig struct {
	Secret          string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"JWT_REFRESH_TTL" env-default:"720h"`
}

type CartConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CART_TTL" env-default:"168h"`
}

type LockoutConfig struct {
	MaxFailedAttempts int           `yaml:"max_failed_attempts" env:"LOCKOUT_MAX_ATTEMPTS" env-default:"5"`
	Duration          time.Duration `yaml:"duration" env:"LOCKOUT_DURATION" env-default:"15m"`
}

type PassResetConfig struct {
	CodeTTL time.Duration `yaml:"code_ttl" env:"PASSWORD_RESET_CODE_TTL" env-default:"30m"`
}

type SMTPConfig struct {
	Host        string `yaml:"host" env:"SMTP_HOST"`
	Port        int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string `yaml:"username" env:"SMTP_USERNAME"`
	Password    string `yaml:"password" env:"SMTP_PASSWORD"`
	SenderEmail string `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	Encryption  string `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"tls"`
	ServerName  string `yaml:"server_name" env:"SMTP_SERVER_NAME"`
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"product-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if _, ok := err.(*os.PathError); ok {
			log.Printf("Warning: Config file not found at %s, loading from environment variables only.", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
