// config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               string   `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		ClientDomain       string   `mapstructure:"client_domain"`
	} `mapstructure:"server"`

	Mongo struct {
		URI          string `mapstructure:"uri"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		Host         string `mapstructure:"host"`
		Database     string `mapstructure:"database"`
		Transactions bool   `mapstructure:"transactions"`
	} `mapstructure:"mongo"`

	Auth struct {
		FirebaseServiceKey string `mapstructure:"firebase_service_key"`
		JWTSecret          string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Payment struct {
		Provider          string `mapstructure:"provider"`
		Currency          string `mapstructure:"currency"`
		StripeSecret      string `mapstructure:"stripe_secret"`
		RazorpayKeyID     string `mapstructure:"razorpay_key_id"`
		RazorpayKeySecret string `mapstructure:"razorpay_key_secret"`
	} `mapstructure:"payment"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`

	PackagesFile string `mapstructure:"packages_file"`
	LogLevel     string `mapstructure:"log_level"`
	Env          string `mapstructure:"env"`
}

// env var name for every config key; all keys are flat environment variables.
var envBindings = map[string]string{
	"server.port":                 "PORT",
	"server.cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
	"server.client_domain":        "CLIENT_DOMAIN",
	"mongo.uri":                   "MONGODB_URI",
	"mongo.user":                  "DB_USER",
	"mongo.password":              "DB_PASS",
	"mongo.host":                  "DB_HOST",
	"mongo.database":              "DB_NAME",
	"mongo.transactions":          "MONGO_TRANSACTIONS",
	"auth.firebase_service_key":   "FB_SERVICE_KEY",
	"auth.jwt_secret":             "JWT_SECRET",
	"payment.provider":            "PAYMENT_PROVIDER",
	"payment.currency":            "PAYMENT_CURRENCY",
	"payment.stripe_secret":       "STRIPE_SECRET",
	"payment.razorpay_key_id":     "RAZORPAY_KEY_ID",
	"payment.razorpay_key_secret": "RAZORPAY_KEY_SECRET",
	"redis.addr":                  "REDIS_ADDR",
	"redis.password":              "REDIS_PASSWORD",
	"redis.db":                    "REDIS_DB",
	"kafka.brokers":               "KAFKA_BROKERS",
	"kafka.topic":                 "KAFKA_TOPIC",
	"packages_file":               "PACKAGES_FILE",
	"log_level":                   "LOG_LEVEL",
	"env":                         "APP_ENV",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.cors_allowed_origins", "http://localhost:5173,http://localhost:5174")
	v.SetDefault("mongo.database", "assetverseDB")
	v.SetDefault("mongo.transactions", false)
	v.SetDefault("payment.provider", "stripe")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.topic", "assetverse.events")
	v.SetDefault("log_level", "info")
	v.SetDefault("env", "production")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	// comma lists arrive from the environment as a single string
	cfg.Server.CorsAllowedOrigins = splitList(v.GetString("server.cors_allowed_origins"))
	cfg.Kafka.Brokers = splitList(v.GetString("kafka.brokers"))

	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = buildMongoURI(cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host)
	}
	cfg.Payment.Provider = strings.ToLower(cfg.Payment.Provider)

	return &cfg, nil
}

func buildMongoURI(user, pass, host string) string {
	if host == "" {
		return "mongodb://localhost:27017"
	}
	if user == "" {
		return fmt.Sprintf("mongodb+srv://%s/?retryWrites=true&w=majority", host)
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority", user, pass, host)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
