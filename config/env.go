package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppConfig holds all runtime settings, loaded from the environment.
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"GO_ENV" envDefault:"development"`
	CORSOrigins string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	MongoURI  string `env:"MONGODB_URI"`
	MongoDB   string `env:"MONGODB_DB" envDefault:"reclaim"`
	JWTSecret string `env:"JWT_SECRET"`

	RedisAddr     string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`

	R2AccountID string `env:"R2_ACCOUNT_ID"`
	R2AccessKey string `env:"R2_ACCESS_KEY_ID"`
	R2SecretKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2Bucket    string `env:"R2_BUCKET_NAME"`
	R2PublicURL string `env:"R2_PUBLIC_URL"`

	// Matching engine knobs. The on-demand matches view casts a wide net,
	// the creation-time notification trigger a narrow one.
	MatchLimit     int     `env:"MATCH_LIMIT" envDefault:"5"`
	MatchRadiusKm  float64 `env:"MATCH_RADIUS_KM" envDefault:"10"`
	NotifyRadiusKm float64 `env:"NOTIFY_RADIUS_KM" envDefault:"5"`

	// Max number of items a user may post per day.
	ItemDailyLimit int `env:"ITEM_DAILY_LIMIT" envDefault:"20"`
}

var App AppConfig

// LoadConfig reads .env (if present) and parses the environment into App.
func LoadConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	if err := env.Parse(&App); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}
	return &App
}
