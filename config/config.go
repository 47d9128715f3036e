package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at start-up.
type Config struct {
	AppEnv string
	Port   string

	MongoURI string
	MongoDB  string

	JWTSecret    string
	CookieDomain string
	BearerTokens bool
	CORSOrigins  []string

	MetricsAllowedIP string
	TrustedProxies   []string
	Timezone         string

	HomeCallingCode string

	BridgeURL   string
	BridgeToken string

	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3PublicDomain string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AlertEmail   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && os.Getenv("APP_ENV") == "production" {
		return nil, errors.New("error loading .env file")
	}

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "465"))

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "1414"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "bizdesk"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CookieDomain:     os.Getenv("COOKIE_DOMAIN"),
		BearerTokens:     os.Getenv("ALLOW_BEARER_TOKENS") == "true",
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MetricsAllowedIP: getEnv("METRICS_ALLOWED_IP", "127.0.0.1"),
		TrustedProxies:   splitList(os.Getenv("TRUSTED_PROXIES")),
		Timezone:         getEnv("TIMEZONE", "Asia/Karachi"),
		HomeCallingCode:  getEnv("HOME_CALLING_CODE", "92"),
		BridgeURL:        getEnv("WHATSAPP_BRIDGE_URL", "http://127.0.0.1:3001"),
		BridgeToken:      os.Getenv("WHATSAPP_BRIDGE_TOKEN"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3PublicDomain:   os.Getenv("S3_PUBLIC_DOMAIN"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         smtpPort,
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		AlertEmail:       os.Getenv("ALERT_EMAIL"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev_secret_key"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
