package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"orderreview/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret   string
	ClientURL   string
	FrontendURL string
	HomeCountry string
	Currency    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	LmstfyHost      string
	LmstfyPort      int
	LmstfyNamespace string
	LmstfyToken     string
	LmstfyQueue     string
	MailTTL         time.Duration

	SideEffectTimeout     time.Duration
	SideEffectConcurrency int
	RequestTimeout        time.Duration
	LogLevel              string

	DigestCron   string
	DigestMinAge time.Duration
}

// LoadConfig reads .env when present, then the process environment. Real
// environment variables win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		JWTSecret:   v.GetString("JWT_SECRET"),
		ClientURL:   v.GetString("CLIENT_URL"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		HomeCountry: v.GetString("HOME_COUNTRY"),
		Currency:    v.GetString("CURRENCY"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisChannel:  v.GetString("REDIS_CHANNEL"),

		LmstfyHost:      v.GetString("LMSTFY_HOST"),
		LmstfyPort:      v.GetInt("LMSTFY_PORT"),
		LmstfyNamespace: v.GetString("LMSTFY_NAMESPACE"),
		LmstfyToken:     v.GetString("LMSTFY_TOKEN"),
		LmstfyQueue:     v.GetString("LMSTFY_QUEUE"),
		MailTTL:         v.GetDuration("MAIL_TTL"),

		SideEffectTimeout:     v.GetDuration("SIDE_EFFECT_TIMEOUT"),
		SideEffectConcurrency: v.GetInt("SIDE_EFFECT_CONCURRENCY"),
		RequestTimeout:        v.GetDuration("REQUEST_TIMEOUT"),
		LogLevel:              v.GetString("LOG_LEVEL"),

		DigestCron:   v.GetString("DIGEST_CRON"),
		DigestMinAge: v.GetDuration("DIGEST_MIN_AGE"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173/admin/shipping-panel")
	v.SetDefault("HOME_COUNTRY", "India")
	v.SetDefault("CURRENCY", "₹")

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "order_notifications")

	v.SetDefault("LMSTFY_PORT", 7777)
	v.SetDefault("LMSTFY_QUEUE", "order-emails")
	v.SetDefault("MAIL_TTL", 24*time.Hour)

	v.SetDefault("SIDE_EFFECT_TIMEOUT", 10*time.Second)
	v.SetDefault("SIDE_EFFECT_CONCURRENCY", 8)
	v.SetDefault("REQUEST_TIMEOUT", 15*time.Second)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DIGEST_CRON", "0 0 * * * *")
	v.SetDefault("DIGEST_MIN_AGE", time.Hour)
}

// Validate reports every missing or out of range setting at once.
func (c Config) Validate() error {
	var problems []error
	required := []struct{ key, value string }{
		{"HTTP_PORT", c.HTTPPort},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
		{"CLIENT_URL", c.ClientURL},
		{"HOME_COUNTRY", c.HomeCountry},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, errs.NewValueIsRequiredError(r.key))
		}
	}
	if c.LmstfyHost != "" && (c.LmstfyNamespace == "" || c.LmstfyToken == "") {
		problems = append(problems, errs.NewValueIsRequiredError("LMSTFY_NAMESPACE and LMSTFY_TOKEN"))
	}
	if c.SideEffectTimeout <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("SIDE_EFFECT_TIMEOUT"))
	}
	if c.SideEffectConcurrency <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("SIDE_EFFECT_CONCURRENCY"))
	}
	if c.DigestMinAge <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("DIGEST_MIN_AGE"))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
