package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	LogFile   string
	StripeKey string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "merchline.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./merchline.log"
	}
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, StripeKey: stripeKey}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s STRIPE=%v",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.StripeConfigured())
	return cfg
}

// StripeConfigured reports whether a usable live key is present. Placeholder
// keys shipped in .env templates select the mock provider instead.
func (c Config) StripeConfigured() bool {
	k := strings.TrimSpace(c.StripeKey)
	if k == "" {
		return false
	}
	if strings.Contains(k, "placeholder") || strings.Contains(k, "your_key") || strings.Contains(k, "xxxx") {
		return false
	}
	return strings.HasPrefix(k, "sk_")
}
