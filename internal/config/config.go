package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
)

type Config struct {
	Port      string
	DBDSN     string // empty = in-memory store, path or ":memory:" = sqlite
	JWTSecret string

	KafkaBrokers string // comma separated; empty disables the Kafka publisher
	KafkaTopic   string

	LogLevel string

	// Tenant policy defaults consumed by the return workflow.
	ReturnWindowDays       int
	ReturnRequiresApproval bool
}

func Load() Config {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		Port:                   getenv("PORT", "8080"),
		DBDSN:                  os.Getenv("DB_DSN"),
		JWTSecret:              getenv("JWT_SECRET", "dev-secret-change-me"),
		KafkaBrokers:           os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:             getenv("KAFKA_TOPIC", "pelaris.events"),
		LogLevel:               getenv("LOG_LEVEL", "info"),
		ReturnWindowDays:       getint("RETURN_WINDOW_DAYS", 7),
		ReturnRequiresApproval: getbool("RETURN_REQUIRES_APPROVAL", true),
	}

	log.Printf("[config] PORT=%s DB_DSN=%q KAFKA_BROKERS=%q RETURN_WINDOW_DAYS=%d RETURN_REQUIRES_APPROVAL=%t",
		cfg.Port, cfg.DBDSN, cfg.KafkaBrokers, cfg.ReturnWindowDays, cfg.ReturnRequiresApproval)
	return cfg
}

// ReturnPolicy bundles the tenant policy knobs for the return workflow.
func (c Config) ReturnPolicy() domain.ReturnPolicy {
	return domain.ReturnPolicy{
		RequiresApproval: c.ReturnRequiresApproval,
		WindowDays:       c.ReturnWindowDays,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getbool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] %s=%q is not a bool, using %t", key, v, def)
		return def
	}
	return b
}
