package api

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	// DeleteProductRow also removes the product row when its inventory is
	// deleted. Off by default to preserve the historical contract where only
	// stock rows are cascaded.
	DeleteProductRow bool
}

// LoadConfig reads a .env file when present, then environment variables with
// defaults applied.
func LoadConfig() Config {
	_ = godotenv.Load()
	return Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		DeleteProductRow:  isTruthy(os.Getenv("DELETE_PRODUCT_ROW")),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
