package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// DefaultAPIKey is the out-of-the-box shared secret. Anything still running
// with it in production is wide open, so Load warns loudly when it is used.
const DefaultAPIKey = "default-api-key-change-in-production"

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL  string
	APIKey string

	// Payload log knobs (in-memory debug buffer of recent ingests).
	PayloadLogEnabled bool
	PayloadLogMaxSize int
}

// Load reads required values from environment variables.
//
//	DB_URL                required, Postgres connection string
//	API_KEY               shared secret for X-API-Key (insecure default if unset)
//	PAYLOAD_LOG_ENABLED   "true"/"false", default true
//	PAYLOAD_LOG_MAX_SIZE  positive integer, default 1000
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	apiKey := strings.TrimSpace(os.Getenv("API_KEY"))
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}
	if apiKey == DefaultAPIKey {
		log.Println("***************************************************************")
		log.Println("WARNING: Using default API key! This is NOT secure for production!")
		log.Println("Please set the API_KEY environment variable to a secure value.")
		log.Println("***************************************************************")
	}

	enabled := true
	if v := strings.TrimSpace(os.Getenv("PAYLOAD_LOG_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYLOAD_LOG_ENABLED must be true or false: %w", err)
		}
		enabled = b
	}

	maxSize := 1000
	if v := strings.TrimSpace(os.Getenv("PAYLOAD_LOG_MAX_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, errors.New("PAYLOAD_LOG_MAX_SIZE must be a positive integer")
		}
		maxSize = n
	}

	return Config{
		DBURL:             dbURL,
		APIKey:            apiKey,
		PayloadLogEnabled: enabled,
		PayloadLogMaxSize: maxSize,
	}, nil
}
