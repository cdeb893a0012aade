// package env contains simple getters for the environment variables shared by
// the geoapp binaries. Every getter falls back to a sensible default so the
// services run without any configuration.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/geo"
	"github.com/manzanit0/geoapp/pkg/whttp"
)

const (
	DefaultPort              = "8080"
	DefaultOutboundRPS       = 20
	DefaultSessionTTL        = 30 * time.Minute
	DefaultLoaderConcurrency = geo.DefaultLoaderConcurrency
)

// LoadDotEnv seeds the environment from a .env file when there is one.
// Variables already set in the environment win.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func Port() string {
	return stringOr("PORT", DefaultPort)
}

func GeoAPIURL() string {
	return stringOr("GEO_API_URL", geo.DefaultBaseURL)
}

func AdresseAPIURL() string {
	return stringOr("ADRESSE_API_URL", adresse.DefaultBaseURL)
}

func LogLevel() string {
	return os.Getenv("LOG_LEVEL")
}

// Debug enables response bodies in the inbound request logs.
func Debug() bool {
	b, _ := strconv.ParseBool(os.Getenv("DEBUG"))
	return b
}

func HTTPTimeout() (time.Duration, error) {
	return durationOr("HTTP_TIMEOUT", whttp.DefaultTimeout)
}

func SessionTTL() (time.Duration, error) {
	return durationOr("SESSION_TTL", DefaultSessionTTL)
}

func OutboundRPS() (float64, error) {
	v := os.Getenv("OUTBOUND_RPS")
	if v == "" {
		return DefaultOutboundRPS, nil
	}

	rps, err := strconv.ParseFloat(v, 64)
	if err != nil || rps <= 0 {
		return 0, fmt.Errorf("failed to parse OUTBOUND_RPS as a positive number: %q", v)
	}

	return rps, nil
}

func LoaderConcurrency() (int, error) {
	v := os.Getenv("LOADER_CONCURRENCY")
	if v == "" {
		return DefaultLoaderConcurrency, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("failed to parse LOADER_CONCURRENCY as a positive integer: %q", v)
	}

	return n, nil
}

func stringOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s as a duration: %s", key, err.Error())
	}

	if d <= 0 {
		return 0, fmt.Errorf("failed to parse %s as a positive duration: %q", key, v)
	}

	return d, nil
}
