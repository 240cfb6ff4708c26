package env

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvBool accepts "true", "1", "yes" and "on" (case-insensitive).
func GetEnvBool(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(GetEnv(key, "")))
	switch val {
	case "":
		return def
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func GetEnvInt(key string, def int) int {
	val := strings.TrimSpace(GetEnv(key, ""))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Warnf("[Env] %s=%q is not an integer, using %d", key, val, def)
		return def
	}
	return n
}

func GetEnvFloat(key string, def float64) float64 {
	val := strings.TrimSpace(GetEnv(key, ""))
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Warnf("[Env] %s=%q is not a number, using %g", key, val, def)
		return def
	}
	return f
}

// GetEnvDuration parses Go duration strings ("2500ms", "5s").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(GetEnv(key, ""))
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warnf("[Env] %s=%q is not a duration, using %s", key, val, def)
		return def
	}
	return d
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/jobfox to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			return
		}
	}

	// Containers usually inject plain environment variables
	Env = map[string]string{}
	log.Warn("[Env] No .env file found, using process environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
