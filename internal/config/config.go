package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/phasegames/tempo/internal/domain"
)

// Load reads the .env file specified by TEMPO_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("TEMPO_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is optional: when empty the service runs without snapshot
// persistence.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey is the bearer key collaborators authenticate with. Empty disables
// auth (local development).
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// SnapshotIntervalMinutes controls how often the archiver flushes player
// snapshots. Defaults to 15.
func SnapshotIntervalMinutes() int {
	n, err := strconv.Atoi(os.Getenv("SNAPSHOT_INTERVAL_MINUTES"))
	if err != nil || n <= 0 {
		return 15
	}
	return n
}

// ControllerConfig builds the difficulty tuning from env overrides on top
// of the defaults.
func ControllerConfig() domain.ControllerConfig {
	cfg := domain.DefaultControllerConfig()
	if v, err := strconv.ParseFloat(os.Getenv("TARGET_SUCCESS_RATE"), 64); err == nil {
		cfg.TargetSuccessRate = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("TARGET_ENGAGEMENT_MINUTES"), 64); err == nil {
		cfg.TargetEngagementMinutes = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("ADAPTATION_RATE"), 64); err == nil {
		cfg.AdaptationRate = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("MIN_DIFFICULTY"), 64); err == nil {
		cfg.MinDifficulty = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("MAX_DIFFICULTY"), 64); err == nil {
		cfg.MaxDifficulty = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("SMOOTHING_FACTOR"), 64); err == nil {
		cfg.SmoothingFactor = v
	}
	if v, err := strconv.ParseBool(os.Getenv("EMERGENCY_ADJUSTMENT")); err == nil {
		cfg.EmergencyAdjustment = v
	}
	if v, err := strconv.ParseBool(os.Getenv("PERSONALIZED_ADJUSTMENT")); err == nil {
		cfg.PersonalizedAdjustment = v
	}
	return cfg
}
