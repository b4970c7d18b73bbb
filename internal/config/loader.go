package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the optional dotenv file read by Load.
const DefaultEnvFile = ".env"

// Config captures environment driven configuration values for the Sereno RH CLI.
type Config struct {
	SQLiteDSN     string
	SessionSecret string
	SessionTTL    time.Duration
	SessionFile   string
	Location      *time.Location
	LogLevel      slog.Level
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads DefaultEnvFile when it exists and then parses the process environment.
func Load() (Config, error) {
	return LoadFile(DefaultEnvFile)
}

// LoadFile loads the given dotenv file, if present, before parsing the environment.
//
// Variables already present in the environment win over the file. Missing and
// invalid entries are reported together in a single error.
func LoadFile(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		SQLiteDSN:     "file:serenorh.db",
		SessionTTL:    12 * time.Hour,
		SessionFile:   defaultSessionFile(),
		Location:      time.Local,
		LogLevel:      slog.LevelInfo,
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	if dsn := env("SERENORH_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := env("SERENORH_SESSION_SECRET"); secret == "" {
		missing = append(missing, "SERENORH_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := env("SERENORH_SESSION_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SERENORH_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if path := env("SERENORH_SESSION_FILE"); path != "" {
		cfg.SessionFile = path
	}

	if tz := env("SERENORH_TIMEZONE"); tz != "" && !strings.EqualFold(tz, "local") {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "SERENORH_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if levelValue := env("SERENORH_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "SERENORH_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	cfg.LogPath = env("SERENORH_LOG_PATH")

	for _, field := range []struct {
		key    string
		target *int
	}{
		{"SERENORH_LOG_MAX_SIZE_MB", &cfg.LogMaxSizeMB},
		{"SERENORH_LOG_MAX_BACKUPS", &cfg.LogMaxBackups},
		{"SERENORH_LOG_MAX_AGE_DAYS", &cfg.LogMaxAgeDays},
	} {
		value := env(field.key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			invalid = append(invalid, field.key)
			continue
		}
		*field.target = n
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("required environment variables are not set: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		problems = append(problems, fmt.Sprintf("environment variables have invalid values: %s", strings.Join(invalid, ", ")))
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".serenorh", "session")
	}
	return filepath.Join(home, ".serenorh", "session")
}
