// Package config provides centralized default values for the Support Centre API
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration

	// Backing Store Configuration
	StorePath     string
	StoreInMemory bool

	// Feedback Configuration
	VoteRetention   time.Duration
	CommentMaxChars int

	// Cache Configuration
	FeedbackCacheTTL time.Duration

	// Broadcast Configuration
	BroadcastInterval time.Duration

	// SysOp Configuration
	SysOpPassword string
	JWTSecret     string
	TokenLifetime time.Duration

	// Logging Configuration
	LogDirectory     string
	LogToFile        bool
	LogToConsole     bool
	LogJSONFormat    bool
	LogIncludeSource bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)

	// Backing Store
	StorePath = getEnvString("STORE_PATH", "data/feedback")
	StoreInMemory = getEnvBool("STORE_IN_MEMORY", false)

	// Feedback
	VoteRetention = time.Duration(getEnvInt("VOTE_RETENTION_DAYS", 365)) * 24 * time.Hour
	CommentMaxChars = getEnvInt("COMMENT_MAX_CHARS", 500)

	// Cache
	FeedbackCacheTTL = time.Duration(getEnvInt("FEEDBACK_CACHE_TTL_HOURS", 24)) * time.Hour

	// Broadcast
	BroadcastInterval = time.Duration(getEnvInt("BROADCAST_INTERVAL_SECONDS", 20)) * time.Second

	// SysOp
	SysOpPassword = getEnvString("SYSOP_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 12*time.Hour)

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogToConsole = getEnvBool("LOG_TO_CONSOLE", true)
	LogJSONFormat = getEnvBool("LOG_JSON_FORMAT", true)
	LogIncludeSource = getEnvBool("LOG_INCLUDE_SOURCE", false)
}
