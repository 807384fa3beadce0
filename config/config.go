package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string // ambient role, constrained by row-level security policies
	DBPassword string

	DBServiceUser     string // elevated service role used for policy-fallback retries
	DBServicePassword string

	RichTextApiUrl string // external rich-text -> markdown converter, optional
	DraftTTLHours  int    // authoring drafts older than this are swept
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "lessons"),
		DBUser:     getEnv("DB_USER", "app"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		DBServiceUser:     getEnv("DB_SERVICE_USER", ""),
		DBServicePassword: getEnv("DB_SERVICE_PASSWORD", ""),

		RichTextApiUrl: getEnv("RICHTEXT_API_URL", ""),
		DraftTTLHours:  getEnvInt("DRAFT_TTL_HOURS", 24),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBServiceUser == "" {
		log.Println("Warning: DB_SERVICE_USER not set. Permission-fallback retries will reuse the ambient role.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
