package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	CORSOrigins string

	DBDriver   string // postgres, mysql, sqlite or file
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string // overrides the individual DB_* values when set
	DataDir    string // JSON files for the file driver

	JWTKey      string
	JWTTTLHours int

	AuthAPIURL         string
	AuthTimeoutSeconds int
	AdminUsers         []string

	FlussonicURL         string
	FlussonicUser        string
	FlussonicPassword    string
	FlussonicVODName     string
	FlussonicCORSOrigins []string

	RankingLimit   int
	XPCourseBonus  int
	QuizSeedFile   string
	SweepSchedule  string
	SendgridAPIKey string
	EmailSender    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms.db"),
		DBDSN:      getEnv("DB_DSN", ""),
		DataDir:    getEnv("DATA_DIR", "./data"),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

		AuthAPIURL:         getEnv("AUTH_API_URL", "https://api.jupiter.com.br/action/Usuario/logar"),
		AuthTimeoutSeconds: getEnvInt("AUTH_TIMEOUT_SECONDS", 15),
		AdminUsers:         getEnvList("ADMIN_USERS"),

		FlussonicURL:         strings.TrimRight(getEnv("FLUSSONIC_URL", ""), "/"),
		FlussonicUser:        getEnv("FLUSSONIC_USER", ""),
		FlussonicPassword:    getEnv("FLUSSONIC_PASSWORD", ""),
		FlussonicVODName:     getEnv("FLUSSONIC_VOD_NAME", ""),
		FlussonicCORSOrigins: getEnvList("FLUSSONIC_CORS_ORIGINS"),

		RankingLimit:   getEnvInt("RANKING_LIMIT", 10),
		XPCourseBonus:  getEnvInt("XP_COURSE_BONUS", 10),
		QuizSeedFile:   getEnv("QUIZ_SEED_FILE", ""),
		SweepSchedule:  getEnv("CERTIFICATE_SWEEP_CRON", "0 3 * * *"),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.FlussonicURL == "" {
		log.Println("Warning: FLUSSONIC_URL not set. Video uploads are disabled.")
	}

	return AppConfig
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

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsAdminUser reports whether username is on the ADMIN_USERS allowlist
func (c *Config) IsAdminUser(username string) bool {
	for _, u := range c.AdminUsers {
		if strings.EqualFold(u, username) {
			return true
		}
	}
	return false
}
