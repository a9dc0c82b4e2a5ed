package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	CosmosMongoURI  string
	CosmosDBName    string
	PostgresURI     string
	RedisURI        string
	JWTSecret       string
	JWTExpiry       time.Duration
	AnthropicAPIKey string
	// Model deployment names per agent role.
	ConversationModel   string
	ClassificationModel string
	Port                string
	AllowedOrigins      []string
	Environment         string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	ttlMinutes := 60
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttlMinutes = parsed
		}
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		CosmosMongoURI:      getEnv("COSMOS_MONGODB_URI", getEnv("MONGODB_URI", "mongodb://localhost:27017/companion")),
		CosmosDBName:        getEnv("COSMOS_DATABASE_NAME", "companion"),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/companion?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiry:           time.Duration(ttlMinutes) * time.Minute,
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		ConversationModel:   getEnv("CONVERSATION_MODEL", "claude-3-5-sonnet-latest"),
		ClassificationModel: getEnv("CLASSIFICATION_MODEL", "claude-3-5-haiku-latest"),
		Port:                getEnv("PORT", "8080"),
		AllowedOrigins:      allowedOrigins,
		Environment:         env,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
