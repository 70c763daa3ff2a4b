package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"
	"time"
)

type Config struct {
	PostgresURI    string
	MongoURI       string
	RedisURI       string
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment    string   // ENV: production, development, etc.

	// Advisory service (the AI proxy). By default the backend targets its own
	// /api/ai endpoint so a single deployment is self-contained.
	AdvisoryURL string
	AdvisoryKey string

	// Upstream LLM used by the /api/ai proxy.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Autosave debounce window for the journal editor.
	AutosaveInterval time.Duration

	// Google Cloud Speech credentials for dictation. Empty disables the feature.
	GoogleCredentialsFile string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	port := getEnv("PORT", "8080")

	// CORS: allow multiple origins so the production frontend works alongside
	// local development.
	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	autosave := 5 * time.Second
	if v := getEnv("AUTOSAVE_INTERVAL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			autosave = d
		}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/mindwell?sslmode=disable"),
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/mindwell")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Environment:    env,
		Port:           port,
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		AdvisoryURL: getEnv("ADVISORY_URL", "http://localhost:"+port+"/api/ai"),
		AdvisoryKey: getEnv("ADVISORY_KEY", randomKey()),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		AutosaveInterval: autosave,

		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

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
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// randomKey backs ADVISORY_KEY when none is configured: the advisory client
// and the /api/ai proxy share the same Config, so the loopback still
// authenticates while external callers without a session are kept out.
func randomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
