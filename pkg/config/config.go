package config

import "os"

type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	MongoURI        string
	GeminiAPIKey    string
	GeminiModel     string
	JWTSecret       string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"), // Must match the secret used for signing
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
