package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	ClientURL               string
	JWTSecret               string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	BrevoAPIKey             string
	SMTPFrom                string
	FirebaseCredentialsPath string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "5000"),
		Env:                     getEnv("ENV", "development"),
		ClientURL:               getEnv("CLIENT_URL", "http://localhost:3000"),
		JWTSecret:               getEnv("JWT_SECRET", "secret_key"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "eonchat"),
		BrevoAPIKey:             getEnv("BREVO_API_KEY", ""),
		SMTPFrom:                getEnv("SMTP_FROM", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
