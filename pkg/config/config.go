package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	EsewaSecret             string
	EsewaProductCode        string
	EsewaBaseURL            string
	FrontendURL             string
	FirebaseCredentialsPath string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "khabari"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		EsewaSecret:             getEnv("ESEWA_SECRET", "8gBm/:&EnhH.1/q"),
		EsewaProductCode:        getEnv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
		EsewaBaseURL:            getEnv("ESEWA_BASE_URL", "https://rc-epay.esewa.com.np"),
		FrontendURL:             getEnv("FRONTEND_URL", "http://localhost:5173"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
