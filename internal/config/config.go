package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the Postgres connection from DB_* environment variables.
func InitDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "reconciliation"),
		getEnv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	return db
}

func ServerAddr() string {
	return getEnv("SERVER_ADDR", ":8080")
}

func CORSOrigin() string {
	return getEnv("CORS_ORIGIN", "http://localhost:3000")
}

// MinConfidence is the auto-match acceptance floor. Pairs scoring below it
// are reported back as unmatched instead of being committed.
func MinConfidence() float64 {
	raw := getEnv("AUTO_MATCH_MIN_CONFIDENCE", "0.5")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		log.Println("invalid AUTO_MATCH_MIN_CONFIDENCE, using 0.5:", raw)
		return 0.5
	}
	return v
}
