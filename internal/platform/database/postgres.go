package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"algo_tracker/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	fmt.Println("Successfully connected to PostgreSQL database!")
}

// Bootstrap creates missing tables and seeds the platform catalog.
func Bootstrap() {
	if _, err := DB.Exec(Schema); err != nil {
		log.Fatalf("Error applying schema: %v", err)
	}
	if _, err := DB.Exec(PlatformSeed); err != nil {
		log.Fatalf("Error seeding platforms: %v", err)
	}
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}
