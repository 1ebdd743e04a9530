package main

import (
	"log"
	"os"

	"hunstagram/internal/db"
	"hunstagram/internal/router"
	"hunstagram/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=hunstagram port=5432 sslmode=disable"
	}
	gdb, err := db.Init(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	tokens := services.NewTokenService(secret)
	blobs := services.NewHTTPBlobStore()

	r := gin.Default()
	router.RegisterRoutes(r, gdb, tokens, blobs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Hunstagram server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
