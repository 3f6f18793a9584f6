package main

import (
	"os"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/pkg/database"
	"magazine-pro-api/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Emergency password reset for a locked-out account. Run with
// RESET_EMAIL and RESET_PASSWORD set against the live database.
func main() {
	// 1. Load Env
	envErr := godotenv.Load()
	logger.Init("reset-password", true)
	if envErr != nil {
		logger.Logger.Warn().Msg(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find the account
	email := os.Getenv("RESET_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Logger.Fatal().Err(err).Str("email", email).Msg("User not found in database")
	}

	// 4. Hash new password
	newPassword := os.Getenv("RESET_PASSWORD")
	if newPassword == "" {
		newPassword = "admin123"
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to hash password")
	}

	// 5. Update, invalidating any live session
	updates := map[string]interface{}{
		"password":      string(hashedPassword),
		"token_version": "",
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to update password in DB")
	}

	logger.Logger.Info().Str("email", email).Msg("Password has been reset")
}
