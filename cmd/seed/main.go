package main

import (
	"flag"
	"log"
	"os"
	"time"

	"redoma-support-be/internal/model"
	"redoma-support-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a community plus a staff account. Meant for local setups and fresh
// deployments:
//
//	go run ./cmd/seed -email ana@redoma.app -password secret123 -name "Ana" -role support -community vila-verde
func main() {
	email := flag.String("email", "", "staff email")
	password := flag.String("password", "", "staff password")
	name := flag.String("name", "", "full name")
	displayName := flag.String("display", "", "display name shown to clients (support only)")
	role := flag.String("role", "support", "support or master")
	community := flag.String("community", "", "community id to ensure")
	communityName := flag.String("community-name", "", "community display name")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if *community != "" {
		name := *communityName
		if name == "" {
			name = *community
		}
		var row model.Community
		if err := db.Where("id = ?", *community).Attrs(model.Community{
			Id:        *community,
			Name:      name,
			CreatedAt: time.Now(),
		}).FirstOrCreate(&row).Error; err != nil {
			color.Red("Error: Failed to ensure community: %v", err)
			os.Exit(1)
		}
		color.Green("✔ Community %q ready", *community)
	}

	if *email == "" {
		return
	}
	if *password == "" || *name == "" {
		color.Red("Error: -password and -name are required with -email")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Error: Failed to hash password: %v", err)
		os.Exit(1)
	}
	hashStr := string(hash)

	now := time.Now()
	var user model.User
	if err := db.Where("email = ?", *email).Attrs(model.User{
		Id:           uuid.New(),
		Email:        *email,
		FullName:     *name,
		PasswordHash: &hashStr,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).FirstOrCreate(&user).Error; err != nil {
		color.Red("Error: Failed to create user: %v", err)
		os.Exit(1)
	}

	switch *role {
	case "master":
		var membership model.AdminUser
		if err := db.Where("user_id = ?", user.Id).Attrs(model.AdminUser{
			Id:        uuid.New(),
			UserId:    user.Id,
			CreatedAt: now,
		}).FirstOrCreate(&membership).Error; err != nil {
			color.Red("Error: Failed to create admin membership: %v", err)
			os.Exit(1)
		}
		color.Green("✔ Master admin %s ready", *email)
	default:
		display := *displayName
		if display == "" {
			display = *name
		}
		var membership model.SupportUser
		if err := db.Where("user_id = ?", user.Id).Attrs(model.SupportUser{
			Id:          uuid.New(),
			UserId:      user.Id,
			DisplayName: display,
			CreatedAt:   now,
		}).FirstOrCreate(&membership).Error; err != nil {
			color.Red("Error: Failed to create support membership: %v", err)
			os.Exit(1)
		}
		color.Green("✔ Support agent %s ready (display: %s)", *email, display)
	}
}
