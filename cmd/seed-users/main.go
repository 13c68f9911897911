// Seeding script to create the workflow users for a fresh installation.
// cmd/seed-users/main.go
package main

import (
	"grievance-management-api/config"
	"grievance-management-api/models"
	"grievance-management-api/utils"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type seedUser struct {
	Fname      string
	Lname      string
	Email      string
	Role       models.WorkRole
	Department models.Department
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	password := os.Getenv("SEED_DEFAULT_PASSWORD")
	if password == "" {
		log.Fatal("SEED_DEFAULT_PASSWORD is not set")
	}

	// Initialize database
	config.InitDB()

	seeds := []seedUser{
		{"Estate", "Officer", "estate.officer@example.edu", models.RoleEstateOfficer, ""},
		{"The", "Principal", "principal@example.edu", models.RolePrincipal, ""},
	}
	for _, dept := range []models.Department{models.DepartmentCivil, models.DepartmentElectrical, models.DepartmentIT} {
		prefix := string(dept)
		seeds = append(seeds,
			seedUser{prefix, "JE", prefix + ".je@example.edu", models.RoleJE, dept},
			seedUser{prefix, "AE", prefix + ".ae@example.edu", models.RoleAE, dept},
			seedUser{prefix, "EE", prefix + ".ee@example.edu", models.RoleEE, dept},
		)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash default password:", err)
	}

	for _, seed := range seeds {
		var existing models.User
		if err := config.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping\n", seed.Email)
			continue
		}

		now := time.Now()
		user := models.User{
			UserFname:  seed.Fname,
			UserLname:  seed.Lname,
			Email:      seed.Email,
			Password:   hashed,
			Role:       seed.Role,
			Department: seed.Department,
			CreateAt:   &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v\n", seed.Email, err)
			continue
		}

		log.Printf("Created user %s (%s)\n", seed.Email, seed.Role)
	}

	log.Println("User seeding completed!")
}
