// seed-admin bootstraps a company and its first manager account.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	SEED_COMPANY_NAME=... SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
	"gorm.io/gorm"
)

func envOr(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func main() {
	ctx := context.Background()

	companyName := envOr("SEED_COMPANY_NAME", "PartsDesk Demo")
	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@partsdesk.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "")
	if adminPassword == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}
	if len(adminPassword) < 8 {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD must be at least 8 characters")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.MigrateDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	var company models.Company
	err := db.WithContext(ctx).Where("name = ?", companyName).First(&company).Error
	if err == gorm.ErrRecordNotFound {
		company = models.Company{Name: companyName}
		if err := db.WithContext(ctx).Create(&company).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create company: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created company %q (id=%d)\n", companyName, company.ID)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup company: %v\n", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Where("email = ?", adminEmail).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			FullName:       "Administrator",
			Email:          adminEmail,
			HashedPassword: hashedStr,
			Role:           models.UserRoleManager,
			IsActive:       utils.NewTrue(),
			CompanyId:      company.ID,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create manager user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created manager user: email=%q (company_id=%d)\n", adminEmail, company.ID)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).Updates(map[string]any{
		"hashed_password": hashedStr,
		"role":            models.UserRoleManager,
		"is_active":       utils.NewTrue(),
		"company_id":      company.ID,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update manager user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated manager user: email=%q (company_id=%d)\n", adminEmail, company.ID)
}
