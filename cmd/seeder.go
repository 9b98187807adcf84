package cmd

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM claims").Error; err != nil {
				log.Fatalf("failed to clear claims: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		rate := decimal.NewFromInt(150)
		accounts := []struct {
			Name    string
			Surname string
			Email   string
			Role    string
			Rate    *decimal.Decimal
		}{
			{"Lena", "Novak", "lena.novak@campus.example", "Lecturer", &rate},
			{"Piet", "de Vries", "piet.devries@campus.example", "ProgrammeCoordinator", nil},
			{"Aisha", "Khan", "aisha.khan@campus.example", "AcademicManager", nil},
			{"Marta", "Ruiz", "marta.ruiz@campus.example", "HR", nil},
		}

		for _, a := range accounts {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", a.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists:", a.Email)
				continue
			}

			err := db.Exec(`INSERT INTO users (name, surname, email, password_hash, hourly_rate, role, is_active, created_date, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, true, now(), now())`,
				a.Name, a.Surname, a.Email, string(hash), a.Rate, a.Role).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			fmt.Println("Seeded user:", a.Email, "role:", a.Role)
		}

		fmt.Println("Seeding complete; all accounts use password:", password)
	},
}
