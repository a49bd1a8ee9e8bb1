package db

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultDSN is used for local development when DATABASE_URL is not set.
const DefaultDSN = "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable"

// Connect opens PostgreSQL. Driver errors are translated so the repository
// layer can match gorm.ErrDuplicatedKey.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Println("Database connection established")
	return gdb, nil
}

// Migrate creates or updates every table.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}

// SeedGroups creates the given groups when the table is still empty.
func SeedGroups(gdb *gorm.DB, groups []models.Group) error {
	// 检查是否已有分组数据
	var count int64
	if err := gdb.Model(&models.Group{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count groups: %w", err)
	}
	if count > 0 || len(groups) == 0 {
		log.Println("Groups already seeded, skipping")
		return nil
	}

	for _, group := range groups {
		group := group
		if err := gdb.Create(&group).Error; err != nil {
			log.Printf("Failed to create group %s: %v", group.Title, err)
		}
	}
	log.Println("Initial groups created successfully")
	return nil
}
