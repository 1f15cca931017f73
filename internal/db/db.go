package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"accountd/internal/models"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("failed to access database handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	return gdb
}

func AutoMigrate(gdb *gorm.DB) {
	err := gdb.AutoMigrate(
		&models.Organization{},
		&models.UserAccount{},
		&models.Membership{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}
}
