package database

import (
	"log"

	"souqy/config"
	"souqy/internal/domain"
	"souqy/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AdvertiserProfile{},
		&models.Category{},
		&models.Post{},
		&models.PostLike{},
		&models.SavedPost{},
		&models.Comment{},
		&models.Reservation{},
		&models.PointsAccount{},
		&models.PointTransaction{},
		&models.PointWithdrawal{},
		&models.PointRequest{},
	)
}

// SeedAdmin creates the initial admin account if no admin exists yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	admin := &models.User{
		FullName:     "Administrator",
		Phone:        cfg.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	log.Printf("seeded admin account %s", cfg.Phone)
}
