package repository

import (
	"errors"

	"souqy/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

// CreateAdvertiser creates the user and its store profile in one transaction.
func (r *UserRepository) CreateAdvertiser(u *models.User, profile *models.AdvertiserProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		profile.UserID = u.ID
		return tx.Create(profile).Error
	})
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByPhone(phone string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetWithProfile(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.Preload("AdvertiserProfile").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) PhoneExists(phone string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
}

// UpsertProfile creates or updates an advertiser's store profile.
func (r *UserRepository) UpsertProfile(userID uint, storeName, description, socialLinks string) (*models.AdvertiserProfile, error) {
	var p models.AdvertiserProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.AdvertiserProfile{UserID: userID, StoreName: storeName, Description: description, SocialMediaLinks: socialLinks}
		if err := r.db.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	p.StoreName = storeName
	p.Description = description
	p.SocialMediaLinks = socialLinks
	if err := r.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns users filtered by role (empty for all) with paging.
func (r *UserRepository) List(role string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := q.Preload("AdvertiserProfile").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Delete(id uint) error {
	res := r.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether a ledger subject exists: the user row must carry the
// role matching the subject type.
func (r *UserRepository) Exists(id uint, subjectType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("id = ? AND role = ?", id, subjectType).
		Count(&count).Error
	return count > 0, err
}

// DisplayName returns the subject's human-readable name: the store name for
// advertisers that have one, the full name otherwise.
func (r *UserRepository) DisplayName(id uint, subjectType string) (string, error) {
	var u models.User
	err := r.db.Preload("AdvertiserProfile").
		Where("id = ? AND role = ?", id, subjectType).
		First(&u).Error
	if err != nil {
		return "", err
	}
	if u.AdvertiserProfile != nil && u.AdvertiserProfile.StoreName != "" {
		return u.AdvertiserProfile.StoreName, nil
	}
	return u.FullName, nil
}
