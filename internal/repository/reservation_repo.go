package repository

import (
	"errors"
	"time"

	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Reserve creates a reservation after checking the post's reservation rules.
// A client's cancelled reservation on the same post is revived rather than
// duplicated.
func (r *ReservationRepository) Reserve(clientID, postID uint) (*models.Reservation, error) {
	var out models.Reservation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND with_reservation = ?", postID, true).Take(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("post not found or does not support reservations")
			}
			return err
		}
		if post.ReservationTime != nil && time.Now().After(*post.ReservationTime) {
			return domain.Validation("reservation time has expired")
		}

		var existing models.Reservation
		findErr := tx.Where("client_id = ? AND post_id = ?", clientID, postID).Take(&existing).Error
		if findErr == nil && existing.Status == domain.ReservationActive {
			return domain.Conflict("you already have a reservation for this post")
		}
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if post.ReservationLimit != nil {
			var active int64
			if err := tx.Model(&models.Reservation{}).
				Where("post_id = ? AND status = ?", postID, domain.ReservationActive).
				Count(&active).Error; err != nil {
				return err
			}
			if active >= int64(*post.ReservationLimit) {
				return domain.Validation("reservation limit reached")
			}
		}

		if findErr == nil {
			// revive the cancelled reservation
			existing.Status = domain.ReservationActive
			existing.ReservedAt = time.Now()
			existing.CancelledAt = nil
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			out = existing
			return nil
		}
		out = models.Reservation{
			ClientID:   clientID,
			PostID:     postID,
			Status:     domain.ReservationActive,
			ReservedAt: time.Now(),
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel marks the client's active reservation cancelled.
func (r *ReservationRepository) Cancel(clientID, reservationID uint) error {
	now := time.Now()
	res := r.db.Model(&models.Reservation{}).
		Where("id = ? AND client_id = ? AND status = ?", reservationID, clientID, domain.ReservationActive).
		Updates(map[string]interface{}{"status": domain.ReservationCancelled, "cancelled_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReservationRepository) ListByClient(clientID uint, page, limit int) ([]models.Reservation, int64, error) {
	q := r.db.Model(&models.Reservation{}).Where("client_id = ?", clientID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rs []models.Reservation
	err := q.Preload("Post").
		Order("reserved_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rs).Error
	return rs, total, err
}

// ListByAdvertiser returns reservations on any of the advertiser's posts.
func (r *ReservationRepository) ListByAdvertiser(advertiserID uint, page, limit int) ([]models.Reservation, int64, error) {
	base := r.db.Model(&models.Reservation{}).
		Joins("JOIN posts p ON p.id = reservations.post_id").
		Where("p.advertiser_id = ?", advertiserID)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rs []models.Reservation
	err := base.Preload("Post").
		Order("reservations.reserved_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rs).Error
	return rs, total, err
}

func (r *ReservationRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReservationRepository) ListAll(page, limit int) ([]models.Reservation, int64, error) {
	q := r.db.Model(&models.Reservation{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rs []models.Reservation
	err := q.Preload("Post").Preload("Client").
		Order("reserved_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rs).Error
	return rs, total, err
}
