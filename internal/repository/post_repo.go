package repository

import (
	"errors"

	"souqy/internal/domain"
	"souqy/internal/models"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *PostRepository) GetByID(id uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.Preload("Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFilter narrows the public feed.
type ListFilter struct {
	Type         string
	CategoryID   uint
	AdvertiserID uint
}

func (r *PostRepository) List(f ListFilter, page, limit int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AdvertiserID != 0 {
		q = q.Where("advertiser_id = ?", f.AdvertiserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	err := q.Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Engagement counts interactions on a post.
type Engagement struct {
	Likes              int64 `json:"likes"`
	Comments           int64 `json:"comments"`
	Saves              int64 `json:"saves"`
	ActiveReservations int64 `json:"active_reservations"`
}

func (r *PostRepository) GetEngagement(postID uint) (*Engagement, error) {
	var e Engagement
	if err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&e.Likes).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&e.Comments).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.SavedPost{}).Where("post_id = ?", postID).Count(&e.Saves).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Reservation{}).
		Where("post_id = ? AND status = ?", postID, domain.ReservationActive).
		Count(&e.ActiveReservations).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ToggleLike flips the user's like on a post and keeps likes_count in step,
// both in one transaction. Returns whether the post is now liked and the new
// count.
func (r *PostRepository) ToggleLike(userID, postID uint) (liked bool, likesCount int64, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var like models.PostLike
		findErr := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&like).Error
		switch {
		case findErr == nil:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ? AND likes_count > 0", postID).
				Update("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return findErr
		}
		var p models.Post
		if err := tx.Select("likes_count").First(&p, postID).Error; err != nil {
			return err
		}
		likesCount = p.LikesCount
		return nil
	})
	return liked, likesCount, err
}

func (r *PostRepository) IsLiked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostRepository) ListLiked(userID uint, page, limit int) ([]models.Post, int64, error) {
	base := r.db.Model(&models.Post{}).
		Joins("JOIN post_likes pl ON pl.post_id = posts.id").
		Where("pl.user_id = ?", userID)
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	err := base.Preload("Category").
		Order("pl.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Save(clientID, postID uint) (*models.SavedPost, error) {
	var existing models.SavedPost
	err := r.db.Where("client_id = ? AND post_id = ?", clientID, postID).Take(&existing).Error
	if err == nil {
		return nil, domain.Conflict("post already saved")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sp := models.SavedPost{ClientID: clientID, PostID: postID}
	if err := r.db.Create(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *PostRepository) Unsave(clientID, postID uint) error {
	res := r.db.Where("client_id = ? AND post_id = ?", clientID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepository) ListSaved(clientID uint, page, limit int) ([]models.SavedPost, int64, error) {
	q := r.db.Model(&models.SavedPost{}).Where("client_id = ?", clientID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var saved []models.SavedPost
	err := q.Preload("Post").Preload("Post.Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&saved).Error
	return saved, total, err
}
