package repository_test

import (
	"testing"

	"souqy/internal/domain"
	"souqy/internal/models"
	"souqy/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAdvertiserWithPost(t *testing.T, db *gorm.DB) (*models.User, *models.Post) {
	adv := &models.User{FullName: "Nora", Phone: "0502222222", Role: domain.RoleAdvertiser, IsVerified: true}
	require.NoError(t, db.Create(adv).Error)
	post := &models.Post{
		AdvertiserID: adv.ID,
		Type:         domain.PostTypeReel,
		Title:        "Weekend special",
		Description:  "two for one",
		MediaURL:     "https://cdn.example.com/v/abc.mp4",
	}
	require.NoError(t, db.Create(post).Error)
	return adv, post
}

func seedClient(t *testing.T, db *gorm.DB, phone string) *models.User {
	u := &models.User{FullName: "Client", Phone: phone, Role: domain.RoleUser, IsVerified: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestToggleLike(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostRepository(db)
	_, post := seedAdvertiserWithPost(t, db)
	client := seedClient(t, db, "0501111111")

	liked, count, err := repo.ToggleLike(client.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	// Second toggle removes the like and the counter follows.
	liked, count, err = repo.ToggleLike(client.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)

	isLiked, err := repo.IsLiked(client.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
}

func TestToggleLike_CounterNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostRepository(db)
	_, post := seedAdvertiserWithPost(t, db)
	client := seedClient(t, db, "0501111111")

	// A stale like row with the counter already at zero must not underflow it.
	require.NoError(t, db.Create(&models.PostLike{UserID: client.ID, PostID: post.ID}).Error)

	_, count, err := repo.ToggleLike(client.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSaveUnsave(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostRepository(db)
	_, post := seedAdvertiserWithPost(t, db)
	client := seedClient(t, db, "0501111111")

	sp, err := repo.Save(client.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, sp.PostID)

	_, err = repo.Save(client.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	saved, total, err := repo.ListSaved(client.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, saved, 1)
	assert.Equal(t, "Weekend special", saved[0].Post.Title)

	require.NoError(t, repo.Unsave(client.ID, post.ID))
	assert.ErrorIs(t, repo.Unsave(client.ID, post.ID), gorm.ErrRecordNotFound)
}

func TestListPosts_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostRepository(db)
	adv, _ := seedAdvertiserWithPost(t, db)

	price := 25.0
	require.NoError(t, db.Create(&models.Post{
		AdvertiserID: adv.ID,
		Type:         domain.PostTypePost,
		Title:        "Lunch deal",
		Price:        &price,
		MediaURL:     "https://cdn.example.com/i/deal.jpg",
	}).Error)

	_, total, err := repo.List(repository.ListFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	posts, total, err := repo.List(repository.ListFilter{Type: domain.PostTypeReel}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.PostTypeReel, posts[0].Type)

	_, total, err = repo.List(repository.ListFilter{AdvertiserID: adv.ID + 100}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGetEngagement(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewPostRepository(db)
	_, post := seedAdvertiserWithPost(t, db)
	c1 := seedClient(t, db, "0501111111")
	c2 := seedClient(t, db, "0503333333")

	_, _, err := repo.ToggleLike(c1.ID, post.ID)
	require.NoError(t, err)
	_, _, err = repo.ToggleLike(c2.ID, post.ID)
	require.NoError(t, err)
	_, err = repo.Save(c1.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: c1.ID, Content: "nice"}).Error)

	e, err := repo.GetEngagement(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.Likes)
	assert.Equal(t, int64(1), e.Comments)
	assert.Equal(t, int64(1), e.Saves)
	assert.Equal(t, int64(0), e.ActiveReservations)
}
