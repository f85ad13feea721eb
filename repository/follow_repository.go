package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
)

// FollowRepository stores (follower, author) pairs. Uniqueness of a pair is
// enforced by the unique_following index, not only by the checks here.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Exists reports whether userID follows authorID.
func (r *FollowRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}

// Create subscribes userID to authorID. It returns ErrSelfFollow for userID == authorID
// and ErrAlreadyFollowing when the pair is already stored.
func (r *FollowRepository) Create(ctx context.Context, userID, authorID uint) error {
	if userID == authorID {
		return ErrSelfFollow
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(&models.Follow{UserID: userID, AuthorID: authorID})
	if res.Error != nil {
		return fmt.Errorf("create follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFollowing
	}
	return nil
}

// Delete removes the pair, returning ErrFollowNotFound when there was nothing to remove.
func (r *FollowRepository) Delete(ctx context.Context, userID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// CountFollowers returns how many users follow authorID.
func (r *FollowRepository) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// CountFollowing returns how many authors userID follows.
func (r *FollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
