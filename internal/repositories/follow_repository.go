package repositories

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, userID, authorID uint) (bool, error)
	DeleteFollow(ctx context.Context, userID, authorID uint) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	HasFollowers(ctx context.Context, authorID uint) (bool, error)
	GetFollowersCount(ctx context.Context, authorID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the (user, author) edge unless it exists already.
// The returned flag reports whether a row was written.
func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, userID, authorID uint) (bool, error) {
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if res.Error != nil {
		return false, wrap(res.Error, "create follow")
	}
	return res.RowsAffected > 0, nil
}

// DeleteFollow removes the edge. A missing edge is not an error.
func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, userID, authorID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
	return wrap(err, "delete follow")
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return r.exists(ctx, "user_id = ? AND author_id = ?", userID, authorID)
}

// HasFollowers reports whether anybody follows the author.
func (r *PostgresFollowRepository) HasFollowers(ctx context.Context, authorID uint) (bool, error) {
	return r.exists(ctx, "author_id = ?", authorID)
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, wrap(err, "count followers")
}

func (r *PostgresFollowRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where(query, args...).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, wrap(err, "check follow")
	}
	return len(ids) > 0, nil
}
