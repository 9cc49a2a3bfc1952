package repositories

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post query. Zero value selects every post.
type PostFilter struct {
	GroupID  *uint
	AuthorID *uint
	// FollowerID selects posts by authors this user follows.
	FollowerID *uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, draft models.PostDraft, authorID uint) (*models.Post, error)
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, draft models.PostDraft) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	ListPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost stores the draft with its author in a single insert. The
// creation time is assigned here and never changes afterwards.
func (r *PostgresPostRepository) CreatePost(ctx context.Context, draft models.PostDraft, authorID uint) (*models.Post, error) {
	post := &models.Post{
		Text:     draft.Text,
		AuthorID: authorID,
		GroupID:  draft.GroupID,
		Image:    draft.Image,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, wrap(err, "create post")
	}
	return r.GetPostByID(ctx, post.ID)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, wrap(err, "get post")
	}
	return &post, nil
}

// UpdatePost replaces text, group and image. Author and creation time are
// left untouched.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, id uint, draft models.PostDraft) (*models.Post, error) {
	var groupID interface{}
	if draft.GroupID != nil {
		groupID = *draft.GroupID
	}
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     draft.Text,
			"group_id": groupID,
			"image":    draft.Image,
		})
	if res.Error != nil {
		return nil, wrap(res.Error, "update post")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetPostByID(ctx, id)
}

func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap(err, "delete post")
}

func (r *PostgresPostRepository) CountPosts(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(r.filtered(filter)).
		Count(&count).Error
	if err != nil {
		return 0, wrap(err, "count posts")
	}
	return count, nil
}

// ListPosts returns one contiguous window of the filtered posts, newest
// first. Posts sharing a timestamp keep insertion order.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(r.filtered(filter)).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, wrap(err, "list posts")
	}
	return posts, nil
}

func (r *PostgresPostRepository) filtered(filter PostFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.GroupID != nil {
			q = q.Where("posts.group_id = ?", *filter.GroupID)
		}
		if filter.AuthorID != nil {
			q = q.Where("posts.author_id = ?", *filter.AuthorID)
		}
		if filter.FollowerID != nil {
			followed := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", *filter.FollowerID)
			q = q.Where("posts.author_id IN (?)", followed)
		}
		return q
	}
}
