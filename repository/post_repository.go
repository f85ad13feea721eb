package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// likeEscaper escapes LIKE wildcards with '!' which every supported dialect accepts as ESCAPE.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// contains returns a condition builder matching a column against term anywhere, ignoring case,
// and the pattern to bind. SQLite's LIKE folds ASCII itself while its LOWER() leaves every
// other letter untouched, so there the term is bound as typed.
func (r *PostRepository) contains(term string) (func(column string) string, string) {
	escaped := likeEscaper.Replace(term)
	if r.db.Dialector.Name() == "sqlite" {
		return func(column string) string { return column + " LIKE ? ESCAPE '!'" }, "%" + escaped + "%"
	}
	return func(column string) string { return "LOWER(" + column + ") LIKE ? ESCAPE '!'" }, "%" + strings.ToLower(escaped) + "%"
}

// PostRepository builds the feed queries and persists posts and comments.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// withAuthorAndGroup is applied when a feed page is loaded.
func withAuthorAndGroup(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}

// recent is the base of every feed: all posts, newest first.
func (r *PostRepository) recent(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Order("posts.created_at DESC").
		Order("posts.id DESC")
}

// Global returns every post, or when search is non-empty, the posts where search occurs
// (case-insensitively) in the text, the group title, the author's username or names,
// or the text or author username of any comment. Whitespace is part of the term.
func (r *PostRepository) Global(ctx context.Context, search string) *gorm.DB {
	q := r.recent(ctx)
	if search == "" {
		return q
	}
	match, like := r.contains(search)

	groups := r.db.Model(&models.Group{}).
		Select("id").
		Where(match("title"), like)
	authors := r.db.Model(&models.User{}).
		Select("id").
		Where(match("username")+" OR "+match("first_name")+" OR "+match("last_name"), like, like, like)
	commented := r.db.Model(&models.Comment{}).
		Select("comments.post_id").
		Joins("JOIN users ON users.id = comments.author_id").
		Where(match("comments.text")+" OR "+match("users.username"), like, like)

	return q.Where(
		"("+match("posts.text")+" OR posts.group_id IN (?) OR posts.author_id IN (?) OR posts.id IN (?))",
		like, groups, authors, commented,
	)
}

// Group resolves slug and returns the group with its posts query.
func (r *PostRepository) Group(ctx context.Context, slug string) (*models.Group, *gorm.DB, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, nil, notFound(err)
	}
	return &group, r.recent(ctx).Where("posts.group_id = ?", group.ID), nil
}

// Author returns the posts query for author.
func (r *PostRepository) Author(ctx context.Context, authorID uint) *gorm.DB {
	return r.recent(ctx).Where("posts.author_id = ?", authorID)
}

// Following returns posts by every author userID follows.
func (r *PostRepository) Following(ctx context.Context, userID uint) *gorm.DB {
	authors := r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
	return r.recent(ctx).Where("posts.author_id IN (?)", authors)
}

// Page loads one page of a feed query with authors and groups attached.
func (r *PostRepository) Page(query *gorm.DB, rawPage string) (utils.Page[models.Post], error) {
	return utils.PaginateQuery[models.Post](query, utils.PostsPerPage, rawPage, withAuthorAndGroup)
}

// ByID loads a post with its author, group and comments (oldest first).
func (r *PostRepository) ByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC").Order("comments.id ASC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// Create inserts post. The author and creation time are fixed from here on.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update writes the editable columns of post: text, group and image.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("Text", "GroupID", "Image").
		Updates(post).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return nil
}

// Delete removes a post together with its comments.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete post %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddComment stores comment on an existing post.
func (r *PostRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Groups lists every group by title, for the post form.
func (r *PostRepository) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// GroupByID returns ErrNotFound for an unknown id.
func (r *PostRepository) GroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}
