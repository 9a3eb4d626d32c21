package database

import (
	"context"

	"github.com/rankforge/site-backend/models"
	"gorm.io/gorm"
)

type AuthorRepo struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db}
}

// withCounts selects authors with their total and published article counts in one grouped query.
func (r *AuthorRepo) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Author{}).
		Select("authors.*, COUNT(articles.id) AS article_count, "+
			"COUNT(articles.id) FILTER (WHERE articles.status = ?) AS published_article_count", models.StatusPublished).
		Joins("LEFT JOIN articles ON articles.author_id = authors.id").
		Group("authors.id")
}

func (r *AuthorRepo) FindAll(ctx context.Context) ([]models.AuthorWithCounts, error) {
	authors := []models.AuthorWithCounts{}
	err := r.withCounts(ctx).Order("authors.name ASC").Scan(&authors).Error
	return authors, err
}

func (r *AuthorRepo) FindByID(ctx context.Context, id uint) (*models.AuthorWithCounts, error) {
	var authors []models.AuthorWithCounts
	if err := r.withCounts(ctx).Where("authors.id = ?", id).Limit(1).Scan(&authors).Error; err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &authors[0], nil
}

func (r *AuthorRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Author{}, id)
}

func (r *AuthorRepo) Add(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *AuthorRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return update(ctx, r.db, &models.Author{}, id, changes)
}

// Delete is unconditional; callers check for assigned articles first.
func (r *AuthorRepo) Delete(ctx context.Context, id uint) error {
	return remove(ctx, r.db, &models.Author{}, id)
}

func (r *AuthorRepo) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return taken(ctx, r.db, &models.Author{}, "slug", slug, excludeID)
}

// EmailTaken expects an already normalized address.
func (r *AuthorRepo) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return taken(ctx, r.db, &models.Author{}, "email", email, excludeID)
}
