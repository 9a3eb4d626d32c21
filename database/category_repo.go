package database

import (
	"context"

	"github.com/rankforge/site-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

func (r *CategoryRepo) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.*, COUNT(articles.id) AS article_count, "+
			"COUNT(articles.id) FILTER (WHERE articles.status = ?) AS published_article_count", models.StatusPublished).
		Joins("LEFT JOIN articles ON articles.category_id = categories.id").
		Group("categories.id")
}

func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.CategoryWithCounts, error) {
	categories := []models.CategoryWithCounts{}
	err := r.withCounts(ctx).Order("categories.name ASC").Scan(&categories).Error
	return categories, err
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*models.CategoryWithCounts, error) {
	var categories []models.CategoryWithCounts
	if err := r.withCounts(ctx).Where("categories.id = ?", id).Limit(1).Scan(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &categories[0], nil
}

func (r *CategoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Category{}, id)
}

func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return update(ctx, r.db, &models.Category{}, id, changes)
}

func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return remove(ctx, r.db, &models.Category{}, id)
}

func (r *CategoryRepo) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return taken(ctx, r.db, &models.Category{}, "slug", slug, excludeID)
}
