package database

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rankforge/site-backend/models"
	"gorm.io/gorm"
)

type ArticleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) *ArticleRepo {
	return &ArticleRepo{db}
}

// ArticleFilter narrows an article listing. Zero values mean no restriction.
type ArticleFilter struct {
	Status     string
	AuthorID   uint
	CategoryID uint
	Tag        string
	Search     string
	Limit      int
	Offset     int
}

func (f ArticleFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("articles.status = ?", f.Status)
	}
	if f.AuthorID != 0 {
		db = db.Where("articles.author_id = ?", f.AuthorID)
	}
	if f.CategoryID != 0 {
		db = db.Where("articles.category_id = ?", f.CategoryID)
	}
	if f.Tag != "" {
		contains, _ := json.Marshal([]string{f.Tag})
		db = db.Where("articles.tags @> ?::jsonb", string(contains))
	}
	if f.Search != "" {
		db = db.Where("articles.title ILIKE ?", "%"+escapeLike(f.Search)+"%")
	}
	return db
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// FindAll returns one page of articles joined with author and category names, newest first,
// together with the total number of matching rows.
func (r *ArticleRepo) FindAll(ctx context.Context, filter ArticleFilter) ([]models.ArticleListItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&models.Article{}).
		Select("articles.*, authors.name AS author_name, categories.name AS category_name").
		Joins("LEFT JOIN authors ON authors.id = articles.author_id").
		Joins("LEFT JOIN categories ON categories.id = articles.category_id").
		Scopes(filter.scope).
		Order("articles.created_at DESC, articles.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	items := []models.ArticleListItem{}
	if err := q.Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByID returns an article by its ID
func (r *ArticleRepo) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Add inserts a new article into the database
func (r *ArticleRepo) Add(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit("Author", "Category").Create(article).Error
}

// Update writes only the given columns of the article with id.
func (r *ArticleRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return update(ctx, r.db, &models.Article{}, id, changes)
}

// Delete removes an article from the database by id
func (r *ArticleRepo) Delete(ctx context.Context, id uint) error {
	return remove(ctx, r.db, &models.Article{}, id)
}

func (r *ArticleRepo) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return taken(ctx, r.db, &models.Article{}, "slug", slug, excludeID)
}

func (r *ArticleRepo) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *ArticleRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}
