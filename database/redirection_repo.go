package database

import (
	"context"

	"github.com/rankforge/site-backend/models"
	"gorm.io/gorm"
)

type RedirectionRepo struct {
	db *gorm.DB
}

func NewRedirectionRepo(db *gorm.DB) *RedirectionRepo {
	return &RedirectionRepo{db}
}

func (r *RedirectionRepo) FindAll(ctx context.Context) ([]models.Redirection, error) {
	redirections := []models.Redirection{}
	err := r.db.WithContext(ctx).Order("from_path ASC").Find(&redirections).Error
	return redirections, err
}

func (r *RedirectionRepo) FindByID(ctx context.Context, id uint) (*models.Redirection, error) {
	var redirection models.Redirection
	if err := r.db.WithContext(ctx).First(&redirection, id).Error; err != nil {
		return nil, err
	}
	return &redirection, nil
}

// FindByFromPath resolves the redirection registered for path.
func (r *RedirectionRepo) FindByFromPath(ctx context.Context, path string) (*models.Redirection, error) {
	var redirection models.Redirection
	if err := r.db.WithContext(ctx).Where("from_path = ?", path).Take(&redirection).Error; err != nil {
		return nil, err
	}
	return &redirection, nil
}

func (r *RedirectionRepo) Add(ctx context.Context, redirection *models.Redirection) error {
	return r.db.WithContext(ctx).Create(redirection).Error
}

func (r *RedirectionRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return update(ctx, r.db, &models.Redirection{}, id, changes)
}

func (r *RedirectionRepo) Delete(ctx context.Context, id uint) error {
	return remove(ctx, r.db, &models.Redirection{}, id)
}

func (r *RedirectionRepo) FromPathTaken(ctx context.Context, path string, excludeID uint) (bool, error) {
	return taken(ctx, r.db, &models.Redirection{}, "from_path", path, excludeID)
}
