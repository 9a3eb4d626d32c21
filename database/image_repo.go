package database

import (
	"context"

	"github.com/rankforge/site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *ImageRepo {
	return &ImageRepo{db}
}

func (r *ImageRepo) FindAll(ctx context.Context) ([]models.Image, error) {
	images := []models.Image{}
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&images).Error
	return images, err
}

func (r *ImageRepo) FindByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ImageRepo) Add(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// Update writes the given columns. Images carry no updated_at.
func (r *ImageRepo) Update(ctx context.Context, id uint, changes map[string]any) error {
	return update(ctx, r.db, &models.Image{}, id, changes)
}

// DeleteWith removes the row and runs removeFile inside the same transaction. The row
// delete is rolled back when removeFile fails, so row and file go away together.
func (r *ImageRepo) DeleteWith(ctx context.Context, id uint, removeFile func(models.Image) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image models.Image
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&image, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&image).Error; err != nil {
			return err
		}
		return removeFile(image)
	})
}
