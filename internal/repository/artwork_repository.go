package repository

import (
	"artlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ArtworkRepository struct {
	DB *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{DB: db}
}

func (r *ArtworkRepository) Create(artwork *model.Artwork) error {
	return r.DB.Create(artwork).Error
}

func (r *ArtworkRepository) FindByID(id uint) (*model.Artwork, error) {
	var artwork model.Artwork
	err := r.DB.First(&artwork, id).Error
	if err != nil {
		return nil, err
	}
	return &artwork, nil
}

func (r *ArtworkRepository) List(page, limit int) ([]model.Artwork, int64, error) {
	var artworks []model.Artwork
	var total int64

	if err := r.DB.Model(&model.Artwork{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&artworks).Error
	return artworks, total, err
}

func (r *ArtworkRepository) IncrementViews(id uint) error {
	return r.DB.Model(&model.Artwork{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", 1)).
		Error
}

func (r *ArtworkRepository) AddLikeCount(id uint, delta int) error {
	return r.DB.Model(&model.Artwork{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", delta)).
		Error
}
