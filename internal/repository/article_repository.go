package repository

import (
	"artlearn_backend/internal/model"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	DB *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{DB: db}
}

func (r *ArticleRepository) Create(article *model.Article) error {
	return r.DB.Create(article).Error
}

func (r *ArticleRepository) FindByID(id uint) (*model.Article, error) {
	var article model.Article
	err := r.DB.First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) List(page, limit int) ([]model.Article, int64, error) {
	var articles []model.Article
	var total int64

	if err := r.DB.Model(&model.Article{}).Where("published = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Where("published = ?", true).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&articles).Error
	return articles, total, err
}

func (r *ArticleRepository) IncrementViews(id uint) error {
	return r.DB.Model(&model.Article{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", 1)).
		Error
}

func (r *ArticleRepository) AddLikeCount(id uint, delta int) error {
	return r.DB.Model(&model.Article{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + ?", delta)).
		Error
}
