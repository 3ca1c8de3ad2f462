package repository

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByTarget(targetType model.TargetType, targetID uint, page, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	if err := r.DB.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	return comments, total, err
}

type LikeRepository struct {
	DB *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{DB: db}
}

// Create 重复点赞撞 (user, target) 唯一索引，返回 util.ErrConflict。
func (r *LikeRepository) Create(like *model.Like) error {
	if err := r.DB.Create(like).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

func (r *LikeRepository) Delete(userID uint, targetType model.TargetType, targetID uint) (bool, error) {
	result := r.DB.Unscoped().
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Like{})
	return result.RowsAffected > 0, result.Error
}

func (r *LikeRepository) Exists(userID uint, targetType model.TargetType, targetID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}
