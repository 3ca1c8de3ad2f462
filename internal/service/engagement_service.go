package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EngagementService 点赞和评论。这些动作只是经验值的生产者：
// 主操作先落库，经验随后记账，记账挂了主操作照样成立。
type EngagementService struct {
	CommentRepo *repository.CommentRepository
	LikeRepo    *repository.LikeRepository
	ArtworkRepo *repository.ArtworkRepository
	ArticleRepo *repository.ArticleRepository
	Ledger      *LedgerService
}

func NewEngagementService(
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
	artworkRepo *repository.ArtworkRepository,
	articleRepo *repository.ArticleRepository,
	ledger *LedgerService,
) *EngagementService {
	return &EngagementService{
		CommentRepo: commentRepo,
		LikeRepo:    likeRepo,
		ArtworkRepo: artworkRepo,
		ArticleRepo: articleRepo,
		Ledger:      ledger,
	}
}

// targetOwner 查目标是否存在并返回作者。
func (s *EngagementService) targetOwner(targetType model.TargetType, targetID uint) (uint, error) {
	switch targetType {
	case model.TargetArtwork:
		artwork, err := s.ArtworkRepo.FindByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrNotFound
		}
		if err != nil {
			return 0, err
		}
		return artwork.AuthorID, nil
	case model.TargetArticle:
		article, err := s.ArticleRepo.FindByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrNotFound
		}
		if err != nil {
			return 0, err
		}
		return article.AuthorID, nil
	}
	return 0, util.ErrNotFound
}

// Like 幂等：重复点赞既不报错也不重复记经验（唯一索引 + 事件流水双保险）。
func (s *EngagementService) Like(userID uint, targetType model.TargetType, targetID uint) error {
	ownerID, err := s.targetOwner(targetType, targetID)
	if err != nil {
		return err
	}

	err = s.LikeRepo.Create(&model.Like{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	})
	if errors.Is(err, util.ErrConflict) {
		return nil // 已点过
	}
	if err != nil {
		return err
	}

	switch targetType {
	case model.TargetArtwork:
		_ = s.ArtworkRepo.AddLikeCount(targetID, 1)
	case model.TargetArticle:
		_ = s.ArticleRepo.AddLikeCount(targetID, 1)
	}

	// 给自己点赞不长经验
	if targetType == model.TargetArtwork && ownerID != userID {
		s.Ledger.Award(ownerID, model.XPArtworkLiked,
			fmt.Sprintf("artwork_liked:%d:by:%d", targetID, userID))
	}

	return nil
}

// Unlike 取消点赞不回收经验：总账只增不减。
func (s *EngagementService) Unlike(userID uint, targetType model.TargetType, targetID uint) error {
	removed, err := s.LikeRepo.Delete(userID, targetType, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	switch targetType {
	case model.TargetArtwork:
		_ = s.ArtworkRepo.AddLikeCount(targetID, -1)
	case model.TargetArticle:
		_ = s.ArticleRepo.AddLikeCount(targetID, -1)
	}
	return nil
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *EngagementService) CreateComment(userID uint, targetType model.TargetType, targetID uint, req CommentRequest) (*model.Comment, error) {
	ownerID, err := s.targetOwner(targetType, targetID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		AuthorID:   userID,
		TargetType: targetType,
		TargetID:   targetID,
		Content:    req.Content,
	}
	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}

	s.Ledger.Award(userID, model.XPCommentGiven,
		fmt.Sprintf("comment_given:%d", comment.ID))
	if ownerID != userID {
		s.Ledger.Award(ownerID, model.XPCommentReceived,
			fmt.Sprintf("comment_received:%d", comment.ID))
	}

	return comment, nil
}

func (s *EngagementService) ListComments(targetType model.TargetType, targetID uint, page, limit int) ([]model.Comment, int64, error) {
	return s.CommentRepo.FindByTarget(targetType, targetID, page, limit)
}
