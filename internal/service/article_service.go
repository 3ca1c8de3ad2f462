package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ArticleService struct {
	ArticleRepo *repository.ArticleRepository
	Ledger      *LedgerService
}

func NewArticleService(articleRepo *repository.ArticleRepository, ledger *LedgerService) *ArticleService {
	return &ArticleService{
		ArticleRepo: articleRepo,
		Ledger:      ledger,
	}
}

type ArticleRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	CoverURL string `json:"coverUrl"`
}

func (s *ArticleService) CreateArticle(userID uint, req ArticleRequest) (*model.Article, error) {
	article := &model.Article{
		AuthorID:  userID,
		Title:     req.Title,
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		Published: true,
	}
	if err := s.ArticleRepo.Create(article); err != nil {
		return nil, err
	}

	s.Ledger.Award(userID, model.XPArticleCreated,
		fmt.Sprintf("article_created:%d", article.ID))

	return article, nil
}

func (s *ArticleService) GetArticle(id uint) (*model.Article, error) {
	article, err := s.ArticleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.ArticleRepo.IncrementViews(id)
	return article, nil
}

func (s *ArticleService) ListArticles(page, limit int) ([]model.Article, int64, error) {
	return s.ArticleRepo.List(page, limit)
}
