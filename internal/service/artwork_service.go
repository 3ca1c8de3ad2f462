package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

type ArtworkService struct {
	ArtworkRepo *repository.ArtworkRepository
	Storage     *StorageService
	Ledger      *LedgerService
}

func NewArtworkService(
	artworkRepo *repository.ArtworkRepository,
	storage *StorageService,
	ledger *LedgerService,
) *ArtworkService {
	return &ArtworkService{
		ArtworkRepo: artworkRepo,
		Storage:     storage,
		Ledger:      ledger,
	}
}

type ArtworkRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	VideoURL    string `json:"videoUrl"`
	Duration    int    `json:"duration"`
}

func (s *ArtworkService) CreateArtwork(userID uint, req ArtworkRequest) (*model.Artwork, error) {
	artwork := &model.Artwork{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
	}
	if err := s.ArtworkRepo.Create(artwork); err != nil {
		return nil, err
	}

	// 发布成功后记经验，记账失败不影响发布
	s.Ledger.Award(userID, model.XPArtworkCreated,
		fmt.Sprintf("artwork_created:%d", artwork.ID))

	return artwork, nil
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".avi": true, ".mkv": true,
}

type UploadResult struct {
	URL      string `json:"url"`
	Duration int    `json:"duration,omitempty"` // 视频作品才有
}

// UploadMedia 上传作品文件。视频先落临时文件探测时长再入对象存储。
func (s *ArtworkService) UploadMedia(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("artworks/%s%s", model.GenerateUUID(), ext)
	contentType := file.Header.Get("Content-Type")

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if !videoExts[ext] {
		url, err := s.Storage.Upload(ctx, objectName, src, file.Size, contentType)
		if err != nil {
			return nil, err
		}
		return &UploadResult{URL: url}, nil
	}

	tmp, err := os.CreateTemp("", "artwork-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		return nil, err
	}

	duration := 0
	if info, err := util.ProbeVideo(tmp.Name()); err == nil {
		duration = int(info.Duration)
	}

	url, err := s.Storage.UploadFile(ctx, objectName, tmp.Name(), contentType)
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: url, Duration: duration}, nil
}

func (s *ArtworkService) GetArtwork(id uint) (*model.Artwork, error) {
	artwork, err := s.ArtworkRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = s.ArtworkRepo.IncrementViews(id)
	return artwork, nil
}

func (s *ArtworkService) ListArtworks(page, limit int) ([]model.Artwork, int64, error) {
	return s.ArtworkRepo.List(page, limit)
}
