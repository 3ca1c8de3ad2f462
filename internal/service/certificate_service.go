package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"artlearn_backend/pkg/logger"
	"artlearn_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CertificateService 结业证书签发。每个 (用户, 课程) 至多一张，
// 重复签发返回同一张，靠存储层唯一索引兜底并发。
type CertificateService struct {
	CertRepo     *repository.CertificateRepository
	ProgressRepo *repository.ProgressRepository
	DB           *gorm.DB
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *CertificateService {
	return &CertificateService{
		CertRepo:     certRepo,
		ProgressRepo: progressRepo,
		DB:           db,
	}
}

// IssueCertificate 课程没学完（包括一条进度都没有，按 0% 处理）返回
// ErrCourseIncomplete。已有证书原样返回，不报错也不再建。
func (s *CertificateService) IssueCertificate(userID, courseID uint) (*model.CertificateView, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseIncomplete
	}
	if err != nil {
		return nil, err
	}
	if progress.OverallProgress < 100 {
		return nil, util.ErrCourseIncomplete
	}

	if existing, err := s.CertRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return s.CertRepo.FindView(existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	serial, err := util.GenerateSerial()
	if err != nil {
		return nil, err
	}

	cert := &model.Certificate{
		Serial:   serial,
		UserID:   userID,
		CourseID: courseID,
		IssuedAt: time.Now(),
	}

	// 证书落库和进度上的签发标记一起提交
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if cerr := s.CertRepo.WithTx(tx).Create(cert); cerr != nil {
			return cerr
		}
		return s.ProgressRepo.WithTx(tx).MarkCertificateIssued(progress.ID)
	})
	if errors.Is(err, util.ErrConflict) {
		// 并发签发撞了唯一索引：对方那张就是这张，拿来返回
		existing, ferr := s.CertRepo.FindByUserAndCourse(userID, courseID)
		if ferr != nil {
			return nil, ferr
		}
		return s.CertRepo.FindView(existing.ID)
	}
	if err != nil {
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	logger.Log.Info("certificate issued",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("serial", cert.Serial))

	return s.CertRepo.FindView(cert.ID)
}

func (s *CertificateService) ListCertificates(userID uint) ([]model.CertificateView, error) {
	return s.CertRepo.FindViewsByUser(userID)
}

// VerifyCertificate 公开核验：按证书编号查真伪，不需要登录。
func (s *CertificateService) VerifyCertificate(serial string) (*model.CertificateView, error) {
	cert, err := s.CertRepo.FindBySerial(serial)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.CertRepo.FindView(cert.ID)
}
