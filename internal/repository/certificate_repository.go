package repository

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: tx}
}

// Create 依赖 (user_id, course_id) 唯一索引兜底并发重复签发，
// 冲突时返回 util.ErrConflict，调用方回退到已存在的证书。
func (r *CertificateRepository) Create(cert *model.Certificate) error {
	if err := r.DB.Create(cert).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

func (r *CertificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindBySerial(serial string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("serial = ?", serial).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByUserID(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) FindViewsByUser(userID uint) ([]model.CertificateView, error) {
	var views []model.CertificateView
	err := r.DB.Model(&model.Certificate{}).
		Select("certificates.serial, certificates.issued_at, certificates.user_id, users.name AS user_name, certificates.course_id, courses.title AS course_title").
		Joins("JOIN users ON users.id = certificates.user_id").
		Joins("JOIN courses ON courses.id = certificates.course_id").
		Where("certificates.user_id = ?", userID).
		Order("certificates.issued_at DESC").
		Scan(&views).Error
	return views, err
}

// FindView 联表读出展示字段，证书本体不存这些。
func (r *CertificateRepository) FindView(certID uint) (*model.CertificateView, error) {
	var view model.CertificateView
	err := r.DB.Model(&model.Certificate{}).
		Select("certificates.serial, certificates.issued_at, certificates.user_id, users.name AS user_name, certificates.course_id, courses.title AS course_title").
		Joins("JOIN users ON users.id = certificates.user_id").
		Joins("JOIN courses ON courses.id = certificates.course_id").
		Where("certificates.id = ?", certID).
		Scan(&view).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}
