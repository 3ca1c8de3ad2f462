package repository

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// WithTx 返回绑定到事务的副本，供服务层在一个事务里组合多次写。
func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// FindByUserAndCourse 取整条进度记录，模块/课时按首次出现顺序排列。
func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("module_progresses.position ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_progresses.position ASC")
		}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Create 懒建进度记录。并发首次学习同一门课时，(user_id, course_id)
// 唯一索引会挡掉后到的一条，返回 util.ErrConflict 让调用方重读。
func (r *ProgressRepository) Create(progress *model.CourseProgress) error {
	if err := r.DB.Create(progress).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ProgressRepository) CreateModuleProgress(mp *model.ModuleProgress) error {
	if err := r.DB.Create(mp).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ProgressRepository) CreateLessonProgress(lp *model.LessonProgress) error {
	if err := r.DB.Create(lp).Error; err != nil {
		if IsDuplicateKey(err) {
			return util.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ProgressRepository) SaveLessonProgress(lp *model.LessonProgress) error {
	return r.DB.Save(lp).Error
}

func (r *ProgressRepository) UpdateModuleCompleted(moduleProgressID uint, completed bool) error {
	return r.DB.Model(&model.ModuleProgress{}).
		Where("id = ?", moduleProgressID).
		Update("completed", completed).
		Error
}

// AddLessonTime 给课时累加学习时长，不碰完成状态。
func (r *ProgressRepository) AddLessonTime(lessonProgressID uint, seconds int) error {
	return r.DB.Model(&model.LessonProgress{}).
		Where("id = ?", lessonProgressID).
		Update("time_spent", gorm.Expr("time_spent + ?", seconds)).
		Error
}

// CommitRecompute 按版本号 CAS 提交重算结果。版本不匹配说明有并发
// 写已经落地，返回 util.ErrConflict，由调用方整体重试。
// completedAt 只在首次达到 100% 时传入，之后不再改写。
func (r *ProgressRepository) CommitRecompute(progress *model.CourseProgress, expectedVersion int, completedAt *time.Time) error {
	updates := map[string]interface{}{
		"overall_progress": progress.OverallProgress,
		"last_accessed_at": time.Now(),
		"version":          gorm.Expr("version + 1"),
	}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}

	result := r.DB.Model(&model.CourseProgress{}).
		Where("id = ? AND version = ?", progress.ID, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrConflict
	}
	return nil
}

// MarkCertificateIssued 事务内和证书创建一起提交。
func (r *ProgressRepository) MarkCertificateIssued(progressID uint) error {
	return r.DB.Model(&model.CourseProgress{}).
		Where("id = ?", progressID).
		Update("certificate_issued", true).
		Error
}
