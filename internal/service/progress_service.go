package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"artlearn_backend/pkg/monitoring"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// 同一 (用户, 课程) 上并发写靠版本号 CAS 串行化，输掉的一方整体重试
const progressMaxRetries = 5

// ProgressService 维护每个 (用户, 课程) 的课时完成状态。
// 完成度永远按当前记录里的课时数重算，只增不减。
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	Ledger       *LedgerService
	DB           *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	ledger *LedgerService,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		Ledger:       ledger,
		DB:           db,
	}
}

// CourseProgressView getProgress 的返回形态：没学过就是没学过，
// 不造一条全零记录，也不报错。
type CourseProgressView struct {
	Started  bool                  `json:"started"`
	Progress *model.CourseProgress `json:"progress,omitempty"`
}

func (s *ProgressService) GetProgress(userID, courseID uint) (*CourseProgressView, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &CourseProgressView{Started: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CourseProgressView{Started: true, Progress: progress}, nil
}

// RecordLessonCompletion 记一次课时完成。重复完成同一课时是幂等的：
// 不动时间戳，不动完成度。
func (s *ProgressService) RecordLessonCompletion(userID, courseID, moduleID, lessonID uint) (*model.CourseProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var justCompleted, courseCompleted bool
	for attempt := 0; ; attempt++ {
		justCompleted, courseCompleted, err = s.recordOnce(course, userID, moduleID, lessonID)
		if !errors.Is(err, util.ErrConflict) {
			break
		}
		if attempt >= progressMaxRetries {
			return nil, fmt.Errorf("lesson completion contention not resolved after %d attempts: %w", attempt+1, err)
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	if err != nil {
		return nil, err
	}

	if justCompleted {
		monitoring.LessonsCompleted.Inc()
		s.Ledger.Award(userID, model.XPLessonCompleted,
			fmt.Sprintf("lesson_completed:u:%d:c:%d:l:%d", userID, courseID, lessonID))
	}
	if courseCompleted {
		s.Ledger.Award(userID, model.XPCourseCompleted,
			fmt.Sprintf("course_completed:u:%d:c:%d", userID, courseID))
	}

	return s.ProgressRepo.FindByUserAndCourse(userID, courseID)
}

// recordOnce 在一个事务里走完一轮：懒建记录、落课时、重算、CAS 提交。
// 返回 (这次是否新完成了课时, 是否首次到 100%)。
func (s *ProgressService) recordOnce(course *model.Course, userID, moduleID, lessonID uint) (justCompleted, courseCompleted bool, err error) {
	courseID := course.ID
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.ProgressRepo.WithTx(tx)
		now := time.Now()

		progress, ferr := repo.FindByUserAndCourse(userID, courseID)
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			progress = &model.CourseProgress{
				UserID:         userID,
				CourseID:       courseID,
				LastAccessedAt: now,
			}
			if cerr := repo.Create(progress); cerr != nil {
				return cerr // 含 ErrConflict：并发抢先建了，重试后重读
			}
			// 首次触达时按课程当前结构铺满：完成度的分母从一开始就是
			// 全部课时，完成第一课不会直接 100%
			if serr := s.seedFromCatalog(repo, progress, course); serr != nil {
				return serr
			}
		} else if ferr != nil {
			return ferr
		}

		// 模块按首次出现顺序插入，永不移除
		var mp *model.ModuleProgress
		for i := range progress.Modules {
			if progress.Modules[i].ModuleID == moduleID {
				mp = &progress.Modules[i]
				break
			}
		}
		if mp == nil {
			mp = &model.ModuleProgress{
				CourseProgressID: progress.ID,
				ModuleID:         moduleID,
				Position:         len(progress.Modules),
			}
			if cerr := repo.CreateModuleProgress(mp); cerr != nil {
				return cerr
			}
			progress.Modules = append(progress.Modules, *mp)
			mp = &progress.Modules[len(progress.Modules)-1]
		}

		var lp *model.LessonProgress
		for i := range mp.Lessons {
			if mp.Lessons[i].LessonID == lessonID {
				lp = &mp.Lessons[i]
				break
			}
		}
		switch {
		case lp == nil:
			lp = &model.LessonProgress{
				ModuleProgressID: mp.ID,
				LessonID:         lessonID,
				Position:         len(mp.Lessons),
				Completed:        true,
				CompletedAt:      &now,
			}
			if cerr := repo.CreateLessonProgress(lp); cerr != nil {
				return cerr
			}
			mp.Lessons = append(mp.Lessons, *lp)
			justCompleted = true
		case !lp.Completed:
			lp.Completed = true
			lp.CompletedAt = &now
			if serr := repo.SaveLessonProgress(lp); serr != nil {
				return serr
			}
			justCompleted = true
		default:
			// 已完成的课时重复上报：时间戳、时长一概不动
		}

		// 完成度对全量课时重算，模块完成标记只是展示冗余
		completed, total := progress.CompletedLessonCount()
		overall := 0
		if total > 0 {
			overall = int(math.Round(float64(completed) / float64(total) * 100))
		}

		for i := range progress.Modules {
			m := &progress.Modules[i]
			mDone := len(m.Lessons) > 0
			for _, l := range m.Lessons {
				if !l.Completed {
					mDone = false
					break
				}
			}
			if m.Completed != mDone {
				if uerr := repo.UpdateModuleCompleted(m.ID, mDone); uerr != nil {
					return uerr
				}
			}
		}

		var completedAt *time.Time
		if overall == 100 && progress.OverallProgress < 100 {
			// 首次到 100%，完成时间只写这一次
			completedAt = &now
			courseCompleted = true
		}

		expected := progress.Version
		progress.OverallProgress = overall
		return repo.CommitRecompute(progress, expected, completedAt)
	})
	if err != nil {
		justCompleted = false
		courseCompleted = false
	}
	return
}

// seedFromCatalog 把课程目录里的模块和课时铺进新建的进度记录，
// 全部未完成。之后目录外新出现的模块/课时仍按首次出现顺序追加。
func (s *ProgressService) seedFromCatalog(repo *repository.ProgressRepository, progress *model.CourseProgress, course *model.Course) error {
	for i, cm := range course.Modules {
		mp := &model.ModuleProgress{
			CourseProgressID: progress.ID,
			ModuleID:         cm.ID,
			Position:         i,
		}
		if err := repo.CreateModuleProgress(mp); err != nil {
			return err
		}
		for j, lesson := range cm.Lessons {
			lp := &model.LessonProgress{
				ModuleProgressID: mp.ID,
				LessonID:         lesson.ID,
				Position:         j,
			}
			if err := repo.CreateLessonProgress(lp); err != nil {
				return err
			}
			mp.Lessons = append(mp.Lessons, *lp)
		}
		progress.Modules = append(progress.Modules, *mp)
	}
	return nil
}

// RecordLessonTime 给已有的课时进度累加学习时长。只更新已出现过的
// 课时：分母只能由完成事件扩大，时长统计不能反过来拉低完成度。
func (s *ProgressService) RecordLessonTime(userID, courseID, moduleID, lessonID uint, seconds int) error {
	if seconds <= 0 {
		return nil
	}

	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	if err != nil {
		return err
	}

	for _, mp := range progress.Modules {
		if mp.ModuleID != moduleID {
			continue
		}
		for _, lp := range mp.Lessons {
			if lp.LessonID == lessonID {
				return s.ProgressRepo.AddLessonTime(lp.ID, seconds)
			}
		}
	}
	return util.ErrNotFound
}
