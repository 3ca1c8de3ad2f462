package model

import "time"

// CourseProgress 每个 (用户, 课程) 只有一条记录，唯一索引在存储层保证。
// OverallProgress 永远由当前已记录课时重新计算，ModuleProgress.Completed
// 仅作展示冗余，不作为权威数据读取。
type CourseProgress struct {
	BaseModel
	UserID            uint             `gorm:"uniqueIndex:idx_progress_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID          uint             `gorm:"uniqueIndex:idx_progress_user_course;type:bigint unsigned;not null" json:"courseId"`
	OverallProgress   int              `gorm:"default:0" json:"overallProgress"` // 0-100
	CompletedAt       *time.Time       `json:"completedAt,omitempty"`
	CertificateIssued bool             `gorm:"default:false" json:"certificateIssued"`
	LastAccessedAt    time.Time        `json:"lastAccessedAt"`
	Version           int              `gorm:"default:0" json:"-"` // 乐观锁版本号
	Modules           []ModuleProgress `gorm:"foreignKey:CourseProgressID" json:"modules"`
}

func (CourseProgress) TableName() string {
	return "course_progresses"
}

// ModuleProgress 按首次出现顺序排列（Position 递增）。
type ModuleProgress struct {
	BaseModel
	CourseProgressID uint             `gorm:"uniqueIndex:idx_mp_progress_module;type:bigint unsigned;not null" json:"-"`
	ModuleID         uint             `gorm:"uniqueIndex:idx_mp_progress_module;type:bigint unsigned;not null" json:"moduleId"`
	Position         int              `gorm:"default:0" json:"-"`
	Completed        bool             `gorm:"default:false" json:"completed"`
	Lessons          []LessonProgress `gorm:"foreignKey:ModuleProgressID" json:"lessons"`
}

func (ModuleProgress) TableName() string {
	return "module_progresses"
}

type LessonProgress struct {
	BaseModel
	ModuleProgressID uint       `gorm:"uniqueIndex:idx_lp_module_lesson;type:bigint unsigned;not null" json:"-"`
	LessonID         uint       `gorm:"uniqueIndex:idx_lp_module_lesson;type:bigint unsigned;not null" json:"lessonId"`
	Position         int        `gorm:"default:0" json:"-"`
	Completed        bool       `gorm:"default:false" json:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	TimeSpent        int        `gorm:"default:0" json:"timeSpent"` // 秒
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}

// CompletedLessonCount 统计当前记录里已完成/全部课时数。
func (p *CourseProgress) CompletedLessonCount() (completed, total int) {
	for _, m := range p.Modules {
		for _, l := range m.Lessons {
			total++
			if l.Completed {
				completed++
			}
		}
	}
	return
}
