package model

// Course 课程目录实体。进度记录的分母不依赖这里的结构，
// 只依赖进度记录里已出现过的课时（见 CourseProgress）。
type Course struct {
	BaseModel
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CoverURL    string         `gorm:"size:255" json:"coverUrl"`
	AuthorID    uint           `gorm:"index;type:bigint unsigned" json:"authorId"`
	Published   bool           `gorm:"default:false" json:"published"`
	Modules     []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	BaseModel
	CourseID uint     `gorm:"index;type:bigint unsigned" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Order    int      `gorm:"column:sort_order;default:0" json:"order"`
	Lessons  []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	BaseModel
	ModuleID uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	VideoURL string `gorm:"size:255" json:"videoUrl"`
	Duration int    `gorm:"default:0" json:"duration"` // 秒
	Order    int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
