package service

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// CourseService 课程目录的最小管理面：进度和证书需要真实的课程行
// 才能做联表展示。
type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	Published   bool   `json:"published"`
}

func (s *CourseService) CreateCourse(authorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		AuthorID:    authorID,
		Published:   req.Published,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

type ModuleRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CourseService) AddModule(courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	exists, err := s.CourseRepo.Exists(courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrNotFound
	}

	module := &model.CourseModule{
		CourseID: courseID,
		Title:    req.Title,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	VideoURL string `json:"videoUrl"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
}

func (s *CourseService) AddLesson(moduleID uint, req LessonRequest) (*model.Lesson, error) {
	lesson := &model.Lesson{
		ModuleID: moduleID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Duration: req.Duration,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return course, err
}

func (s *CourseService) ListCourses(page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit)
}
