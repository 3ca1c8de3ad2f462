package service

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/pkg/database"
	"artlearn_backend/pkg/logger"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试一个独立的内存库，串行连接避免 SQLITE_BUSY。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testGamification() config.GamificationConfig {
	return config.GamificationConfig{
		Rewards: map[string]int{
			"artwork_created":  50,
			"article_created":  40,
			"artwork_liked":    5,
			"comment_received": 3,
			"comment_given":    2,
			"lesson_completed": 10,
			"course_completed": 100,
		},
		LevelStep: 200,
	}
}

func newTestLedger(t *testing.T, db *gorm.DB) *LedgerService {
	t.Helper()
	cfg := &config.Config{Gamification: testGamification()}
	// Redis 为 nil 时排行榜缓存自动降级为纯 SQL
	return NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewUserRepository(db),
		nil,
		db,
		cfg,
	)
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.RoleUser,
		Level:    1,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(user))
	return user
}

// createTestCourse 建一门 moduleCount x lessonsPerModule 的课程。
func createTestCourse(t *testing.T, db *gorm.DB, moduleCount, lessonsPerModule int) *model.Course {
	t.Helper()
	repo := repository.NewCourseRepository(db)

	course := &model.Course{Title: "测试课程", Published: true}
	require.NoError(t, repo.Create(course))

	for i := 0; i < moduleCount; i++ {
		m := &model.CourseModule{CourseID: course.ID, Title: fmt.Sprintf("模块 %d", i+1), Order: i}
		require.NoError(t, repo.CreateModule(m))
		for j := 0; j < lessonsPerModule; j++ {
			l := &model.Lesson{ModuleID: m.ID, Title: fmt.Sprintf("课时 %d-%d", i+1, j+1), Order: j}
			require.NoError(t, repo.CreateLesson(l))
		}
	}
	return course
}

func newTestProgress(t *testing.T, db *gorm.DB) *ProgressService {
	t.Helper()
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewCourseRepository(db),
		newTestLedger(t, db),
		db,
	)
}

func newTestCertificates(t *testing.T, db *gorm.DB) *CertificateService {
	t.Helper()
	return NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewProgressRepository(db),
		db,
	)
}
