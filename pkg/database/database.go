package database

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一键冲突要翻译成 gorm.ErrDuplicatedKey，幂等创建逻辑依赖它
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 建表。course_progresses/certificates/likes/xp_events 上的
// 唯一索引是并发正确性的一部分，不能省。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.CourseProgress{},
		&model.ModuleProgress{},
		&model.LessonProgress{},
		&model.Certificate{},
		&model.XPEvent{},
		&model.Artwork{},
		&model.Article{},
		&model.Comment{},
		&model.Like{},
	)
}
