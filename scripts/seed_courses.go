// 手动导入演示课程数据脚本
//
// 新环境部署后跑一次，生成一门已发布的演示课程（含模块和课时），
// 方便前端联调和进度/证书流程的手工验证。
//
// 用法: go run scripts/seed_courses.go

package main

import (
	"artlearn_backend/internal/config"
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/repository"
	"artlearn_backend/pkg/database"
	"artlearn_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)

	course := &model.Course{
		Title:       "数字绘画入门",
		Description: "从零开始的数字绘画课程，涵盖软件基础、线稿、上色与完稿。",
		Published:   true,
	}
	if err := courseRepo.Create(course); err != nil {
		log.Fatalf("创建课程失败: %v", err)
	}

	modules := []struct {
		title   string
		lessons []string
	}{
		{"软件与工具基础", []string{"界面与画布设置", "常用笔刷介绍"}},
		{"线稿训练", []string{"基础线条练习", "人物线稿实战"}},
		{"上色与完稿", []string{"色彩基础", "光影处理"}},
	}

	for i, m := range modules {
		cm := &model.CourseModule{
			CourseID: course.ID,
			Title:    m.title,
			Order:    i,
		}
		if err := courseRepo.CreateModule(cm); err != nil {
			log.Fatalf("创建模块失败: %v", err)
		}
		for j, title := range m.lessons {
			lesson := &model.Lesson{
				ModuleID: cm.ID,
				Title:    title,
				Order:    j,
			}
			if err := courseRepo.CreateLesson(lesson); err != nil {
				log.Fatalf("创建课时失败: %v", err)
			}
		}
	}

	log.Printf("演示课程导入完成: courseID=%d", course.ID)
}
