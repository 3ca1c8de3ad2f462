package controller

import (
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// CompleteLesson godoc
// @Summary 上报课时完成
// @Description 标记课时完成并重算课程完成度，重复上报幂等
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param moduleId path int true "模块ID"
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/modules/{moduleId}/lessons/{lessonId}/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	moduleID := util.MustParseUint(ctx.Param("moduleId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))
	if courseID == 0 || moduleID == 0 || lessonID == 0 {
		util.BadRequest(ctx, "invalid course/module/lesson id")
		return
	}

	progress, err := c.ProgressService.RecordLessonCompletion(claims.UserID, courseID, moduleID, lessonID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

type LessonTimeRequest struct {
	Seconds int `json:"seconds" binding:"required,min=1"`
}

// RecordLessonTime godoc
// @Summary 上报课时学习时长
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param moduleId path int true "模块ID"
// @Param lessonId path int true "课时ID"
// @Param body body LessonTimeRequest true "累加秒数"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/modules/{moduleId}/lessons/{lessonId}/time [post]
func (c *ProgressController) RecordLessonTime(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LessonTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	moduleID := util.MustParseUint(ctx.Param("moduleId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	err := c.ProgressService.RecordLessonTime(claims.UserID, courseID, moduleID, lessonID, req.Seconds)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// GetProgress godoc
// @Summary 查询课程学习进度
// @Description 没学过的课程返回 started=false，不报错
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgressView}
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	view, err := c.ProgressService.GetProgress(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
