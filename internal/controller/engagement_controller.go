package controller

import (
	"artlearn_backend/internal/model"
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type EngagementController struct {
	EngagementService *service.EngagementService
}

func NewEngagementController(engagementService *service.EngagementService) *EngagementController {
	return &EngagementController{EngagementService: engagementService}
}

func parseTarget(ctx *gin.Context) (model.TargetType, uint, bool) {
	targetType := model.TargetType(ctx.Param("targetType"))
	if targetType != model.TargetArtwork && targetType != model.TargetArticle {
		util.BadRequest(ctx, "不支持的目标类型")
		return "", 0, false
	}
	targetID := util.MustParseUint(ctx.Param("targetId"))
	if targetID == 0 {
		util.BadRequest(ctx, "无效的目标ID")
		return "", 0, false
	}
	return targetType, targetID, true
}

// Like godoc
// @Summary 点赞
// @Description 给作品或文章点赞，重复点赞不报错
// @Tags 互动
// @Produce json
// @Security ApiKeyAuth
// @Param targetType path string true "目标类型" Enums(artwork, article)
// @Param targetId path int true "目标ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/engagement/{targetType}/{targetId}/like [post]
func (c *EngagementController) Like(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	targetType, targetID, ok := parseTarget(ctx)
	if !ok {
		return
	}

	if err := c.EngagementService.Like(claims.UserID, targetType, targetID); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Unlike godoc
// @Summary 取消点赞
// @Tags 互动
// @Produce json
// @Security ApiKeyAuth
// @Param targetType path string true "目标类型" Enums(artwork, article)
// @Param targetId path int true "目标ID"
// @Success 200 {object} util.Response
// @Router /api/engagement/{targetType}/{targetId}/like [delete]
func (c *EngagementController) Unlike(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	targetType, targetID, ok := parseTarget(ctx)
	if !ok {
		return
	}

	if err := c.EngagementService.Unlike(claims.UserID, targetType, targetID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CreateComment godoc
// @Summary 发表评论
// @Tags 互动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param targetType path string true "目标类型" Enums(artwork, article)
// @Param targetId path int true "目标ID"
// @Param body body service.CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment}
// @Failure 404 {object} util.Response
// @Router /api/engagement/{targetType}/{targetId}/comments [post]
func (c *EngagementController) CreateComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	targetType, targetID, ok := parseTarget(ctx)
	if !ok {
		return
	}

	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.EngagementService.CreateComment(claims.UserID, targetType, targetID, req)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, comment)
}

// ListComments godoc
// @Summary 评论列表
// @Tags 互动
// @Produce json
// @Param targetType path string true "目标类型" Enums(artwork, article)
// @Param targetId path int true "目标ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/engagement/{targetType}/{targetId}/comments [get]
func (c *EngagementController) ListComments(ctx *gin.Context) {
	targetType, targetID, ok := parseTarget(ctx)
	if !ok {
		return
	}

	page, limit := pagination(ctx)
	comments, total, err := c.EngagementService.ListComments(targetType, targetID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: comments, Total: total, Page: page, Limit: limit})
}
