package controller

import (
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ArticleController struct {
	ArticleService *service.ArticleService
}

func NewArticleController(articleService *service.ArticleService) *ArticleController {
	return &ArticleController{ArticleService: articleService}
}

// CreateArticle godoc
// @Summary 发布文章
// @Description 发布一篇文章，发布成功后奖励经验值
// @Tags 文章
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ArticleRequest true "文章内容"
// @Success 201 {object} util.Response{data=model.Article}
// @Failure 400 {object} util.Response
// @Router /api/articles [post]
func (c *ArticleController) CreateArticle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	article, err := c.ArticleService.CreateArticle(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, article)
}

// GetArticle godoc
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} util.Response{data=model.Article}
// @Failure 404 {object} util.Response
// @Router /api/articles/{id} [get]
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	article, err := c.ArticleService.GetArticle(id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, article)
}

// ListArticles godoc
// @Summary 文章列表
// @Tags 文章
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/articles [get]
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	page, limit := pagination(ctx)

	articles, total, err := c.ArticleService.ListArticles(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: articles, Total: total, Page: page, Limit: limit})
}
