package controller

import (
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ArtworkController struct {
	ArtworkService *service.ArtworkService
}

func NewArtworkController(artworkService *service.ArtworkService) *ArtworkController {
	return &ArtworkController{ArtworkService: artworkService}
}

// CreateArtwork godoc
// @Summary 发布作品
// @Description 发布一件作品，发布成功后奖励经验值
// @Tags 作品
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ArtworkRequest true "作品信息"
// @Success 201 {object} util.Response{data=model.Artwork}
// @Failure 400 {object} util.Response
// @Router /api/artworks [post]
func (c *ArtworkController) CreateArtwork(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ArtworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	artwork, err := c.ArtworkService.CreateArtwork(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, artwork)
}

// UploadMedia godoc
// @Summary 上传作品文件
// @Description 上传图片或视频文件，视频自动探测时长
// @Tags 作品
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "作品文件"
// @Success 200 {object} util.Response{data=service.UploadResult}
// @Failure 400 {object} util.Response
// @Router /api/artworks/upload [post]
func (c *ArtworkController) UploadMedia(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "未找到上传文件")
		return
	}

	result, err := c.ArtworkService.UploadMedia(ctx.Request.Context(), file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetArtwork godoc
// @Summary 作品详情
// @Tags 作品
// @Produce json
// @Param id path int true "作品ID"
// @Success 200 {object} util.Response{data=model.Artwork}
// @Failure 404 {object} util.Response
// @Router /api/artworks/{id} [get]
func (c *ArtworkController) GetArtwork(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	artwork, err := c.ArtworkService.GetArtwork(id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, artwork)
}

// ListArtworks godoc
// @Summary 作品列表
// @Tags 作品
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/artworks [get]
func (c *ArtworkController) ListArtworks(ctx *gin.Context) {
	page, limit := pagination(ctx)

	artworks, total, err := c.ArtworkService.ListArtworks(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: artworks, Total: total, Page: page, Limit: limit})
}
