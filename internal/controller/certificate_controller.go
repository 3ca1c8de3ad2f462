package controller

import (
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// IssueCertificate godoc
// @Summary 签发结业证书
// @Description 课程完成度到 100% 后签发，重复调用返回同一张证书
// @Tags 证书
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 400 {object} util.Response "课程尚未完成"
// @Router /api/courses/{id}/certificate [post]
func (c *CertificateController) IssueCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	view, err := c.CertificateService.IssueCertificate(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseIncomplete) {
			util.Error(ctx, http.StatusBadRequest, "课程尚未完成，无法签发证书")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// ListCertificates godoc
// @Summary 查询我的证书
// @Description 只能看自己的证书列表
// @Tags 证书
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CertificateView}
// @Router /api/certificates [get]
func (c *CertificateController) ListCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.CertificateService.ListCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// VerifyCertificate godoc
// @Summary 证书真伪核验
// @Description 按证书编号公开核验，无需登录
// @Tags 证书
// @Produce json
// @Param serial path string true "证书编号"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/verify/{serial} [get]
func (c *CertificateController) VerifyCertificate(ctx *gin.Context) {
	serial := ctx.Param("serial")
	if serial == "" {
		util.BadRequest(ctx, "missing certificate serial")
		return
	}

	view, err := c.CertificateService.VerifyCertificate(serial)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
