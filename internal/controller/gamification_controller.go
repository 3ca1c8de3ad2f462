package controller

import (
	"artlearn_backend/internal/service"
	"artlearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	LedgerService *service.LedgerService
}

func NewGamificationController(ledgerService *service.LedgerService) *GamificationController {
	return &GamificationController{LedgerService: ledgerService}
}

// GetLeaderboard godoc
// @Summary 经验值排行榜
// @Tags 激励
// @Produce json
// @Param limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/gamification/leaderboard [get]
func (c *GamificationController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := c.LedgerService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// GetMyStats godoc
// @Summary 我的经验统计
// @Description 当前经验、等级、距下一级所需经验与排名
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserStats}
// @Router /api/gamification/stats [get]
func (c *GamificationController) GetMyStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.LedgerService.GetUserStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
