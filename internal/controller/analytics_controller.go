package controller

import (
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// CreatorDashboard godoc
// @Summary 创作者仪表盘
// @Description 聚合频道订阅数、课程观看和完成数据，结果缓存5分钟
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=service.CreatorDashboard}
// @Router /api/analytics/creator [get]
func (c *AnalyticsController) CreatorDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dash, err := c.AnalyticsService.GetCreatorDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}

// LearnerDashboard godoc
// @Summary 学习者仪表盘
// @Description 完成统计、最近动态和即将开始的会议
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=service.LearnerDashboard}
// @Router /api/analytics/learner [get]
func (c *AnalyticsController) LearnerDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dash, err := c.AnalyticsService.GetLearnerDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}
