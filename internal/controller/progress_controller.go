package controller

import (
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type CompletionRequest struct {
	Type     string `json:"type" binding:"required,oneof=LESSON SLIDE COURSE"`
	TargetID string `json:"targetId" binding:"required"`
}

// RecordCompletion godoc
// @Summary 记录完成
// @Description 幂等操作：重复标记同一目标返回成功但不产生新记录
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Param   body body CompletionRequest true "完成目标"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/completions [post]
func (c *ProgressController) RecordCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.ProgressService.RecordCompletion(claims.UserID, model.CompletionType(req.Type), req.TargetID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"created": created})
}

// CourseProgress godoc
// @Summary 获取课程学习进度
// @Tags 学习进度
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) CourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.GetCourseProgress(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// RecentCompletions godoc
// @Summary 获取最近的完成记录
// @Tags 学习进度
// @Produce  json
// @Param   type query string false "完成类型" Enums(LESSON, SLIDE, COURSE)
// @Success 200 {object} util.Response{data=[]model.CompletionRecord}
// @Router /api/completions [get]
func (c *ProgressController) RecentCompletions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ctype := model.CompletionType(ctx.DefaultQuery("type", string(model.CompletionLesson)))

	records, err := c.ProgressService.RecentCompletions(claims.UserID, ctype)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
