package controller

import (
	"errors"
	"strconv"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AgendaController struct {
	AgendaService *service.AgendaService
}

func NewAgendaController(agendaService *service.AgendaService) *AgendaController {
	return &AgendaController{AgendaService: agendaService}
}

type ReplaceAgendaRequest struct {
	AgendaItems []service.AgendaItemInput `json:"agendaItems"`
}

// Replace godoc
// @Summary 整体替换会议议程
// @Description 空列表是no-op，返回现有议程；条目ID由服务端重新生成
// @Tags 议程
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   body body ReplaceAgendaRequest true "议程列表"
// @Success 200 {object} util.Response{data=[]model.AgendaItem}
// @Failure 400 {object} util.Response "字段校验失败"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/meetings/{id}/agenda [put]
func (c *AgendaController) Replace(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ReplaceAgendaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	items, err := c.AgendaService.Replace(claims.UserID, ctx.Param("id"), req.AgendaItems)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			util.ValidationFailed(ctx, ve.Fields)
		case errors.Is(err, util.ErrMeetingNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, items)
}

// List godoc
// @Summary 获取会议议程
// @Tags 议程
// @Produce  json
// @Param   id path string true "会议ID"
// @Success 200 {object} util.Response{data=[]model.AgendaItem}
// @Failure 404 {object} util.Response
// @Router /api/meetings/{id}/agenda [get]
func (c *AgendaController) List(ctx *gin.Context) {
	items, err := c.AgendaService.List(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrMeetingNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, items)
}

type AgendaStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary 更新议程条目状态
// @Description 状态变更实时推送到会议内所有连接
// @Tags 议程
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   itemId path string true "议程条目ID"
// @Param   body body AgendaStatusRequest true "新状态"
// @Success 200 {object} util.Response{data=model.AgendaItem}
// @Failure 400 {object} util.Response "非法状态"
// @Router /api/meetings/{id}/agenda/{itemId}/status [put]
func (c *AgendaController) UpdateStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AgendaStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	status := model.AgendaStatus(req.Status)
	if !model.ValidStatus(status) {
		util.BadRequest(ctx, "status must be one of pending, progress, completed, skipped")
		return
	}

	item, err := c.AgendaService.UpdateStatus(claims.UserID, ctx.Param("id"), ctx.Param("itemId"), status)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMeetingNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, item)
}

// Generate godoc
// @Summary AI生成议程建议
// @Description 返回的草稿不落库，需调用替换接口保存
// @Tags 议程
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   remaining query int false "剩余可安排分钟数"
// @Success 200 {object} util.Response{data=[]service.AgendaItemInput}
// @Failure 404 {object} util.Response
// @Router /api/meetings/{id}/agenda/generate [post]
func (c *AgendaController) Generate(ctx *gin.Context) {
	remaining, _ := strconv.Atoi(ctx.DefaultQuery("remaining", "0"))

	drafts, err := c.AgendaService.Generate(ctx.Param("id"), remaining)
	if err != nil {
		if errors.Is(err, util.ErrMeetingNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, drafts)
}
