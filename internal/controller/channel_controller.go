package controller

import (
	"errors"
	"net/http"
	"strconv"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChannelController struct {
	ChannelService *service.ChannelService
}

func NewChannelController(channelService *service.ChannelService) *ChannelController {
	return &ChannelController{ChannelService: channelService}
}

type ChannelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// Create godoc
// @Summary 创建频道
// @Tags 频道
// @Accept  json
// @Produce  json
// @Param   body body ChannelRequest true "频道信息"
// @Success 201 {object} util.Response{data=model.Channel}
// @Router /api/channels [post]
func (c *ChannelController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	channel, err := c.ChannelService.Create(claims.UserID, req.Name, req.Description, req.Thumbnail)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, channel)
}

// Get godoc
// @Summary 获取频道详情
// @Tags 频道
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 200 {object} util.Response{data=model.Channel}
// @Failure 404 {object} util.Response
// @Router /api/channels/{id} [get]
func (c *ChannelController) Get(ctx *gin.Context) {
	channel, err := c.ChannelService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChannelNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, channel)
}

// List godoc
// @Summary 分页获取频道列表
// @Tags 频道
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/channels [get]
func (c *ChannelController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	channels, total, err := c.ChannelService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  channels,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListOwn godoc
// @Summary 获取当前用户的频道
// @Tags 频道
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Channel}
// @Router /api/channels/mine [get]
func (c *ChannelController) ListOwn(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	channels, err := c.ChannelService.ListOwn(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, channels)
}

// Update godoc
// @Summary 更新频道
// @Description 仅频道所有者可操作
// @Tags 频道
// @Accept  json
// @Produce  json
// @Param   id path string true "频道ID"
// @Param   body body ChannelRequest true "频道信息"
// @Success 200 {object} util.Response{data=model.Channel}
// @Failure 403 {object} util.Response
// @Router /api/channels/{id} [put]
func (c *ChannelController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ChannelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	channel, err := c.ChannelService.Update(claims.UserID, ctx.Param("id"), req.Name, req.Description, req.Thumbnail)
	if err != nil {
		writeChannelError(ctx, err)
		return
	}
	util.Success(ctx, channel)
}

// Delete godoc
// @Summary 删除频道
// @Tags 频道
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/channels/{id} [delete]
func (c *ChannelController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ChannelService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		writeChannelError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// Subscribe godoc
// @Summary 订阅频道
// @Description 重复订阅返回409
// @Tags 频道
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response "已订阅"
// @Router /api/channels/{id}/subscribe [post]
func (c *ChannelController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ChannelService.Subscribe(claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrAlreadySubscribed) {
			util.Error(ctx, http.StatusConflict, "已订阅该频道")
		} else {
			writeChannelError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"subscribed": true})
}

// Unsubscribe godoc
// @Summary 取消订阅
// @Tags 频道
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 200 {object} util.Response
// @Router /api/channels/{id}/subscribe [delete]
func (c *ChannelController) Unsubscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ChannelService.Unsubscribe(claims.UserID, ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unsubscribed": true})
}

// SubscriberCount godoc
// @Summary 获取频道订阅数
// @Tags 频道
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/channels/{id}/subscribers/count [get]
func (c *ChannelController) SubscriberCount(ctx *gin.Context) {
	count, err := c.ChannelService.SubscriberCount(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

func writeChannelError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrChannelNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
