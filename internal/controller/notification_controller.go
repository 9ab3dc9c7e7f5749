package controller

import (
	"errors"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// Create godoc
// @Summary 发布课程公告
// @Description 作者取自会话身份；标题上限200字符，正文上限5000字符（含边界）
// @Tags 公告
// @Accept  json
// @Produce  json
// @Param   body body service.NotificationInput true "公告内容"
// @Success 201 {object} util.Response{data=model.Notification}
// @Failure 400 {object} util.Response "字段校验失败"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/notifications [post]
func (c *NotificationController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.NotificationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	notification, err := c.NotificationService.Create(claims.UserID, input)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			util.ValidationFailed(ctx, ve.Fields)
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, notification)
}

// ListForCourse godoc
// @Summary 获取课程公告
// @Description 置顶优先，附带当前用户的已读标记
// @Tags 公告
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]service.NotificationWithState}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/notifications [get]
func (c *NotificationController) ListForCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	list, err := c.NotificationService.ListForCourse(claims.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, list)
}

// MarkViewed godoc
// @Summary 标记公告已读
// @Description 幂等操作，响应区分是否早已标记过
// @Tags 公告
// @Produce  json
// @Param   id path string true "公告ID"
// @Success 200 {object} util.Response{data=service.MarkViewedResult}
// @Failure 404 {object} util.Response
// @Router /api/notifications/{id}/view [post]
func (c *NotificationController) MarkViewed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.NotificationService.MarkViewed(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNotificationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// TogglePin godoc
// @Summary 置顶/取消置顶公告
// @Description 仅公告作者可操作
// @Tags 公告
// @Produce  json
// @Param   id path string true "公告ID"
// @Success 200 {object} util.Response{data=model.Notification}
// @Failure 403 {object} util.Response
// @Router /api/notifications/{id}/pin [put]
func (c *NotificationController) TogglePin(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	notification, err := c.NotificationService.TogglePin(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotificationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, notification)
}

// UnreadCount godoc
// @Summary 获取课程未读公告数
// @Tags 公告
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses/{id}/notifications/unread [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	count, err := c.NotificationService.UnreadCount(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}
