package controller

import (
	"errors"
	"net/http"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MeetingController struct {
	MeetingService *service.MeetingService
	Hub            *service.MeetingHub
}

func NewMeetingController(meetingService *service.MeetingService, hub *service.MeetingHub) *MeetingController {
	return &MeetingController{
		MeetingService: meetingService,
		Hub:            hub,
	}
}

// Schedule godoc
// @Summary 预定会议
// @Description 校验失败不产生任何写入；附件按序创建，部分失败仍返回已创建的会议
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   body body service.ScheduleInput true "会议信息"
// @Success 201 {object} util.Response{data=model.Meeting}
// @Failure 400 {object} util.Response "字段校验失败"
// @Router /api/meetings [post]
func (c *MeetingController) Schedule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.ScheduleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	meeting, err := c.MeetingService.Schedule(claims.UserID, input)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			util.ValidationFailed(ctx, ve.Fields)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, meeting)
}

// Get godoc
// @Summary 获取会议详情
// @Description 仅主持人、协作人和参会者可见
// @Tags 会议
// @Produce  json
// @Param   id path string true "会议ID"
// @Success 200 {object} util.Response{data=model.Meeting}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/meetings/{id} [get]
func (c *MeetingController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	meeting, err := c.MeetingService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		writeMeetingError(ctx, err)
		return
	}
	util.Success(ctx, meeting)
}

// List godoc
// @Summary 获取当前用户的会议
// @Tags 会议
// @Produce  json
// @Param   upcoming query bool false "只看未开始的会议，默认true"
// @Success 200 {object} util.Response{data=[]model.Meeting}
// @Router /api/meetings [get]
func (c *MeetingController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	upcoming := ctx.DefaultQuery("upcoming", "true") == "true"

	meetings, err := c.MeetingService.ListForUser(claims.UserID, upcoming)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, meetings)
}

// UpdateSettings godoc
// @Summary 更新会议设置
// @Description 仅主持人可改，未提供的字段保持原值
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   body body service.MeetingSettings true "会议设置"
// @Success 200 {object} util.Response{data=model.Meeting}
// @Failure 403 {object} util.Response
// @Router /api/meetings/{id} [put]
func (c *MeetingController) UpdateSettings(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var settings service.MeetingSettings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	meeting, err := c.MeetingService.UpdateSettings(claims.UserID, ctx.Param("id"), settings)
	if err != nil {
		writeMeetingError(ctx, err)
		return
	}
	util.Success(ctx, meeting)
}

// Delete godoc
// @Summary 取消会议
// @Tags 会议
// @Produce  json
// @Param   id path string true "会议ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/meetings/{id} [delete]
func (c *MeetingController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.MeetingService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		writeMeetingError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type AttachFilesRequest struct {
	Uploader string                     `json:"uploader"`
	Files    []service.MeetingFileInput `json:"files" binding:"required"`
}

// AttachFiles godoc
// @Summary 向会议追加文件
// @Description 伴侣端扫码上传后回调；逐个创建，返回成功追加的数量
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   body body AttachFilesRequest true "文件列表"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/meetings/{id}/files [post]
func (c *MeetingController) AttachFiles(ctx *gin.Context) {
	var req AttachFilesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	count, err := c.MeetingService.AttachFiles(ctx.Param("id"), req.Uploader, req.Files)
	if err != nil {
		writeMeetingError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attachedCount": count})
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Invite godoc
// @Summary 邀请协作人
// @Description 仅主持人可邀请；给被邀请人发送邮件
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   body body InviteRequest true "被邀请人邮箱"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response "已邀请"
// @Router /api/meetings/{id}/invite [post]
func (c *MeetingController) Invite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MeetingService.Invite(claims.UserID, ctx.Param("id"), req.Email); err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyInvited):
			util.Error(ctx, http.StatusConflict, "该用户已被邀请")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			writeMeetingError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"invited": true})
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

// Respond godoc
// @Summary 回应会议邀请
// @Description 接受后成为协作人；拒绝则删除邀请记录
// @Tags 会议
// @Accept  json
// @Produce  json
// @Param   id path string true "会议ID"
// @Param   body body RespondRequest true "是否接受"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "邀请不存在"
// @Router /api/meetings/{id}/respond [post]
func (c *MeetingController) Respond(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.MeetingService.Respond(claims.UserID, ctx.Param("id"), req.Accept); err != nil {
		if errors.Is(err, util.ErrInvitationNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"accepted": req.Accept})
}

// Join godoc
// @Summary 加入会议
// @Description 幂等操作，重复加入直接成功
// @Tags 会议
// @Produce  json
// @Param   id path string true "会议ID"
// @Success 200 {object} util.Response
// @Router /api/meetings/{id}/join [post]
func (c *MeetingController) Join(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.MeetingService.Join(claims.UserID, ctx.Param("id")); err != nil {
		writeMeetingError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"joined": true})
}

// ServeWs godoc
// @Summary 会议WebSocket连接
// @Description 升级到WebSocket，接收议程变更和参会者进出事件
// @Tags 会议
// @Param   id path string true "会议ID"
// @Router /api/meetings/{id}/ws [get]
func (c *MeetingController) ServeWs(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	meetingID := ctx.Param("id")

	// 建连前校验成员身份
	if _, err := c.MeetingService.Get(claims.UserID, meetingID); err != nil {
		writeMeetingError(ctx, err)
		return
	}

	service.ServeMeetingWs(c.Hub, ctx.Writer, ctx.Request, meetingID, claims.UserID)
}

func writeMeetingError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrMeetingNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
