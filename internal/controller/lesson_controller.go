package controller

import (
	"errors"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   body body service.LessonInput true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response
// @Router /api/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(claims.UserID, input)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Get godoc
// @Summary 获取课时详情
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	lesson, err := c.LessonService.Get(ctx.Param("id"))
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// ListByCourse godoc
// @Summary 获取课程下的课时，按位置排序
// @Tags 课时
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	lessons, err := c.LessonService.ListByCourse(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   body body service.LessonInput true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LessonService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Description 服务端代传，探测视频时长后写入对象存储
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   video formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	fileHeader, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), claims.UserID, ctx.Param("id"), fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrInvalidFileType) {
			util.BadRequest(ctx, "不支持的文件类型")
		} else {
			writeLessonError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// RecordView godoc
// @Summary 记录课时观看
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/view [post]
func (c *LessonController) RecordView(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LessonService.RecordView(claims.UserID, ctx.Param("id")); err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"recorded": true})
}

// ToggleLike godoc
// @Summary 点赞/取消点赞课时
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/lessons/{id}/like [post]
func (c *LessonController) ToggleLike(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	liked, err := c.LessonService.ToggleLike(claims.UserID, ctx.Param("id"))
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"liked": liked})
}

type CommentRequest struct {
	FinalSlideID string `json:"finalSlideId"`
	Content      string `json:"content" binding:"required"`
}

// Comment godoc
// @Summary 发表幻灯片评论
// @Description 评论锚定到课时内的某一页幻灯片
// @Tags 课时
// @Accept  json
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   body body CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.SlideComment}
// @Router /api/lessons/{id}/comments [post]
func (c *LessonController) Comment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.LessonService.Comment(claims.UserID, ctx.Param("id"), req.FinalSlideID, req.Content)
	if err != nil {
		writeLessonError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// Comments godoc
// @Summary 获取课时评论
// @Tags 课时
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=[]model.SlideComment}
// @Router /api/lessons/{id}/comments [get]
func (c *LessonController) Comments(ctx *gin.Context) {
	comments, err := c.LessonService.Comments(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

func writeLessonError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
