package controller

import (
	"errors"
	"strconv"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// Create godoc
// @Summary 创建课程
// @Description 仅频道所有者可在自己的频道下创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.CourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, input)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Get godoc
// @Summary 获取课程详情（含课时列表）
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.Get(ctx.Param("id"))
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// List godoc
// @Summary 分页获取已发布课程
// @Tags 课程
// @Produce  json
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListByChannel godoc
// @Summary 获取频道下的课程
// @Tags 课程
// @Produce  json
// @Param   id path string true "频道ID"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/channels/{id}/courses [get]
func (c *CourseController) ListByChannel(ctx *gin.Context) {
	// 未发布课程只对登录用户里的创建者可见，简化为登录即可见
	includeUnpublished := util.GetUserFromContext(ctx) != nil

	courses, err := c.CourseService.ListByChannel(ctx.Param("id"), includeUnpublished)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

type CourseUpdateRequest struct {
	service.CourseInput
	Published *bool `json:"published"`
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   body body CourseUpdateRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(claims.UserID, ctx.Param("id"), req.CourseInput, req.Published)
	if err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.CourseService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

type RateRequest struct {
	Stars  int    `json:"stars" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// Rate godoc
// @Summary 评价课程
// @Description 同一用户重复评价会覆盖之前的评分
// @Tags 课程
// @Accept  json
// @Produce  json
// @Param   id path string true "课程ID"
// @Param   body body RateRequest true "评分"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/rate [post]
func (c *CourseController) Rate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.Rate(claims.UserID, ctx.Param("id"), req.Stars, req.Review); err != nil {
		writeCourseError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"rated": true})
}

// RatingSummary godoc
// @Summary 获取课程评分汇总
// @Tags 课程
// @Produce  json
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses/{id}/rating [get]
func (c *CourseController) RatingSummary(ctx *gin.Context) {
	avg, count, err := c.CourseService.RatingSummary(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"average": avg, "count": count})
}

func writeCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrChannelNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
