package controller

import (
	"errors"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SlideController struct {
	SlideService *service.SlideService
}

func NewSlideController(slideService *service.SlideService) *SlideController {
	return &SlideController{SlideService: slideService}
}

type SaveSlidesRequest struct {
	Slides []service.SlideInput `json:"slides"`
}

// Save godoc
// @Summary 保存课时幻灯片
// @Description 整体替换课时的幻灯片内容，占位内容被静默丢弃，
// @Description 返回实际持久化的数量。空列表返回400且不产生任何写入。
// @Tags 幻灯片
// @Accept  json
// @Produce  json
// @Param   id path string true "课时ID"
// @Param   body body SaveSlidesRequest true "幻灯片列表"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "未提供幻灯片"
// @Failure 403 {object} util.Response "非课时所有者"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/slides [put]
func (c *SlideController) Save(ctx *gin.Context) {
	var req SaveSlidesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	count, err := c.SlideService.SaveSlides(claims.UserID, ctx.Param("id"), req.Slides)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoSlidesProvided):
			util.BadRequest(ctx, "no slides provided")
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"savedCount": count})
}

// Get godoc
// @Summary 获取课时幻灯片
// @Tags 幻灯片
// @Produce  json
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=[]model.FinalSlide}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/slides [get]
func (c *SlideController) Get(ctx *gin.Context) {
	slides, err := c.SlideService.GetSlides(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, slides)
}
