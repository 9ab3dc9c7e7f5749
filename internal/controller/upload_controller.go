package controller

import (
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadController struct {
	Storage    *service.StorageService
	UploadRepo *repository.UploadRepository
}

func NewUploadController(storage *service.StorageService, uploadRepo *repository.UploadRepository) *UploadController {
	return &UploadController{
		Storage:    storage,
		UploadRepo: uploadRepo,
	}
}

type PresignRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileType string `json:"fileType"`
}

type PresignResponse struct {
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	URL          string `json:"url"`
}

// Presign godoc
// @Summary 获取预签名上传地址
// @Description 客户端直传对象存储；签名有效期不超过1小时。
// @Description 本地存储模式不支持预签名，返回400。
// @Tags 上传
// @Accept  json
// @Produce  json
// @Param   body body PresignRequest true "文件名和类型"
// @Success 200 {object} util.Response{data=PresignResponse}
// @Failure 400 {object} util.Response
// @Router /api/uploads/presign [post]
func (c *UploadController) Presign(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req PresignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	upload, err := c.Storage.Presign(ctx.Request.Context(), req.FileName)
	if err != nil {
		util.BadRequest(ctx, "当前存储方式不支持预签名上传")
		return
	}

	// 记录上传占位行，客户端传完后key可反查归属
	record := &model.UploadedFile{
		Key:         upload.Key,
		Name:        req.FileName,
		ContentType: req.FileType,
		URL:         upload.URL,
		UploaderID:  claims.UserID,
	}
	if err := c.UploadRepo.Create(record); err != nil {
		logger.Log.Warn("failed to record presigned upload", zap.String("key", upload.Key), zap.Error(err))
	}

	util.Success(ctx, PresignResponse{
		PresignedURL: upload.PresignedURL,
		Key:          upload.Key,
		URL:          upload.URL,
	})
}

// ListMine godoc
// @Summary 获取当前用户的上传记录
// @Tags 上传
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.UploadedFile}
// @Router /api/uploads [get]
func (c *UploadController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	files, err := c.UploadRepo.FindByUploader(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, files)
}
