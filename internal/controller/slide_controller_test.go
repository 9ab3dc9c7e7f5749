package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/database"
	"xtreme_region_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
}

func setupSlideTest(t *testing.T) (*gorm.DB, *service.SlideService, *SlideController) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	svc := service.NewSlideService(repository.NewSlideRepository(db), repository.NewLessonRepository(db), db)
	return db, svc, NewSlideController(svc)
}

// slideRouter 用固定的会话身份挂一条最小路由链
func slideRouter(c *SlideController, claims *util.Claims) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	if claims != nil {
		api.Use(func(ctx *gin.Context) { ctx.Set("user", claims) })
	}
	api.PUT("/lessons/:id/slides", c.Save)
	api.GET("/lessons/:id/slides", c.Get)
	return r
}

func TestSaveSlidesRejectsOtherCreators(t *testing.T) {
	db, svc, ctrl := setupSlideTest(t)

	owner := &model.User{Name: "所有者", Email: "owner@example.com", Password: "x", Role: model.Creator, IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	intruder := &model.User{Name: "路人", Email: "intruder@example.com", Password: "x", Role: model.Creator, IsActive: true}
	require.NoError(t, db.Create(intruder).Error)

	lesson := &model.Lesson{Title: "第一课", CourseID: "course-1", UserID: owner.ID}
	require.NoError(t, db.Create(lesson).Error)
	_, err := svc.SaveSlides(owner.ID, lesson.ID, []service.SlideInput{{Title: "原始内容"}})
	require.NoError(t, err)

	router := slideRouter(ctrl, &util.Claims{UserID: intruder.ID, Role: model.Creator})
	body := bytes.NewBufferString(`{"slides":[{"title":"篡改内容"}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/lessons/"+lesson.ID+"/slides", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// 原有幻灯片未被动过
	slides, err := svc.GetSlides(lesson.ID)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Equal(t, "原始内容", slides[0].Title)
}

func TestSaveSlidesOwnerSucceeds(t *testing.T) {
	db, _, ctrl := setupSlideTest(t)

	owner := &model.User{Name: "所有者", Email: "owner@example.com", Password: "x", Role: model.Creator, IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	lesson := &model.Lesson{Title: "第一课", CourseID: "course-1", UserID: owner.ID}
	require.NoError(t, db.Create(lesson).Error)

	router := slideRouter(ctrl, &util.Claims{UserID: owner.ID, Role: model.Creator})
	body := bytes.NewBufferString(`{"slides":[{"title":"开场"}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/lessons/"+lesson.ID+"/slides", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"savedCount":1`)
}

func TestGetSlidesMissingLessonIs404(t *testing.T) {
	_, _, ctrl := setupSlideTest(t)

	router := slideRouter(ctrl, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/lessons/missing/slides", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
