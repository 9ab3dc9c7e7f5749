package service

import (
	"testing"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/pkg/database"
	"xtreme_region_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// setupTestDB 每个测试一个独立的内存库，复用生产迁移的表清单
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "测试用户",
		Email:    email,
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestLesson(t *testing.T, db *gorm.DB, courseID string, ownerID uint) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		Title:    "第一课",
		CourseID: courseID,
		UserID:   ownerID,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

// recordingSender 记录发出的邮件，不真正发送
type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(toName, toEmail, subject, plainText, htmlContent string) error {
	r.sent = append(r.sent, toEmail+": "+subject)
	return nil
}

func newTestMailService() (*MailService, *recordingSender) {
	sender := &recordingSender{}
	return NewMailServiceWithSender(config.MailConfig{
		FromName:        "XtremeRegion",
		FromEmail:       "noreply@example.com",
		FrontendBaseURL: "http://localhost:3000",
	}, sender), sender
}
