package database

import (
	"fmt"
	"log"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行全量表结构迁移，测试环境也复用这份表清单
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Channel{},
		&model.Subscription{},
		&model.Course{},
		&model.CourseRating{},
		&model.Lesson{},
		&model.LessonView{},
		&model.LessonLike{},
		&model.SlideComment{},
		&model.FinalSlide{},
		&model.Note{},
		&model.CompletionRecord{},
		&model.Meeting{},
		&model.MeetingCollaborator{},
		&model.MeetingParticipant{},
		&model.MeetingFile{},
		&model.AgendaItem{},
		&model.Notification{},
		&model.NotificationView{},
		&model.UploadedFile{},
	)
}
