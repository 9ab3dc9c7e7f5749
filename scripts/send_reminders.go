// 手动触发会议提醒脚本
//
// 提醒邮件由主应用的后台定时任务每小时发送一次。
// 此脚本仅用于手动补发，例如服务停机后恢复时。
//
// 用法: go run scripts/send_reminders.go
package main

import (
	"log"
	"time"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/pkg/database"
	"xtreme_region_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	meetingRepo := repository.NewMeetingRepository(db)
	userRepo := repository.NewUserRepository(db)
	mail := service.NewMailService(cfg.Mail)
	meetings := service.NewMeetingService(meetingRepo, userRepo, mail)

	log.Println("手动触发会议提醒任务...")
	from := time.Now()
	if err := meetings.SendReminders(from, from.Add(24*time.Hour)); err != nil {
		log.Fatalf("发送提醒失败: %v", err)
	}
	log.Println("完成！")
}
