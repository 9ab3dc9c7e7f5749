package service

import (
	"fmt"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// MailSender 邮件发送接口，测试时替换为桩实现
type MailSender interface {
	Send(toName, toEmail, subject, plainText, htmlContent string) error
}

// MailService 负责激活、重置密码、会议邀请/提醒等事务性邮件
type MailService struct {
	sender MailSender
	cfg    config.MailConfig
}

func NewMailService(cfg config.MailConfig) *MailService {
	var sender MailSender
	if cfg.SendgridKey != "" {
		sender = &sendgridSender{cfg: cfg}
	} else {
		// 本地开发未配置SendGrid时仅打日志
		sender = &logSender{}
	}
	return &MailService{sender: sender, cfg: cfg}
}

func NewMailServiceWithSender(cfg config.MailConfig, sender MailSender) *MailService {
	return &MailService{sender: sender, cfg: cfg}
}

func (s *MailService) SendActivation(name, email, token string) error {
	link := fmt.Sprintf("%s/activate?token=%s", s.cfg.FrontendBaseURL, token)
	return s.sender.Send(name, email,
		"激活你的账号",
		fmt.Sprintf("你好 %s，点击链接激活账号：%s（48小时内有效）", name, link),
		fmt.Sprintf(`<p>你好 %s，</p><p><a href="%s">点击这里激活账号</a>（48小时内有效）</p>`, name, link),
	)
}

func (s *MailService) SendPasswordReset(name, email, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendBaseURL, token)
	return s.sender.Send(name, email,
		"重置密码",
		fmt.Sprintf("你好 %s，点击链接重置密码：%s（1小时内有效）", name, link),
		fmt.Sprintf(`<p>你好 %s，</p><p><a href="%s">点击这里重置密码</a>（1小时内有效）</p>`, name, link),
	)
}

func (s *MailService) SendMeetingInvite(name, email, hostName, topic, meetingID string) error {
	link := fmt.Sprintf("%s/meetings/%s", s.cfg.FrontendBaseURL, meetingID)
	return s.sender.Send(name, email,
		fmt.Sprintf("%s 邀请你协作会议「%s」", hostName, topic),
		fmt.Sprintf("你好 %s，%s 邀请你共同管理会议「%s」：%s", name, hostName, topic, link),
		fmt.Sprintf(`<p>你好 %s，</p><p>%s 邀请你共同管理会议「%s」。</p><p><a href="%s">查看会议</a></p>`, name, hostName, topic, link),
	)
}

func (s *MailService) SendMeetingReminder(name, email, topic, startTime, meetingID string) error {
	link := fmt.Sprintf("%s/meetings/%s", s.cfg.FrontendBaseURL, meetingID)
	return s.sender.Send(name, email,
		fmt.Sprintf("会议「%s」即将开始", topic),
		fmt.Sprintf("你好 %s，会议「%s」将于 %s 开始：%s", name, topic, startTime, link),
		fmt.Sprintf(`<p>你好 %s，</p><p>会议「%s」将于 %s 开始。</p><p><a href="%s">加入会议</a></p>`, name, topic, startTime, link),
	)
}

// sendgridSender SendGrid实现，每封邮件只尝试发送一次
type sendgridSender struct {
	cfg config.MailConfig
}

func (s *sendgridSender) Send(toName, toEmail, subject, plainText, htmlContent string) error {
	from := sgmail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type logSender struct{}

func (s *logSender) Send(toName, toEmail, subject, plainText, htmlContent string) error {
	logger.Log.Info("mail (sendgrid disabled)",
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.String("body", plainText))
	return nil
}
