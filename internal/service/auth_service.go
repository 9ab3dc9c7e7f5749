package service

import (
	"errors"
	"time"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	activationTokenTTL = 48 * time.Hour
	resetTokenTTL      = time.Hour
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Mail     *MailService
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, mail *MailService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Mail:     mail,
		Cfg:      cfg,
	}
}

// Register 创建未激活账号并发送激活邮件
func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}

	token, err := util.GenerateActionToken(user.ID, util.PurposeActivate, s.Cfg.JWT.Secret, activationTokenTTL)
	if err != nil {
		return err
	}

	// 发信失败不回滚注册，仅记录
	if err := s.Mail.SendActivation(user.Name, user.Email, token); err != nil {
		logger.Log.Error("failed to send activation mail",
			zap.String("email", user.Email), zap.Error(err))
	}

	return nil
}

// Activate 通过邮件中的一次性令牌激活账号
func (s *AuthService) Activate(token string) error {
	claims, err := util.ParseActionToken(token, util.PurposeActivate, s.Cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidToken
	}
	return s.UserRepo.Activate(claims.UserID)
}

// Login 校验凭据，返回JWT；控制器负责种会话Cookie
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, util.ErrAccountInactive
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	return token, user, err
}

// SessionToken 签发会话Cookie载荷（7天有效）
func (s *AuthService) SessionToken(user *model.User) (string, error) {
	ttl := time.Duration(s.Cfg.Session.MaxAgeDays) * 24 * time.Hour
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, ttl)
}

// RequestPasswordReset 发送重置邮件；邮箱不存在时静默成功，避免账号探测
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := util.GenerateActionToken(user.ID, util.PurposePasswordReset, s.Cfg.JWT.Secret, resetTokenTTL)
	if err != nil {
		return err
	}

	return s.Mail.SendPasswordReset(user.Name, user.Email, token)
}

// ResetPassword 校验重置令牌并更新密码
func (s *AuthService) ResetPassword(token, newPassword string) error {
	claims, err := util.ParseActionToken(token, util.PurposePasswordReset, s.Cfg.JWT.Secret)
	if err != nil {
		return util.ErrInvalidToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.UserRepo.UpdatePassword(claims.UserID, string(hashed))
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
