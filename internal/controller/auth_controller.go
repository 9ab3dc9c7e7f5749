package controller

import (
	"errors"
	"net/http"
	"xtreme_region_backend/internal/config"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/service"
	"xtreme_region_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
	Session     config.SessionConfig
}

func NewAuthController(authService *service.AuthService, userService *service.UserService, session config.SessionConfig) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
		Session:     session,
	}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=learner creator"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册后发送激活邮件，账号激活前不能登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role := model.UserRole(req.Role)
	if role == "" {
		role = model.Learner
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// Activate godoc
// @Summary 激活账号
// @Description 使用邮件里的激活令牌激活账号
// @Tags 认证
// @Produce  json
// @Param   token query string true "激活令牌"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "令牌无效或过期"
// @Router /api/activate [get]
func (c *AuthController) Activate(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		util.BadRequest(ctx, "token is required")
		return
	}

	if err := c.AuthService.Activate(token); err != nil {
		if errors.Is(err, util.ErrInvalidToken) || errors.Is(err, util.ErrUserNotFound) {
			util.BadRequest(ctx, "激活令牌无效或已过期")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"activated": true})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 登录成功后返回JWT并种下HTTP-only会话Cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Failure 403 {object} util.Response "账号未激活"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials), errors.Is(err, util.ErrUserNotFound):
			util.Error(ctx, http.StatusUnauthorized, "邮箱或密码错误")
		case errors.Is(err, util.ErrAccountInactive):
			util.Error(ctx, http.StatusForbidden, "账号尚未激活，请查收激活邮件")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setSessionCookie(ctx, user)

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// setSessionCookie 7天HTTP-only会话Cookie，SameSite=Lax
func (c *AuthController) setSessionCookie(ctx *gin.Context, user *model.User) {
	sessionToken, err := c.AuthService.SessionToken(user)
	if err != nil {
		return
	}
	maxAge := c.Session.MaxAgeDays * 24 * 3600
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, sessionToken, maxAge, "/", "", c.Session.Secure, true)
}

// Logout godoc
// @Summary 退出登录
// @Description 清除会话Cookie
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, "", -1, "/", "", c.Session.Secure, true)
	util.Success(ctx, gin.H{"loggedOut": true})
}

// Me godoc
// @Summary 获取当前用户
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary 请求重置密码
// @Description 邮箱存在时发送重置邮件；无论邮箱是否存在都返回成功
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/password/forgot [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.RequestPasswordReset(req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sent": true})
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary 重置密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "重置令牌和新密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "令牌无效或过期"
// @Router /api/password/reset [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, util.ErrInvalidToken) || errors.Is(err, util.ErrUserNotFound) {
			util.BadRequest(ctx, "重置令牌无效或已过期")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"reset": true})
}
