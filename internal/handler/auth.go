// Package handler HTTP 接口层
package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/internal/middleware"
	"github.com/kochabx/subook/internal/service"
	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/response"
	"github.com/kochabx/subook/pkg/validator"
)

// AuthHandler 账号相关接口
type AuthHandler struct {
	accounts *service.AccountService
	profiles *service.ProfileService
}

// NewAuthHandler 创建账号接口
func NewAuthHandler(accounts *service.AccountService, profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{accounts: accounts, profiles: profiles}
}

// Register 挂载路由
func (h *AuthHandler) Register(r gin.IRouter) {
	auth := r.Group("/api/auth")
	{
		auth.GET("/ask-code", h.askCode)
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/info", h.info)
		auth.PUT("/update-info", h.updateInfo)
		auth.POST("/update-info-with-image", h.updateInfoWithImage)
	}
}

type askCodeRequest struct {
	Email string `form:"email" validate:"required,email"`
}

func (h *AuthHandler) askCode(c *gin.Context) {
	var req askCodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, errors.BadRequest("email is required"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.accounts.AskCode(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, errors.BadRequest("invalid register request"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, account)
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, errors.BadRequest("invalid login request"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	tokenString, account, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, loginResponse{
		Token:    tokenString,
		ID:       account.ID,
		Username: account.Username,
		Role:     account.Role,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		response.Fail(c, errors.Unauthorized("authentication failed"))
		return
	}

	if err := h.accounts.Logout(c.Request.Context(), tokenString); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) info(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, errors.Unauthorized("authentication failed"))
		return
	}

	info, err := h.profiles.Info(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, info)
}

func (h *AuthHandler) updateInfo(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, errors.Unauthorized("authentication failed"))
		return
	}

	var req service.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.BadRequest("invalid update request"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	info, err := h.profiles.Update(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, info)
}

func (h *AuthHandler) updateInfoWithImage(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, errors.Unauthorized("authentication failed"))
		return
	}

	var req service.UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, errors.BadRequest("invalid update request"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		// 不带图片时退化为普通更新
		info, err := h.profiles.Update(c.Request.Context(), claims.UserID, &req)
		if err != nil {
			response.Fail(c, err)
			return
		}
		response.OK(c, info)
		return
	}

	file, contentType, err := openUpload(fileHeader)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer file.Close()

	info, err := h.profiles.UpdateWithImage(c.Request.Context(), claims.UserID, &req,
		file, fileHeader.Size, contentType)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, info)
}

// openUpload 打开上传文件并取出 Content-Type
func openUpload(fh *multipart.FileHeader) (multipart.File, string, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, "", errors.BadRequest("read upload failed").WithCause(err)
	}
	return file, fh.Header.Get("Content-Type"), nil
}
