package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/internal/middleware"
	"github.com/kochabx/subook/internal/model"
	"github.com/kochabx/subook/internal/service"
	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/response"
	"github.com/kochabx/subook/pkg/validator"
)

// CarouselHandler 轮播图管理接口，写操作仅限管理员
type CarouselHandler struct {
	carousels *service.CarouselService
}

// NewCarouselHandler 创建轮播图接口
func NewCarouselHandler(carousels *service.CarouselService) *CarouselHandler {
	return &CarouselHandler{carousels: carousels}
}

// Register 挂载路由
func (h *CarouselHandler) Register(r gin.IRouter) {
	adm := r.Group("/api/adm", middleware.RequireRole(model.RoleAdmin))
	{
		adm.POST("/carousel", h.add)
	}

	// 列表对登录用户开放
	r.GET("/api/adm/carousel", h.list)
}

func (h *CarouselHandler) add(c *gin.Context) {
	var req service.AddRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Fail(c, errors.BadRequest("invalid carousel request"))
		return
	}
	if err := validator.Validate.Struct(&req); err != nil {
		response.Fail(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, errors.BadRequest("image file is required"))
		return
	}

	file, contentType, err := openUpload(fileHeader)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer file.Close()

	carousel, err := h.carousels.Add(c.Request.Context(), &req, file, fileHeader.Size, contentType)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, carousel)
}

func (h *CarouselHandler) list(c *gin.Context) {
	items, err := h.carousels.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, items)
}
