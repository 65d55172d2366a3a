// Package response 统一的 JSON 响应封装
package response

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/pkg/errors"
)

const (
	successCode    = http.StatusOK
	successMessage = "success"

	fallbackCode    = http.StatusServiceUnavailable
	fallbackMessage = "service temporarily unavailable"
)

// Body 响应体结构
type Body struct {
	Code    int    `json:"code"`              // 业务状态码
	Data    any    `json:"data,omitempty"`    // 响应数据，为 nil 时省略
	Message string `json:"message,omitempty"` // 响应消息，为空时省略
}

// 对象池复用响应体实例
var bodyPool = sync.Pool{
	New: func() any {
		return &Body{}
	},
}

func acquire() *Body {
	return bodyPool.Get().(*Body)
}

func release(b *Body) {
	b.Code = 0
	b.Data = nil
	b.Message = ""
	bodyPool.Put(b)
}

// OK 写入成功响应
func OK(c *gin.Context, data any) {
	if c == nil {
		return
	}

	body := acquire()
	defer release(body)

	body.Code = successCode
	body.Data = data
	body.Message = successMessage
	c.JSON(http.StatusOK, body)
}

// Fail 写入错误响应并中止后续 handler
func Fail(c *gin.Context, err error) {
	FailWithStatus(c, http.StatusOK, err)
}

// FailWithStatus 以指定 HTTP 状态码写入错误响应并中止后续 handler
func FailWithStatus(c *gin.Context, status int, err error) {
	if c == nil {
		return
	}

	defer c.Abort()

	body := acquire()
	defer release(body)

	if err == nil {
		body.Code = fallbackCode
		body.Message = fallbackMessage
	} else {
		e := errors.FromError(err)
		body.Code = e.Code
		body.Message = e.Message
	}

	c.JSON(status, body)
}
