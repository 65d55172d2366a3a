package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/pkg/log"
)

// Recovery 创建 panic 恢复中间件
func Recovery(loggers ...*log.Logger) gin.HandlerFunc {
	logger := log.G
	if len(loggers) > 0 && loggers[0] != nil {
		logger = loggers[0]
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				httpRequest, _ := httputil.DumpRequest(c.Request, false)

				if isBrokenPipe(err) {
					logger.Warn().
						Str("error", fmt.Sprintf("%v", err)).
						Bytes("request", httpRequest).
						Msg("broken pipe")
					_ = c.Error(fmt.Errorf("%v", err))
					c.Abort()
					return
				}

				logger.Error().
					Str("error", fmt.Sprintf("%v", err)).
					Bytes("request", httpRequest).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// isBrokenPipe 检查是否为连接断开错误
func isBrokenPipe(err any) bool {
	if ne, ok := err.(*net.OpError); ok {
		if se, ok := ne.Err.(*os.SyscallError); ok {
			errStr := strings.ToLower(se.Error())
			return strings.Contains(errStr, "broken pipe") ||
				strings.Contains(errStr, "connection reset by peer")
		}
	}
	return false
}
