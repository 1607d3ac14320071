package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/notes-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/httputil"
)

// Recovery turns a panic into a 500 response. When the panic comes from a
// client that hung up, nothing is written back.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			if isBrokenConnection(rec) {
				logger.Warn("client connection lost",
					zap.Any("error", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(RequestIDKey)),
				)
				c.Abort()
				return
			}

			logger.Error("panic recovered",
				zap.Any("error", rec),
				zap.String("stack", string(debug.Stack())),
				zap.String("request_id", c.GetString(RequestIDKey)),
			)
			httputil.AbortWithError(c, apperror.Internal(fmt.Errorf("panic: %v", rec)))
		}()
		c.Next()
	}
}

func isBrokenConnection(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
