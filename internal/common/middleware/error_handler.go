package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/pkg/logger"
)

// ErrorHandler recovers panics and turns them into a 500 AppError.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				appErr := errors.Internal("internal server error", "")
				c.AbortWithStatusJSON(appErr.Status, appErr)
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse writes err as an AppError. Anything that is not already an
// AppError is reported as an internal error.
func JSONErrorResponse(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		details := ""
		if err != nil {
			details = err.Error()
		}
		appErr = errors.Internal("internal server error", details)
	}
	if appErr.Status >= 500 {
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr),
		)
	}
	c.AbortWithStatusJSON(appErr.Status, appErr)
}
