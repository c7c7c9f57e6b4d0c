package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// recovery converts handler panics into 500 responses. Contract violations
// like inverted report ranges panic rather than return errors, so this is the
// backstop that keeps one bad request from taking the server down
func recovery(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			panicValue := recover()
			if panicValue == nil {
				return
			}
			if ce := logger.Check(zap.ErrorLevel, "[Recovery]"); ce != nil {
				fields := []zap.Field{zap.Any("error", panicValue)}
				if stack && ce.Entry.Stack == "" {
					fields = append(fields, zap.Stack("stacktrace"))
				} else if !stack {
					ce.Entry.Stack = ""
				}
				ce.Write(fields...)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, map[string]string{
				"Error": fmt.Sprintf("%v", panicValue),
			})
		}()
		c.Next()
	}
}
