package http

import (
	"go.uber.org/zap"
	"net/http"
	"time"
)

type FilterBuilder func(next Filter) Filter

type Filter HandlerFunc

// LoggingFilterBuilder 记录每个请求的方法、路径、状态码与耗时
func LoggingFilterBuilder(logger *zap.Logger) FilterBuilder {
	return func(next Filter) Filter {
		return func(c *Context) {
			start := time.Now()
			next(c)
			logger.Debug("serve request",
				zap.String("method", c.R.Method),
				zap.String("path", c.R.URL.Path),
				zap.Int("status", c.Status()),
				zap.Duration("cost", time.Since(start)),
			)
		}
	}
}

// RecoverFilterBuilder 将 handler 中的 panic 转换为 500
func RecoverFilterBuilder(next Filter) Filter {
	return func(c *Context) {
		defer func() {
			if r := recover(); r != nil {
				c.W.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next(c)
	}
}
