package gintool

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/ctf_checker/constants"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// GinContextToLoggerContext 将 Gin 上下文转换为 Logger 上下文
func GinContextToLoggerContext(c *gin.Context) context.Context {
	baseCtx := c.Request.Context()

	fields := make([]logger.Field, 0, 2)

	if requestID := c.GetHeader(constants.HeaderRequestIDKey); requestID != "" {
		fields = append(fields, logger.String("RequestID", requestID))
	}
	if userID := c.GetHeader(constants.HeaderUserIDKey); userID != "" {
		fields = append(fields, logger.String("UserID", userID))
	}

	return loggerv2.ContextWithFields(baseCtx, fields...)
}

// ExtractOperator 从 Gin 上下文提取操作人 ID, 未携带 X-User-ID 时视为内部调用
func ExtractOperator(c *gin.Context, p model.CommonParamInterface) error {
	userID := c.GetHeader(constants.HeaderUserIDKey)
	if userID == "" {
		return nil
	}
	operator, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("X-User-ID header is not a valid uint64, X-User-ID: %s, err: %w", userID, err)
	}
	p.SetOperator(operator)
	return nil
}
