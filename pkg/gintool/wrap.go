package gintool

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/pkg404/logger"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
)

// paramValidator 沿用 gin 的 binding 标签, 在所有来源绑定完成后统一校验
var paramValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// Param 参数结构体指针约束
type Param[T any] interface {
	*T
	model.CommonParamInterface
}

// WrapHandler 包装处理函数, 依次绑定 Query 和 JSON 请求体, 再统一校验
func WrapHandler[T any, P Param[T]](h func(c *gin.Context, param P), log loggerv2.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		param := P(new(T))

		// 1) Query/Form
		if c.Request.URL != nil && c.Request.URL.RawQuery != "" {
			if err := c.ShouldBindQuery(param); err != nil {
				badRequest(c, log, "WrapHandler bind query failed", err)
				return
			}
		}

		// 2) JSON
		if c.Request.ContentLength != 0 && c.Request.Method != http.MethodGet {
			if err := c.ShouldBindJSON(param); err != nil {
				badRequest(c, log, "WrapHandler bind json failed", err)
				return
			}
		}

		// 3) 校验
		if err := paramValidator.Struct(param); err != nil {
			badRequest(c, log, "WrapHandler validate failed", err)
			return
		}

		if err := ExtractOperator(c, param); err != nil {
			badRequest(c, log, "WrapHandler ExtractOperator failed", err)
			return
		}

		h(c, param)
	}
}

// WrapWithoutBodyHandler 包装处理函数, 只提取操作人
func WrapWithoutBodyHandler[T any, P Param[T]](h func(c *gin.Context, param P), log loggerv2.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		param := P(new(T))

		if err := ExtractOperator(c, param); err != nil {
			badRequest(c, log, "WrapWithoutBodyHandler ExtractOperator failed", err)
			return
		}

		h(c, param)
	}
}

func badRequest(c *gin.Context, log loggerv2.Logger, msg string, err error) {
	GinResponse(c, &Response{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
	log.ErrorContext(c.Request.Context(), msg, logger.Error(err))
}
