package dto

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	res "fittrack/challenge-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorMapping 领域错误到业务错误码的映射
type ErrorMapping struct {
	Err  error
	Code res.ResponseCode
	Msg  string
}

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

// ErrorResponse HTTP 状态码由业务错误码决定
func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(err.Code.HTTPStatus(), res.ErrorResponse(err))
}

// HandleError 按映射表把领域错误转换为响应，未匹配的错误记录日志并返回 500
func HandleError(c *gin.Context, err error, mappings []ErrorMapping) {
	var bizErr *res.BusinessError
	if errors.As(err, &bizErr) {
		ErrorResponse(c, bizErr)
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			ErrorResponse(c, res.NewBusinessError(
				res.WithErrorCode(m.Code),
				res.WithErrorMessage(m.Msg),
				res.WithError(err),
			))
			return
		}
	}

	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.Fail),
		res.WithErrorMessage("服务器内部错误"),
		res.WithError(err),
	))
}

// InvalidParameter 参数错误响应
func InvalidParameter(c *gin.Context, msg string) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.InvalidParameter),
		res.WithErrorMessage(msg),
	))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	// 尝试转换为 validator.ValidationErrors
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			firstErr := validationErrs[0]

			// 获取字段的JSON标签名
			jsonField := getJSONFieldName(firstErr)

			var message string
			switch firstErr.Tag() {
			case "required":
				message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
			case "max":
				message = fmt.Sprintf("字段 '%s' 不能超过 %s", jsonField, firstErr.Param())
			case "min":
				message = fmt.Sprintf("字段 '%s' 不能少于 %s", jsonField, firstErr.Param())
			case "oneof":
				message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
			case "datetime":
				message = fmt.Sprintf("字段 '%s' 必须是 YYYY-MM-DD 格式的日期", jsonField)
			case "uuid":
				message = fmt.Sprintf("字段 '%s' 必须是合法的 UUID", jsonField)
			default:
				message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
			}

			ErrorResponse(c, res.NewBusinessError(
				res.WithErrorCode(res.ParseError),
				res.WithErrorMessage(message),
			))
			return
		}
	}

	// 如果不是 validation 错误，返回原始错误消息
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("参数错误: "+err.Error()),
	))
}

// getJSONFieldName 获取字段的JSON标签名称
// 字段名在 init 中已替换为 json/form 标签
func getJSONFieldName(fe validator.FieldError) string {
	return fe.Field()
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(tagName)
	}
}

// tagName 依次使用 json、form 标签作为校验错误里的字段名
func tagName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
